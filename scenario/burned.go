package scenario

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// BurnedData is the compact per-scenario record of which cells have
// burned. Once a cell is set it stays set for the scenario's life
// (spec.md's "a cell once in BurnedData stays in BurnedData" invariant);
// nothing in this package ever clears an individual bit.
type BurnedData struct {
	bits *bitset.BitSet
}

// Set marks cellHash as burned.
func (b *BurnedData) Set(cellHash int) {
	b.bits.Set(uint(cellHash))
}

// Test reports whether cellHash has burned.
func (b *BurnedData) Test(cellHash int) bool {
	return b.bits.Test(uint(cellHash))
}

// Count returns the number of burned cells.
func (b *BurnedData) Count() int {
	return int(b.bits.Count())
}

// BurnedPool recycles BurnedData buffers across scenario resets, sized
// lazily to each grid's cell count; buffers are always fully cleared
// before being handed back out. It is the pool spec.md §5 calls out as
// "guarded by one mutex" — exported so a montecarlo.Controller can share
// a single pool across every scenario it runs, rather than each scenario
// keeping a pool of one.
type BurnedPool struct {
	mu    sync.Mutex
	byLen map[int]*sync.Pool
}

// NewBurnedPool returns an empty pool ready to hand out BurnedData
// buffers of any size on first use.
func NewBurnedPool() *BurnedPool {
	return &BurnedPool{byLen: make(map[int]*sync.Pool)}
}

func (p *BurnedPool) get(nCells int) *BurnedData {
	p.mu.Lock()
	pool, ok := p.byLen[nCells]
	if !ok {
		pool = &sync.Pool{New: func() interface{} {
			return &BurnedData{bits: bitset.New(uint(nCells))}
		}}
		p.byLen[nCells] = pool
	}
	p.mu.Unlock()

	bd := pool.Get().(*BurnedData)
	bd.bits.ClearAll()
	return bd
}

func (p *BurnedPool) put(nCells int, bd *BurnedData) {
	p.mu.Lock()
	pool := p.byLen[nCells]
	p.mu.Unlock()
	if pool != nil {
		pool.Put(bd)
	}
}

package raster

import (
	"runtime"
	"sync"
)

// ParallelConfig configures the tiled worker-pool rasterizer.
type ParallelConfig struct {
	// Workers is the number of worker goroutines. 0 defaults to
	// runtime.NumCPU().
	Workers int

	// TileSize is the tile edge length in pixels. 0 uses DefaultTileSize.
	TileSize int

	// MinTriangles is the triangle count below which a frame runs
	// single-threaded rather than paying worker-pool overhead. 0
	// defaults to 10.
	MinTriangles int
}

func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{Workers: runtime.NumCPU(), TileSize: DefaultTileSize, MinTriangles: 10}
}

// WorkerPool runs submitted tasks on a fixed set of goroutines. Each
// tile-processing task owns its tile's region of the framebuffer and
// depth buffer exclusively for the task's lifetime, so the pool itself
// is the only place synchronization (the task channel and the
// WaitGroup) is needed — tasks never need a mutex between themselves.
//
// A worker's loop is a plain range over the task channel: closing the
// channel is both the shutdown signal and the drain mechanism, so there
// is no separate quit channel or select to reason about.
type WorkerPool struct {
	workers   int
	inflight  sync.WaitGroup
	tasks     chan func()
	closeOnce sync.Once
	startOnce sync.Once
}

func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), workers*4),
	}
}

// Start launches the pool's goroutines. Safe to call more than once;
// only the first call has any effect.
func (p *WorkerPool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			go p.run()
		}
	})
}

func (p *WorkerPool) run() {
	for task := range p.tasks {
		task()
		p.inflight.Done()
	}
}

// Submit enqueues task for execution by one of the pool's workers. It
// blocks if the task queue is full.
func (p *WorkerPool) Submit(task func()) {
	p.inflight.Add(1)
	p.tasks <- task
}

// Wait blocks until every task submitted so far has completed. Safe to
// call again for a subsequent batch.
func (p *WorkerPool) Wait() {
	p.inflight.Wait()
}

// Close shuts the pool down by closing the task channel, which unblocks
// every worker's range loop once its queued work drains. Safe to call
// more than once.
func (p *WorkerPool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
}

func (p *WorkerPool) Workers() int { return p.workers }

// ParallelRasterizer partitions a framebuffer into tiles and dispatches
// per-tile rasterization work across a WorkerPool. A frame's triangles
// are binned once per tile pass; every tile is processed by exactly one
// goroutine for that pass, so tile-local buffers need no locking.
//
// Rather than submitting one pool task per populated tile, a frame's
// populated tiles are split into one contiguous run per worker up
// front, so the pool only ever sees Workers() submissions per frame no
// matter how many tiles that frame touches.
type ParallelRasterizer struct {
	config ParallelConfig
	grid   *TileGrid
	pool   *WorkerPool
}

func NewParallelRasterizer(width, height int, config ParallelConfig) *ParallelRasterizer {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if config.MinTriangles <= 0 {
		config.MinTriangles = 10
	}

	pool := NewWorkerPool(config.Workers)
	pool.Start()

	return &ParallelRasterizer{
		config: config,
		grid:   NewTileGrid(width, height, config.TileSize),
		pool:   pool,
	}
}

func (r *ParallelRasterizer) Resize(width, height int) {
	r.grid = NewTileGrid(width, height, r.config.TileSize)
}

func (r *ParallelRasterizer) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func (r *ParallelRasterizer) Config() ParallelConfig { return r.config }
func (r *ParallelRasterizer) Grid() *TileGrid        { return r.grid }

// tileWork pairs a tile with the triangles binned to it, so a worker's
// run of tiles can be described as a single contiguous slice.
type tileWork struct {
	tile  Tile
	tris  []Triangle
}

// RasterizeParallel bins triangles to tiles and invokes callback once
// per non-empty tile, distributing the populated tiles evenly across
// the pool's workers and waiting for all of them to finish before
// returning.
func (r *ParallelRasterizer) RasterizeParallel(triangles []Triangle, callback func(tile Tile, triangles []Triangle)) {
	if len(triangles) < r.config.MinTriangles {
		r.rasterizeSingleThreaded(triangles, callback)
		return
	}

	work := collectTileWork(BinTrianglesToTilesWithTest(triangles, r.grid), r.grid)
	if len(work) == 0 {
		return
	}

	for _, run := range partitionTileWork(work, r.pool.Workers()) {
		batch := run
		r.pool.Submit(func() {
			for _, w := range batch {
				callback(w.tile, w.tris)
			}
		})
	}
	r.pool.Wait()
}

func (r *ParallelRasterizer) rasterizeSingleThreaded(triangles []Triangle, callback func(tile Tile, triangles []Triangle)) {
	for _, w := range collectTileWork(BinTrianglesToTilesWithTest(triangles, r.grid), r.grid) {
		callback(w.tile, w.tris)
	}
}

// collectTileWork flattens a tile-index-keyed bin map into an ordered
// slice of non-empty tile work, resolving each index to its Tile once.
func collectTileWork(bins map[int][]Triangle, grid *TileGrid) []tileWork {
	work := make([]tileWork, 0, len(bins))
	for tileIdx, tris := range bins {
		if len(tris) == 0 {
			continue
		}
		work = append(work, tileWork{tile: grid.GetTile(tileIdx%grid.tilesX, tileIdx/grid.tilesX), tris: tris})
	}
	return work
}

// partitionTileWork splits work into at most workers contiguous runs of
// roughly equal size, so each pool task processes a batch of tiles
// rather than a single one.
func partitionTileWork(work []tileWork, workers int) [][]tileWork {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(work) {
		workers = len(work)
	}

	base := len(work) / workers
	extra := len(work) % workers

	runs := make([][]tileWork, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < extra {
			size++
		}
		if size == 0 {
			continue
		}
		runs = append(runs, work[start:start+size])
		start += size
	}
	return runs
}

// BinTrianglesToTiles assigns each triangle to every tile in its
// screen-space bounding box, without further overlap testing.
func BinTrianglesToTiles(triangles []Triangle, grid *TileGrid) map[int][]Triangle {
	result := make(map[int][]Triangle)
	for i := range triangles {
		tri := &triangles[i]
		for _, tile := range grid.GetTilesForTriangle(*tri) {
			idx := grid.TileIndex(tile.X, tile.Y)
			result[idx] = append(result[idx], *tri)
		}
	}
	return result
}

// BinTrianglesToTilesWithTest is like BinTrianglesToTiles but rejects
// tiles the triangle's edge functions prove it cannot cover, which
// matters once meshes are denser than the tile grid.
func BinTrianglesToTilesWithTest(triangles []Triangle, grid *TileGrid) map[int][]Triangle {
	result := make(map[int][]Triangle)
	for i := range triangles {
		tri := &triangles[i]

		e01 := NewEdgeFunction(tri.V0.X, tri.V0.Y, tri.V1.X, tri.V1.Y)
		e12 := NewEdgeFunction(tri.V1.X, tri.V1.Y, tri.V2.X, tri.V2.Y)
		e20 := NewEdgeFunction(tri.V2.X, tri.V2.Y, tri.V0.X, tri.V0.Y)

		for _, tile := range grid.GetTilesForTriangle(*tri) {
			if TileTriangleTest(tile, e01, e12, e20) != -1 {
				idx := grid.TileIndex(tile.X, tile.Y)
				result[idx] = append(result[idx], *tri)
			}
		}
	}
	return result
}

// fragmentPool recycles Fragment slices across tile passes to keep the
// per-frame hot loop allocation-free.
var fragmentPool = sync.Pool{
	New: func() interface{} {
		s := make([]Fragment, 0, 64)
		return &s
	},
}

func GetFragmentSlice() *[]Fragment {
	return fragmentPool.Get().(*[]Fragment)
}

func PutFragmentSlice(s *[]Fragment) {
	*s = (*s)[:0]
	fragmentPool.Put(s)
}

// ParallelForEachTile runs fn once per tile in the grid, in parallel,
// using the same worker-count partitioning as RasterizeParallel.
func (r *ParallelRasterizer) ParallelForEachTile(fn func(tile Tile)) {
	tiles := r.grid.GetAllTiles()
	if len(tiles) == 0 {
		return
	}

	workers := r.pool.Workers()
	if workers > len(tiles) {
		workers = len(tiles)
	}
	base := len(tiles) / workers
	extra := len(tiles) % workers

	start := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < extra {
			size++
		}
		if size == 0 {
			continue
		}
		batch := tiles[start : start+size]
		start += size
		r.pool.Submit(func() {
			for _, t := range batch {
				fn(t)
			}
		})
	}
	r.pool.Wait()
}

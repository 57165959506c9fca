package raster

// DefaultTileSize is the recommended tile edge length in pixels. Must be
// at least simd.LaneWidth so a tile-local scanline run never needs to
// straddle a tile boundary mid-lane.
const DefaultTileSize = 32

// Tile is a rectangular region of the framebuffer: the unit of parallel
// work and of tile-local buffer ownership.
type Tile struct {
	X, Y                   int // tile grid coordinates
	MinX, MinY, MaxX, MaxY int // pixel bounds, [Min, Max)
}

type tileCorners struct {
	TL, TR, BL, BR [2]float32
}

// Corners returns the tile's four corner pixel centers, used for
// hierarchical tile-vs-triangle overlap testing.
func (t Tile) Corners() tileCorners {
	return tileCorners{
		TL: [2]float32{float32(t.MinX) + 0.5, float32(t.MinY) + 0.5},
		TR: [2]float32{float32(t.MaxX-1) + 0.5, float32(t.MinY) + 0.5},
		BL: [2]float32{float32(t.MinX) + 0.5, float32(t.MaxY-1) + 0.5},
		BR: [2]float32{float32(t.MaxX-1) + 0.5, float32(t.MaxY-1) + 0.5},
	}
}

func (t Tile) Width() int  { return t.MaxX - t.MinX }
func (t Tile) Height() int { return t.MaxY - t.MinY }

// TileGrid partitions a framebuffer of the given size into a grid of
// fixed square tiles.
type TileGrid struct {
	tiles          []Tile
	tilesX, tilesY int
	width, height  int
	tileSize       int
}

// NewTileGrid builds a tile grid. tileSize <= 0 uses DefaultTileSize.
func NewTileGrid(width, height, tileSize int) *TileGrid {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			minX := tx * tileSize
			minY := ty * tileSize
			tiles[ty*tilesX+tx] = Tile{
				X: tx, Y: ty,
				MinX: minX, MinY: minY,
				MaxX: minInt(minX+tileSize, width),
				MaxY: minInt(minY+tileSize, height),
			}
		}
	}

	return &TileGrid{tiles: tiles, tilesX: tilesX, tilesY: tilesY, width: width, height: height, tileSize: tileSize}
}

func (g *TileGrid) TileCount() int   { return len(g.tiles) }
func (g *TileGrid) TilesX() int      { return g.tilesX }
func (g *TileGrid) TilesY() int      { return g.tilesY }
func (g *TileGrid) TileSize() int    { return g.tileSize }
func (g *TileGrid) TileIndex(tx, ty int) int { return ty*g.tilesX + tx }

func (g *TileGrid) GetTile(tx, ty int) Tile {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return Tile{}
	}
	return g.tiles[ty*g.tilesX+tx]
}

// GetTilesForRect returns every tile overlapping [minX,maxX) x [minY,maxY).
func (g *TileGrid) GetTilesForRect(minX, minY, maxX, maxY int) []Tile {
	minX, minY = maxInt(minX, 0), maxInt(minY, 0)
	maxX, maxY = minInt(maxX, g.width), minInt(maxY, g.height)
	if minX >= maxX || minY >= maxY {
		return nil
	}

	startTX, startTY := minX/g.tileSize, minY/g.tileSize
	endTX, endTY := (maxX-1)/g.tileSize, (maxY-1)/g.tileSize
	endTX, endTY = minInt(endTX, g.tilesX-1), minInt(endTY, g.tilesY-1)

	result := make([]Tile, 0, (endTX-startTX+1)*(endTY-startTY+1))
	for ty := startTY; ty <= endTY; ty++ {
		for tx := startTX; tx <= endTX; tx++ {
			result = append(result, g.tiles[ty*g.tilesX+tx])
		}
	}
	return result
}

// GetTilesForTriangle returns the tiles overlapping a triangle's
// screen-space bounding box.
func (g *TileGrid) GetTilesForTriangle(tri Triangle) []Tile {
	minX := int(min3(tri.V0.X, tri.V1.X, tri.V2.X))
	maxX := int(max3(tri.V0.X, tri.V1.X, tri.V2.X)) + 1
	minY := int(min3(tri.V0.Y, tri.V1.Y, tri.V2.Y))
	maxY := int(max3(tri.V0.Y, tri.V1.Y, tri.V2.Y)) + 1
	return g.GetTilesForRect(minX, minY, maxX, maxY)
}

func (g *TileGrid) GetAllTiles() []Tile {
	result := make([]Tile, len(g.tiles))
	copy(result, g.tiles)
	return result
}

// TileTriangleTest hierarchically tests a tile against a triangle's three
// edge functions: -1 reject, 0 partial (needs per-pixel testing), 1 the
// tile is fully covered.
func TileTriangleTest(tile Tile, e01, e12, e20 EdgeFunction) int {
	c := tile.Corners()

	e01v := [4]float32{e01.Evaluate(c.TL[0], c.TL[1]), e01.Evaluate(c.TR[0], c.TR[1]), e01.Evaluate(c.BL[0], c.BL[1]), e01.Evaluate(c.BR[0], c.BR[1])}
	e12v := [4]float32{e12.Evaluate(c.TL[0], c.TL[1]), e12.Evaluate(c.TR[0], c.TR[1]), e12.Evaluate(c.BL[0], c.BL[1]), e12.Evaluate(c.BR[0], c.BR[1])}
	e20v := [4]float32{e20.Evaluate(c.TL[0], c.TL[1]), e20.Evaluate(c.TR[0], c.TR[1]), e20.Evaluate(c.BL[0], c.BL[1]), e20.Evaluate(c.BR[0], c.BR[1])}

	allNeg := func(v [4]float32) bool { return v[0] < 0 && v[1] < 0 && v[2] < 0 && v[3] < 0 }
	allPos := func(v [4]float32) bool { return v[0] >= 0 && v[1] >= 0 && v[2] >= 0 && v[3] >= 0 }

	if allNeg(e01v) || allNeg(e12v) || allNeg(e20v) {
		return -1
	}
	if allPos(e01v) && allPos(e12v) && allPos(e20v) {
		return 1
	}
	return 0
}

// Package tiling implements the rolling 3D (x, y, t) spacetime grid spec.md
// §3/§4.1 describes: TileLayer (all tiles for one timestep) and Tiling
// (SquareTiling, the rolling deque of TileLayers plus the rasterization and
// admission algorithms).
package tiling

import "go.viam.com/aimcore/tile"

// TileLayer is the dense set of tiles active at one timestep, addressed by
// the dense id tileX + tileY*xTileCount (spec.md §3). Layers are created
// fully populated — not lazily per-tile — because every tile in a layer is
// equally likely to be touched by some reservation.
type TileLayer struct {
	T     int64
	tiles []*tile.Tile
}

func newTileLayer(t int64, xTileCount, yTileCount int, rejectionThreshold float64) (*TileLayer, error) {
	tiles := make([]*tile.Tile, xTileCount*yTileCount)
	for i := range tiles {
		tl, err := tile.New(tile.ID(i), t, rejectionThreshold)
		if err != nil {
			return nil, err
		}
		tiles[i] = tl
	}
	return &TileLayer{T: t, tiles: tiles}, nil
}

// At returns the tile at dense id within this layer.
func (l *TileLayer) At(id tile.ID) *tile.Tile { return l.tiles[id] }

// Len returns the number of tiles in this layer.
func (l *TileLayer) Len() int { return len(l.tiles) }

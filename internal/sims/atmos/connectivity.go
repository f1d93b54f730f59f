package atmos

// rebuildConnectivity recomputes every tile's neighbor slots from scratch.
// A full rebuild keeps the symmetry invariant trivially: both tiles of each
// edge derive the open flag from the same pair of wall bits, so A's view of
// B always matches B's view of A.
func (w *World) rebuildConnectivity() {
	if w.posIndex == nil {
		w.posIndex = make(map[Position]int, len(w.tiles))
	}
	clear(w.posIndex)
	for i := range w.tiles {
		w.posIndex[w.tiles[i].Pos] = i
	}

	for i := range w.tiles {
		t := &w.tiles[i]
		for d, pos := range t.Pos.Neighbors() {
			j, ok := w.posIndex[pos]
			if !ok {
				t.Neighbors[d] = Link{Tile: noTile}
				continue
			}
			t.Neighbors[d] = Link{
				Tile: j,
				Open: !t.Wall && !w.tiles[j].Wall,
			}
		}
	}
	w.topoDirty = false
}

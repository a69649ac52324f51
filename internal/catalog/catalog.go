// Package catalog holds the immutable category tree and asset collection the
// browser works on, together with the pure functions that derive views from
// them: the dropdown row rendering and the asset filter.
package catalog

// Catalog is the data a session starts from. It is never modified after New.
type Catalog struct {
	Tree   Tree
	Assets []Asset

	byID map[int64]int
}

// New indexes assets by id. When ids repeat the first asset wins the lookup.
func New(tree Tree, assets []Asset) *Catalog {
	if tree == nil {
		tree = Tree{}
	}
	if assets == nil {
		assets = []Asset{}
	}
	byID := make(map[int64]int, len(assets))
	for i, a := range assets {
		if _, ok := byID[a.ID]; !ok {
			byID[a.ID] = i
		}
	}
	return &Catalog{Tree: tree, Assets: assets, byID: byID}
}

// Asset looks an asset up by id.
func (c *Catalog) Asset(id int64) (Asset, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Asset{}, false
	}
	return c.Assets[i], true
}

package catalog

import (
	"time"

	"parm-catalog/internal/parse"
)

// Asset is one piece of equipment shown in the grid.
type Asset struct {
	ID               int64  `json:"id"`
	ModelName        string `json:"model_name"`
	ManufacturerName string `json:"manufacturer_name,omitempty"`
	CategoryID       int64  `json:"category_id"`
	SmallImagePath   string `json:"small_image_path,omitempty"`
	LargeImagePath   string `json:"large_image_path,omitempty"`
}

// Reservation is a booking of an asset as reported by the reservation source.
type Reservation struct {
	User      string    `json:"user"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Filter returns the assets tagged with the selected category.
//
// An empty selection returns assets itself. Otherwise the selection is
// converted to a number and compared with CategoryID; a selection that is not
// a number matches nothing. Child categories are not included, see
// FilterWithDescendants.
func Filter(assets []Asset, selected string) []Asset {
	if parse.IsEmpty(selected) {
		return assets
	}
	id, err := parse.CategoryID(selected)
	if err != nil {
		return []Asset{}
	}
	return filterByIDs(assets, map[int64]struct{}{id: {}})
}

// FilterWithDescendants is Filter extended down the hierarchy: assets tagged
// with any category below the selected one are kept as well. A selected id
// that is not in tree still matches assets tagged with exactly that id.
func FilterWithDescendants(assets []Asset, tree Tree, selected string) []Asset {
	if parse.IsEmpty(selected) {
		return assets
	}
	id, err := parse.CategoryID(selected)
	if err != nil {
		return []Asset{}
	}
	ids := map[int64]struct{}{id: {}}
	for _, d := range tree.Descendants(id) {
		ids[d] = struct{}{}
	}
	return filterByIDs(assets, ids)
}

func filterByIDs(assets []Asset, ids map[int64]struct{}) []Asset {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if _, ok := ids[a.CategoryID]; ok {
			out = append(out, a)
		}
	}
	return out
}

package view

import (
	"errors"
	"fmt"

	"parm-catalog/internal/catalog"
)

// UnknownManufacturer replaces a missing manufacturer name wherever one is shown.
const UnknownManufacturer = "Unknown"

// ErrAssetNotShown is returned when a click names an asset that is not in the
// rendered grid.
var ErrAssetNotShown = errors.New("asset is not shown in the grid")

// Box is one clickable tile of the asset grid.
type Box struct {
	Asset    catalog.Asset `json:"asset"`
	Selected bool          `json:"selected"`
	ImageSrc string        `json:"image_src,omitempty"`
	Caption  string        `json:"caption"`
}

// AssetGrid renders assets as boxes and reports clicks.
type AssetGrid struct {
	images  catalog.ImageResolver
	onClick func(catalog.Asset)
}

// NewAssetGrid creates a grid. onClick receives the full record of a clicked
// asset.
func NewAssetGrid(images catalog.ImageResolver, onClick func(catalog.Asset)) *AssetGrid {
	return &AssetGrid{images: images, onClick: onClick}
}

// Boxes renders one box per asset, keeping their order. A box is marked
// selected when its asset has the id of selected.
func (g *AssetGrid) Boxes(assets []catalog.Asset, selected *catalog.Asset) []Box {
	boxes := make([]Box, 0, len(assets))
	for _, a := range assets {
		boxes = append(boxes, g.box(a, selected != nil && selected.ID == a.ID))
	}
	return boxes
}

// Click reports a click on the box of asset id among the rendered assets.
func (g *AssetGrid) Click(assets []catalog.Asset, id int64) error {
	for _, a := range assets {
		if a.ID != id {
			continue
		}
		if g.onClick != nil {
			g.onClick(a)
		}
		return nil
	}
	return fmt.Errorf("%w: %d", ErrAssetNotShown, id)
}

func (g *AssetGrid) box(a catalog.Asset, selected bool) Box {
	return Box{
		Asset:    a,
		Selected: selected,
		ImageSrc: g.images.Resolve(a.SmallImagePath),
		Caption:  manufacturerOrUnknown(a),
	}
}

func manufacturerOrUnknown(a catalog.Asset) string {
	if a.ManufacturerName == "" {
		return UnknownManufacturer
	}
	return a.ManufacturerName
}

package view

import "parm-catalog/internal/catalog"

// Detail is the content of the detail panel.
type Detail struct {
	// Empty is set when no asset is selected; all other fields are zero.
	Empty bool `json:"empty"`

	AssetID          int64  `json:"asset_id,omitempty"`
	ModelName        string `json:"model_name,omitempty"`
	ManufacturerName string `json:"manufacturer_name,omitempty"`
	ImageSrc         string `json:"image_src,omitempty"`

	// Fallback is set when the asset has no large image. FallbackBox then
	// carries the grid presentation of the asset instead.
	Fallback    bool `json:"fallback,omitempty"`
	FallbackBox *Box `json:"fallback_box,omitempty"`
}

// RenderDetail renders the selected asset, or the placeholder when asset is nil.
func RenderDetail(asset *catalog.Asset, images catalog.ImageResolver) Detail {
	if asset == nil {
		return Detail{Empty: true}
	}

	d := Detail{
		AssetID:          asset.ID,
		ModelName:        asset.ModelName,
		ManufacturerName: manufacturerOrUnknown(*asset),
	}
	if asset.LargeImagePath != "" {
		d.ImageSrc = images.Resolve(asset.LargeImagePath)
		return d
	}

	box := (&AssetGrid{images: images}).box(*asset, false)
	d.Fallback = true
	d.FallbackBox = &box
	return d
}

package store

import (
	"context"
	"fmt"

	"parm-catalog/internal/catalog"
	"parm-catalog/internal/model"
)

// LoadCatalog reads categories and assets and assembles the immutable catalog
// served to every session.
func LoadCatalog(ctx context.Context, s Store) (*catalog.Catalog, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := catalog.BuildTree(CategoryRecords(categories))
	if err != nil {
		return nil, fmt.Errorf("invalid category hierarchy: %w", err)
	}

	rows, err := s.Assets(ctx)
	if err != nil {
		return nil, err
	}
	assets := make([]catalog.Asset, 0, len(rows))
	for _, a := range rows {
		assets = append(assets, CatalogAsset(a))
	}
	return catalog.New(tree, assets), nil
}

// CategoryRecords converts stored categories, keeping their order.
func CategoryRecords(categories []model.Category) []catalog.CategoryRecord {
	records := make([]catalog.CategoryRecord, 0, len(categories))
	for _, c := range categories {
		records = append(records, catalog.CategoryRecord{
			ID:       c.ID,
			ParentID: c.ParentCategoryID,
			Name:     c.Name,
		})
	}
	return records
}

// CatalogAsset converts a stored asset. Assets without a category get
// category id 0, which no category uses.
func CatalogAsset(a model.Asset) catalog.Asset {
	out := catalog.Asset{
		ID:             a.ID,
		ModelName:      a.ModelName,
		SmallImagePath: a.SmallImagePath,
		LargeImagePath: a.LargeImagePath,
	}
	if a.Manufacturer != nil {
		out.ManufacturerName = a.Manufacturer.Name
	}
	if a.CategoryID != nil {
		out.CategoryID = *a.CategoryID
	}
	return out
}

package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parm-catalog/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Assets(ctx context.Context) ([]model.Asset, error)
	Reservations(ctx context.Context, assetID int64) ([]model.Reservation, error)
	UpsertCatalog(ctx context.Context, in CatalogImport) (ImportResult, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Categories returns every category, siblings ordered by position.
func (s *gormStore) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := s.db.WithContext(ctx).Order("position, id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

// Assets returns the assets that are not archived, with their manufacturer.
func (s *gormStore) Assets(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	if err := s.db.WithContext(ctx).
		Preload("Manufacturer").
		Where("is_archived = ?", false).
		Order("id").
		Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	return assets, nil
}

// Reservations returns the reservations of one asset ordered by start.
func (s *gormStore) Reservations(ctx context.Context, assetID int64) ([]model.Reservation, error) {
	var reservations []model.Reservation
	if err := s.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("starts_at, id").
		Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to load reservations for asset %d: %w", assetID, err)
	}
	return reservations, nil
}

// UpsertCatalog writes an imported catalog in one transaction. Manufacturers
// are matched by name, categories and assets by id. Reservations replace the
// existing ones of the assets they name.
func (s *gormStore) UpsertCatalog(ctx context.Context, in CatalogImport) (ImportResult, error) {
	var result ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		manufacturers, err := upsertManufacturers(tx, in.Assets)
		if err != nil {
			return err
		}
		result.Manufacturers = len(manufacturers)

		if len(in.Categories) > 0 {
			categories := make([]model.Category, 0, len(in.Categories))
			for _, c := range in.Categories {
				categories = append(categories, model.Category{
					ID:               c.ID,
					ParentCategoryID: c.ParentID,
					Name:             c.Name,
					Position:         c.Position,
				})
			}
			log.Printf("batch upserting %d categories", len(categories))
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"parent_category_id", "name", "position", "updated_at"}),
			}).Create(&categories).Error; err != nil {
				return fmt.Errorf("batch upsert categories failed: %w", err)
			}
			result.Categories = len(categories)
		}

		if len(in.Assets) > 0 {
			assets := make([]model.Asset, 0, len(in.Assets))
			for _, a := range in.Assets {
				asset := model.Asset{
					ID:             a.ID,
					ModelName:      a.ModelName,
					ModelNumber:    a.ModelNumber,
					CategoryID:     a.CategoryID,
					SmallImagePath: a.SmallImagePath,
					LargeImagePath: a.LargeImagePath,
					IsArchived:     a.Archived,
				}
				if m, ok := manufacturers[a.ManufacturerName]; ok {
					asset.ManufacturerID = &m.ID
				}
				assets = append(assets, asset)
			}
			log.Printf("batch upserting %d assets", len(assets))
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"manufacturer_id", "model_name", "model_number", "category_id",
					"small_image_path", "large_image_path", "is_archived", "updated_at",
				}),
			}).Create(&assets).Error; err != nil {
				return fmt.Errorf("batch upsert assets failed: %w", err)
			}
			result.Assets = len(assets)
		}

		if len(in.Reservations) > 0 {
			n, err := replaceReservations(tx, in.Reservations)
			if err != nil {
				return err
			}
			result.Reservations = n
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// upsertManufacturers makes sure every named manufacturer exists and returns
// them keyed by name.
func upsertManufacturers(tx *gorm.DB, assets []AssetRow) (map[string]model.Manufacturer, error) {
	seen := make(map[string]struct{})
	var toUpsert []model.Manufacturer
	var names []string
	for _, a := range assets {
		if a.ManufacturerName == "" {
			continue
		}
		if _, ok := seen[a.ManufacturerName]; ok {
			continue
		}
		seen[a.ManufacturerName] = struct{}{}
		toUpsert = append(toUpsert, model.Manufacturer{Name: a.ManufacturerName})
		names = append(names, a.ManufacturerName)
	}

	byName := make(map[string]model.Manufacturer, len(names))
	if len(toUpsert) == 0 {
		return byName, nil
	}

	log.Printf("batch upserting %d manufacturers", len(toUpsert))
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&toUpsert).Error; err != nil {
		return nil, fmt.Errorf("batch upsert manufacturers failed: %w", err)
	}

	var found []model.Manufacturer
	if err := tx.Where("name IN ?", names).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve manufacturers after upsert: %w", err)
	}
	for _, m := range found {
		byName[m.Name] = m
	}
	return byName, nil
}

func replaceReservations(tx *gorm.DB, rows []ReservationRow) (int, error) {
	assetIDs := make([]int64, 0, len(rows))
	seen := make(map[int64]struct{})
	reservations := make([]model.Reservation, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.AssetID]; !ok {
			seen[r.AssetID] = struct{}{}
			assetIDs = append(assetIDs, r.AssetID)
		}
		reservations = append(reservations, model.Reservation{
			AssetID:     r.AssetID,
			ReservedFor: r.User,
			StartsAt:    r.StartsAt,
			EndsAt:      r.EndsAt,
		})
	}

	if err := tx.Where("asset_id IN ?", assetIDs).Delete(&model.Reservation{}).Error; err != nil {
		return 0, fmt.Errorf("failed to clear reservations: %w", err)
	}
	if err := tx.Create(&reservations).Error; err != nil {
		return 0, fmt.Errorf("failed to create reservations: %w", err)
	}
	return len(reservations), nil
}

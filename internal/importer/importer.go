package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"parm-catalog/internal/store"
)

// Service writes catalog files into the store.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService creates an importer backed by s.
func NewService(s store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, logger: logger}
}

// ImportFile imports the catalog file at path.
func (s *Service) ImportFile(ctx context.Context, path string) (store.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return store.ImportResult{}, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, f)
}

// Import decodes, validates and writes a catalog. Nothing is written when the
// file is invalid.
func (s *Service) Import(ctx context.Context, r io.Reader) (store.ImportResult, error) {
	file, err := Decode(r)
	if err != nil {
		return store.ImportResult{}, err
	}
	rows, err := file.Flatten()
	if err != nil {
		return store.ImportResult{}, fmt.Errorf("invalid catalog: %w", err)
	}

	s.logger.Info("importing catalog",
		"categories", len(rows.Categories),
		"assets", len(rows.Assets),
		"reservations", len(rows.Reservations))

	result, err := s.store.UpsertCatalog(ctx, rows)
	if err != nil {
		return store.ImportResult{}, fmt.Errorf("failed to write catalog: %w", err)
	}
	s.logger.Info("catalog imported",
		"manufacturers", result.Manufacturers,
		"categories", result.Categories,
		"assets", result.Assets,
		"reservations", result.Reservations)
	return result, nil
}

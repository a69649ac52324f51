package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"parm-catalog/internal/catalog"
	"parm-catalog/internal/parse"
	"parm-catalog/internal/store"
)

var (
	ErrInvalidID          = errors.New("ids must be positive")
	ErrDuplicateAsset     = errors.New("duplicate asset id")
	ErrUnknownCategory    = errors.New("asset references unknown category")
	ErrUnknownAsset       = errors.New("reservation references unknown asset")
	ErrInvalidReservation = errors.New("invalid reservation")
)

// dateLayouts are tried in order for reservation dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// File is a catalog file. Categories nest through children and may list
// their assets inline.
type File struct {
	Categories   []CategoryEntry    `yaml:"categories"`
	Assets       []AssetEntry       `yaml:"assets"`
	Reservations []ReservationEntry `yaml:"reservations"`
}

type CategoryEntry struct {
	ID       int64           `yaml:"id"`
	Name     string          `yaml:"name"`
	Children []CategoryEntry `yaml:"children"`
	Assets   []AssetEntry    `yaml:"assets"`
}

// AssetEntry is one asset of a catalog file. Image is the original photo;
// missing small and large paths are derived from it.
type AssetEntry struct {
	ID             int64  `yaml:"id"`
	ModelName      string `yaml:"model_name"`
	ModelNumber    string `yaml:"model_number"`
	Manufacturer   string `yaml:"manufacturer"`
	CategoryID     *int64 `yaml:"category_id"`
	Image          string `yaml:"image"`
	SmallImagePath string `yaml:"small_image_path"`
	LargeImagePath string `yaml:"large_image_path"`
	Archived       bool   `yaml:"archived"`
}

type ReservationEntry struct {
	AssetID int64  `yaml:"asset_id"`
	User    string `yaml:"user"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

// Decode reads a catalog file. JSON is accepted as well since it is valid YAML.
// Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}
	return &f, nil
}

// Flatten validates the file and converts it to the rows written by the store.
// Categories come out parents first, each with its position among siblings.
// Assets listed under a category without a category_id belong to it.
func (f *File) Flatten() (store.CatalogImport, error) {
	var out store.CatalogImport

	var inline []AssetEntry
	type frame struct {
		entries []CategoryEntry
		parent  *int64
	}
	stack := []frame{{entries: f.Categories}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, c := range top.entries {
			if c.ID <= 0 {
				return store.CatalogImport{}, fmt.Errorf("%w: category %q has id %d", ErrInvalidID, c.Name, c.ID)
			}
			out.Categories = append(out.Categories, store.CategoryRow{
				ID:       c.ID,
				ParentID: top.parent,
				Name:     parse.Name(c.Name),
				Position: i,
			})
			for _, a := range c.Assets {
				if a.CategoryID == nil {
					id := c.ID
					a.CategoryID = &id
				}
				inline = append(inline, a)
			}
			if len(c.Children) > 0 {
				id := c.ID
				stack = append(stack, frame{entries: c.Children, parent: &id})
			}
		}
	}

	records := make([]catalog.CategoryRecord, 0, len(out.Categories))
	for _, c := range out.Categories {
		records = append(records, catalog.CategoryRecord{ID: c.ID, ParentID: c.ParentID, Name: c.Name})
	}
	tree, err := catalog.BuildTree(records)
	if err != nil {
		return store.CatalogImport{}, err
	}

	assetIDs := make(map[int64]struct{})
	for _, a := range append(inline, f.Assets...) {
		if a.ID <= 0 {
			return store.CatalogImport{}, fmt.Errorf("%w: asset %q has id %d", ErrInvalidID, a.ModelName, a.ID)
		}
		if _, dup := assetIDs[a.ID]; dup {
			return store.CatalogImport{}, fmt.Errorf("%w: %d", ErrDuplicateAsset, a.ID)
		}
		assetIDs[a.ID] = struct{}{}
		if a.CategoryID != nil {
			if _, ok := tree.Find(*a.CategoryID); !ok {
				return store.CatalogImport{}, fmt.Errorf("%w: asset %d references %d", ErrUnknownCategory, a.ID, *a.CategoryID)
			}
		}
		row := store.AssetRow{
			ID:               a.ID,
			ModelName:        parse.Name(a.ModelName),
			ModelNumber:      strings.TrimSpace(a.ModelNumber),
			ManufacturerName: parse.Name(a.Manufacturer),
			CategoryID:       a.CategoryID,
			SmallImagePath:   strings.TrimSpace(a.SmallImagePath),
			LargeImagePath:   strings.TrimSpace(a.LargeImagePath),
			Archived:         a.Archived,
		}
		if row.SmallImagePath == "" {
			row.SmallImagePath = parse.ImageVariant(a.Image, parse.SmallImageLabel)
		}
		if row.LargeImagePath == "" {
			row.LargeImagePath = parse.ImageVariant(a.Image, parse.LargeImageLabel)
		}
		out.Assets = append(out.Assets, row)
	}

	for i, r := range f.Reservations {
		if _, ok := assetIDs[r.AssetID]; !ok {
			return store.CatalogImport{}, fmt.Errorf("%w: reservation %d references %d", ErrUnknownAsset, i, r.AssetID)
		}
		start, err := parseDate(r.Start)
		if err != nil {
			return store.CatalogImport{}, fmt.Errorf("%w: reservation %d start: %v", ErrInvalidReservation, i, err)
		}
		end, err := parseDate(r.End)
		if err != nil {
			return store.CatalogImport{}, fmt.Errorf("%w: reservation %d end: %v", ErrInvalidReservation, i, err)
		}
		if end.Before(start) {
			return store.CatalogImport{}, fmt.Errorf("%w: reservation %d ends before it starts", ErrInvalidReservation, i)
		}
		out.Reservations = append(out.Reservations, store.ReservationRow{
			AssetID:  r.AssetID,
			User:     parse.Name(r.User),
			StartsAt: start,
			EndsAt:   end,
		})
	}
	return out, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

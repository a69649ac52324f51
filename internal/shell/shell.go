// Package shell owns the selection state of one catalog session and wires the
// view components to it.
package shell

import (
	"context"
	"log/slog"
	"sync"

	"parm-catalog/internal/catalog"
	"parm-catalog/internal/view"
)

// Selection is the state shared by all views of a session.
type Selection struct {
	CategoryID string         `json:"category_id"`
	Asset      *catalog.Asset `json:"asset"`
}

// Snapshot is the full set of derived views for one Selection. Version counts
// the intents the session has published; views rendered from equal versions
// show the same state.
type Snapshot struct {
	Version      uint64               `json:"version"`
	Selection    Selection            `json:"selection"`
	Options      []view.Option        `json:"options"`
	Boxes        []view.Box           `json:"boxes"`
	Detail       view.Detail          `json:"detail"`
	Reservations view.ReservationList `json:"reservations"`
}

// Listener receives a snapshot after every intent. Listeners run while the
// shell is locked and must not call back into it.
type Listener func(Snapshot)

// Option configures an AppShell.
type Option func(*AppShell)

// WithDescendants makes category selection include every category below the
// selected one.
func WithDescendants(enabled bool) Option {
	return func(s *AppShell) { s.descendants = enabled }
}

// WithImages sets the image path mapping used by the grid and detail panel.
func WithImages(images catalog.ImageResolver) Option {
	return func(s *AppShell) { s.images = images }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *AppShell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// AppShell is the single owner of a session's Selection. The only way to change
// it is through the intent methods; each intent updates the state, recomputes
// the derived views and notifies listeners as one step.
type AppShell struct {
	catalog     *catalog.Catalog
	images      catalog.ImageResolver
	descendants bool
	logger      *slog.Logger

	selector     *view.CategorySelector
	grid         *view.AssetGrid
	reservations *view.ReservationPanel

	mu        sync.Mutex
	selection Selection
	filtered  []catalog.Asset
	clicks    uint64
	trigger   uint64
	version   uint64
	listeners map[int]Listener
	nextID    int
}

// New creates a shell over cat with nothing selected.
func New(cat *catalog.Catalog, source view.ReservationSource, opts ...Option) *AppShell {
	if cat == nil {
		cat = catalog.New(nil, nil)
	}
	s := &AppShell{
		catalog:   cat,
		logger:    slog.Default(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.selector = view.NewCategorySelector(cat.Tree, s.setCategory)
	s.grid = view.NewAssetGrid(s.images, s.setAsset)
	s.reservations = view.NewReservationPanel(source, s.logger)
	s.refilter()
	return s
}

// SelectCategory handles a choice in the category control. The empty value
// clears the filter. The selected asset is kept.
func (s *AppShell) SelectCategory(value string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selector.Select(value)
	s.refilter()
	return s.publish()
}

// ClickAsset handles a click on the grid box of asset id. It fails with
// view.ErrAssetNotShown when the asset is not in the current grid.
func (s *AppShell) ClickAsset(ctx context.Context, id int64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.grid.Click(s.filtered, id); err != nil {
		return s.snapshot(), err
	}
	s.reservations.Sync(ctx, s.trigger, s.selection.Asset.ID)
	return s.publish(), nil
}

// ClearAsset drops the selected asset.
func (s *AppShell) ClearAsset(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.Asset = nil
	s.trigger = 0
	s.reservations.Sync(ctx, 0, 0)
	return s.publish()
}

// Snapshot returns the current derived views.
func (s *AppShell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn for every future snapshot. The returned function
// removes it again.
func (s *AppShell) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// setCategory is the selector's change callback.
func (s *AppShell) setCategory(value string) {
	s.selection.CategoryID = value
}

// setAsset is the grid's click callback. Every click starts a new reservation
// load, also for the asset that is already selected.
func (s *AppShell) setAsset(a catalog.Asset) {
	s.selection.Asset = &a
	s.clicks++
	s.trigger = s.clicks
}

func (s *AppShell) refilter() {
	if s.descendants {
		s.filtered = catalog.FilterWithDescendants(s.catalog.Assets, s.catalog.Tree, s.selection.CategoryID)
		return
	}
	s.filtered = catalog.Filter(s.catalog.Assets, s.selection.CategoryID)
}

func (s *AppShell) publish() Snapshot {
	s.version++
	snap := s.snapshot()
	for _, fn := range s.listeners {
		fn(snap)
	}
	s.logger.Debug("selection changed",
		"version", snap.Version,
		"category_id", snap.Selection.CategoryID,
		"asset_id", assetID(snap.Selection.Asset),
		"shown", len(snap.Boxes),
	)
	return snap
}

func (s *AppShell) snapshot() Snapshot {
	sel := Selection{CategoryID: s.selection.CategoryID}
	if s.selection.Asset != nil {
		a := *s.selection.Asset
		sel.Asset = &a
	}
	return Snapshot{
		Version:      s.version,
		Selection:    sel,
		Options:      s.selector.Options(sel.CategoryID),
		Boxes:        s.grid.Boxes(s.filtered, sel.Asset),
		Detail:       view.RenderDetail(sel.Asset, s.images),
		Reservations: s.reservations.View(),
	}
}

func assetID(a *catalog.Asset) int64 {
	if a == nil {
		return 0
	}
	return a.ID
}

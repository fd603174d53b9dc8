package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nivanov045/gamestore/cmd/storefront/storage"
	"github.com/nivanov045/gamestore/internal/bridge"
	"github.com/nivanov045/gamestore/internal/catalog"
	"github.com/nivanov045/gamestore/internal/storefront"
)

type Storage interface {
	AddVisit(token string, visit *storage.Visit, expiresAt time.Time) error
	GetVisit(token string) (*storage.Visit, error)
	TouchVisit(token string, expiresAt time.Time) error
	RemoveExpired(now time.Time) int
	Len() int
}

// BridgeFactory gives every new visit its bridge. The script is non-nil when
// the rendered page has to run the calls itself.
type BridgeFactory func() (bridge.Optional, *bridge.Script)

// PageBridge runs the bridge calls in the player's browser.
func PageBridge() BridgeFactory {
	return func() (bridge.Optional, *bridge.Script) {
		s := bridge.NewScript()
		return bridge.Present(s), s
	}
}

// SharedBridge hands every visit the same server side bridge.
func SharedBridge(b bridge.Bridge) BridgeFactory {
	return func() (bridge.Optional, *bridge.Script) {
		return bridge.Present(b), nil
	}
}

func NoBridge() BridgeFactory {
	return func() (bridge.Optional, *bridge.Script) {
		return bridge.Absent(), nil
	}
}

type ServerOption struct {
	Name     string
	Selected bool
}

type BundleOption struct {
	Code      string
	Amount    string
	Price     int64
	PriceText string
	Selected  bool
}

// View is everything the page needs for one render.
type View struct {
	Servers   []ServerOption
	Bundles   []BundleOption
	Server    string
	PlayerID  string
	HasPrice  bool
	Price     int64
	PriceText string
	CanSubmit bool
	State     string
	Notices   []storefront.Notice
	Script    string
	WebApp    bool
}

type service struct {
	storage   Storage
	catalog   *catalog.Catalog
	newBridge BridgeFactory
	ttl       time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func New(storage Storage, cat *catalog.Catalog, newBridge BridgeFactory, ttl time.Duration, log zerolog.Logger) *service {
	return &service{
		storage:   storage,
		catalog:   cat,
		newBridge: newBridge,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

func (s *service) Catalog() *catalog.Catalog {
	return s.catalog
}

// visit loads the visit for token, starting a fresh one when it is unknown or
// has expired, and pushes its expiry forward.
func (s *service) visit(token string) (*storage.Visit, error) {
	expiresAt := s.now().Add(s.ttl)
	v, err := s.storage.GetVisit(token)
	if err == nil {
		return v, s.storage.TouchVisit(token, expiresAt)
	}
	if !errors.Is(err, storage.ErrNoSuchVisit) && !errors.Is(err, storage.ErrVisitExpired) {
		return nil, err
	}

	b, script := s.newBridge()
	v = &storage.Visit{
		Form:   storefront.New(s.catalog, b, storefront.WithLogger(s.log)),
		Script: script,
	}
	if err := s.storage.AddVisit(token, v, expiresAt); err != nil {
		if errors.Is(err, storage.ErrVisitExists) {
			return s.storage.GetVisit(token)
		}
		return nil, err
	}
	s.log.Debug().Str("visit", token).Msg("visit started")
	return v, nil
}

// Open mounts the form on the first call and collects what the page shows.
// Pending notices and bridge calls are handed out once.
func (s *service) Open(token string) (View, error) {
	v, err := s.visit(token)
	if err != nil {
		return View{}, err
	}
	v.Lock()
	defer v.Unlock()

	v.Form.Mount()
	view := s.buildView(v.Form)
	view.Notices = v.Notices
	v.Notices = nil
	if v.Script != nil {
		view.WebApp = true
		view.Script = bridge.JS(v.Script.Drain())
	}
	return view, nil
}

func (s *service) SelectServer(token string, name string) error {
	return s.apply(token, func(f *storefront.Form) error {
		return f.SelectServer(name)
	})
}

func (s *service) SetPlayerID(token string, raw string) error {
	return s.apply(token, func(f *storefront.Form) error {
		f.SetPlayerID(raw)
		return nil
	})
}

func (s *service) SelectBundle(token string, code string) error {
	return s.apply(token, func(f *storefront.Form) error {
		return f.SelectBundle(code)
	})
}

// Submit queues the resulting notice for the next render. The error is the
// form's own: nil, or a *storefront.MissingFieldsError.
func (s *service) Submit(token string) error {
	v, err := s.visit(token)
	if err != nil {
		return err
	}
	v.Lock()
	defer v.Unlock()

	notice, err := v.Form.Submit()
	if notice != (storefront.Notice{}) {
		v.Notices = append(v.Notices, notice)
	}
	if err != nil {
		return err
	}
	s.log.Info().Str("visit", token).Str("server", v.Form.Draft().Server).
		Str("amount", v.Form.Draft().Amount).Msg("order submitted")
	return nil
}

func (s *service) apply(token string, fn func(f *storefront.Form) error) error {
	v, err := s.visit(token)
	if err != nil {
		return err
	}
	v.Lock()
	defer v.Unlock()
	return fn(v.Form)
}

func (s *service) buildView(f *storefront.Form) View {
	draft := f.Draft()
	view := View{
		Server:    draft.Server,
		PlayerID:  draft.PlayerID,
		CanSubmit: f.CanSubmit(),
		State:     f.State().String(),
	}
	for _, name := range s.catalog.Servers() {
		view.Servers = append(view.Servers, ServerOption{Name: name, Selected: name == draft.Server})
	}
	for _, b := range s.catalog.Bundles() {
		view.Bundles = append(view.Bundles, BundleOption{
			Code:      b.Code,
			Amount:    b.Amount,
			Price:     b.Price,
			PriceText: s.catalog.FormatPrice(b.Price),
			Selected:  b.Code == draft.Amount,
		})
	}
	if price, ok := f.CurrentPrice(); ok {
		view.HasPrice = true
		view.Price = price
		view.PriceText = s.catalog.FormatPrice(price)
	}
	return view
}

// RunSweeper drops expired visits every interval until ctx is done.
func (s *service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.storage.RemoveExpired(s.now()); n > 0 {
				s.log.Debug().Int("count", n).Int("active", s.storage.Len()).Msg("expired visits removed")
			}
		}
	}
}

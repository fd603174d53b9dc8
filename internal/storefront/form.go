// Package storefront holds the order form: the player's draft, its price and
// the hand-off of a finished order to the host bridge.
//
// A Form is not safe for concurrent use. Callers serving several goroutines
// must serialize access to it.
package storefront

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nivanov045/gamestore/internal/bridge"
	"github.com/nivanov045/gamestore/internal/catalog"
	"github.com/nivanov045/gamestore/internal/order"
)

type Form struct {
	catalog *catalog.Catalog
	bridge  bridge.Optional
	log     zerolog.Logger

	draft   Draft
	mounted bool
}

type Option func(*Form)

// WithLogger sets the logger used for the local submit trace.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Form) {
		f.log = l
	}
}

func New(cat *catalog.Catalog, b bridge.Optional, opts ...Option) *Form {
	f := &Form{
		catalog: cat,
		bridge:  b,
		log:     log.Logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Mount signals readiness and asks for the full viewport. Only the first call
// reaches the bridge.
func (f *Form) Mount() {
	if f.mounted {
		return
	}
	f.mounted = true
	b, ok := f.bridge.Get()
	if !ok {
		return
	}
	b.Ready()
	b.Expand()
}

func (f *Form) Catalog() *catalog.Catalog {
	return f.catalog
}

func (f *Form) Draft() Draft {
	return f.draft
}

func (f *Form) SelectServer(name string) error {
	if !f.catalog.HasServer(name) {
		return fmt.Errorf("%w: '%s'", ErrUnknownServer, name)
	}
	f.draft.Server = name
	return nil
}

// SetPlayerID stores the input as typed.
func (f *Form) SetPlayerID(raw string) {
	f.draft.PlayerID = raw
}

// SelectBundle replaces the current selection.
func (f *Form) SelectBundle(code string) error {
	if _, ok := f.catalog.Lookup(code); !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownBundle, code)
	}
	f.draft.Amount = code
	return nil
}

// CurrentPrice reports false when no bundle is selected.
func (f *Form) CurrentPrice() (int64, bool) {
	if f.draft.Amount == "" {
		return 0, false
	}
	return f.catalog.Price(f.draft.Amount)
}

func (f *Form) State() State {
	return f.draft.State()
}

func (f *Form) Missing() []Field {
	return f.draft.Missing()
}

func (f *Form) CanSubmit() bool {
	return f.State() == StateComplete
}

// Submit hands the order to the bridge, or logs it when there is none. An
// incomplete draft yields the warning notice and a *MissingFieldsError.
// Repeated calls send repeated orders.
func (f *Form) Submit() (Notice, error) {
	if missing := f.draft.Missing(); len(missing) > 0 {
		return missingFieldsNotice(), &MissingFieldsError{Fields: missing}
	}

	bundle, ok := f.catalog.Lookup(f.draft.Amount)
	if !ok {
		return missingFieldsNotice(), fmt.Errorf("%w: '%s'", ErrUnknownBundle, f.draft.Amount)
	}
	ord := order.New(f.draft.Server, f.draft.PlayerID, bundle)
	payload, err := ord.Payload()
	if err != nil {
		return Notice{}, err
	}

	if b, ok := f.bridge.Get(); ok {
		b.SendData(payload)
		return sentNotice(), nil
	}

	// written whatever the configured log level
	f.log.WithLevel(zerolog.NoLevel).
		Str("server", ord.Server).
		Str("player_id", ord.PlayerID).
		Str("amount", ord.Amount).
		Int64("price", ord.Price).
		RawJSON("payload", []byte(payload)).
		Msg("payment data")
	return localNotice(ord.Server, ord.PlayerID, f.catalog.FormatPrice(ord.Price)), nil
}

package api

import (
	"embed"
	"io"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/nivanov045/gamestore/cmd/storefront/service"
)

//go:embed templates
var templatesFS embed.FS

const (
	pageTemplate = "order_form.html"
	filterName   = "plaintext"
)

var (
	filterOnce   sync.Once
	filterErr    error
	noticePolicy = bluemonday.StrictPolicy()
)

// Page holds the static texts around the form.
type Page struct {
	Title    string
	Subtitle string
	Support  string
	Footer   string
}

func DefaultPage() Page {
	return Page{
		Title:    "Магазин игровой валюты",
		Subtitle: "Black Russia",
		Support:  "@blackrussia_support",
		Footer:   "2025 © Black Russia Market",
	}
}

type renderer struct {
	tpl  *pongo2.Template
	page Page
}

func newRenderer(page Page) (*renderer, error) {
	if err := registerFilters(); err != nil {
		return nil, err
	}
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	set := pongo2.NewSet("storefront", pongo2.NewFSLoader(sub))
	tpl, err := set.FromFile(pageTemplate)
	if err != nil {
		return nil, err
	}
	return &renderer{tpl: tpl, page: page}, nil
}

// registerFilters adds "plaintext", which strips markup from notice texts.
func registerFilters() error {
	filterOnce.Do(func() {
		if pongo2.FilterExists(filterName) {
			return
		}
		filterErr = pongo2.RegisterFilter(filterName, func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsSafeValue(noticePolicy.Sanitize(in.String())), nil
		})
	})
	return filterErr
}

func (r *renderer) render(w io.Writer, view service.View) error {
	return r.tpl.ExecuteWriter(pongo2.Context{
		"page": r.page,
		"view": view,
	}, w)
}

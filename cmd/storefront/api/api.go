package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nivanov045/gamestore/cmd/storefront/service"
	"github.com/nivanov045/gamestore/internal/catalog"
	"github.com/nivanov045/gamestore/internal/storefront"
)

const cookieName = "storefront_visit"

type Visitor interface {
	NewToken() string
	Cookie(token string) string
	Token(cookie string) (string, bool)
}

type Service interface {
	Catalog() *catalog.Catalog
	Open(token string) (service.View, error)
	SelectServer(token string, name string) error
	SetPlayerID(token string, raw string) error
	SelectBundle(token string, code string) error
	Submit(token string) error
}

type api struct {
	service  Service
	visitor  Visitor
	renderer *renderer
	log      zerolog.Logger
	visitTTL time.Duration
}

func New(service Service, visitor Visitor, page Page, visitTTL time.Duration, log zerolog.Logger) (*api, error) {
	r, err := newRenderer(page)
	if err != nil {
		return nil, err
	}
	return &api{service: service, visitor: visitor, renderer: r, log: log, visitTTL: visitTTL}, nil
}

func (a *api) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.log))
	r.Use(middleware.Recoverer)

	r.Get("/", a.pageHandler)
	r.Post("/server", a.selectServerHandler)
	r.Post("/player", a.setPlayerIDHandler)
	r.Post("/bundle", a.selectBundleHandler)
	r.Post("/order", a.submitHandler)
	r.Get("/api/catalog", a.catalogHandler)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return r
}

// Run serves until ctx is done, then shuts the server down and waits for
// in-flight requests.
func (a *api) Run(ctx context.Context, address string) error {
	a.log.Info().Str("address", address).Msg("api: started")
	srv := &http.Server{Addr: address, Handler: a.Router()}
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("api: shutdown")
		}
	}()
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		// in-flight requests are done once Shutdown returns
		<-stopped
		return nil
	}
	return err
}

// visit returns the visit token of the request, issuing a new cookie when
// there is no valid one.
func (a *api) visit(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil {
		if token, ok := a.visitor.Token(c.Value); ok {
			return token
		}
	}
	token := a.visitor.NewToken()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    a.visitor.Cookie(token),
		Path:     "/",
		MaxAge:   int(a.visitTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func (a *api) pageHandler(w http.ResponseWriter, r *http.Request) {
	token := a.visit(w, r)
	view, err := a.service.Open(token)
	if err != nil {
		a.log.Error().Err(err).Msg("api::pageHandler: open visit")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := a.renderer.render(w, view); err != nil {
		a.log.Error().Err(err).Msg("api::pageHandler: render")
	}
}

func (a *api) selectServerHandler(w http.ResponseWriter, r *http.Request) {
	token := a.visit(w, r)
	err := a.service.SelectServer(token, r.PostFormValue("server"))
	a.respond(w, r, err)
}

func (a *api) setPlayerIDHandler(w http.ResponseWriter, r *http.Request) {
	token := a.visit(w, r)
	err := a.service.SetPlayerID(token, r.PostFormValue("player_id"))
	a.respond(w, r, err)
}

func (a *api) selectBundleHandler(w http.ResponseWriter, r *http.Request) {
	token := a.visit(w, r)
	err := a.service.SelectBundle(token, r.PostFormValue("amount"))
	a.respond(w, r, err)
}

func (a *api) submitHandler(w http.ResponseWriter, r *http.Request) {
	token := a.visit(w, r)
	err := a.service.Submit(token)
	if errors.Is(err, storefront.ErrIncompleteSubmission) {
		// the warning notice is already queued for the page
		err = nil
	}
	a.respond(w, r, err)
}

// respond sends the browser back to the page after a form post.
func (a *api) respond(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, storefront.ErrUnknownServer), errors.Is(err, storefront.ErrUnknownBundle):
		a.log.Warn().Err(err).Str("path", r.URL.Path).Msg("api: rejected value")
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		a.log.Error().Err(err).Str("path", r.URL.Path).Msg("api: unhandled")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type catalogResponse struct {
	Currency string           `json:"currency"`
	Servers  []string         `json:"servers"`
	Bundles  []catalog.Bundle `json:"bundles"`
}

func (a *api) catalogHandler(w http.ResponseWriter, r *http.Request) {
	cat := a.service.Catalog()
	marshal, err := json.Marshal(catalogResponse{
		Currency: cat.Currency(),
		Servers:  cat.Servers(),
		Bundles:  cat.Bundles(),
	})
	if err != nil {
		a.log.Error().Err(err).Msg("api::catalogHandler: marshal")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(marshal)
}

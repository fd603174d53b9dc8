package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivanov045/gamestore/cmd/storefront/crypto"
	"github.com/nivanov045/gamestore/cmd/storefront/service"
	"github.com/nivanov045/gamestore/cmd/storefront/storage"
	"github.com/nivanov045/gamestore/cmd/storefront/visitor"
	"github.com/nivanov045/gamestore/internal/catalog"
)

type player struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newTestServer(t *testing.T, factory service.BridgeFactory) *httptest.Server {
	t.Helper()
	serv := service.New(storage.New(), catalog.Default(), factory, time.Hour, zerolog.Nop())
	a, err := New(serv, visitor.New(crypto.New("key"), true), DefaultPage(), time.Hour, zerolog.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(a.Router())
	t.Cleanup(ts.Close)
	return ts
}

func newPlayer(t *testing.T, ts *httptest.Server) *player {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &player{t: t, base: ts.URL, client: &http.Client{Jar: jar}}
}

func (p *player) read(resp *http.Response, err error) (int, string) {
	p.t.Helper()
	require.NoError(p.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(p.t, err)
	return resp.StatusCode, string(body)
}

func (p *player) get(path string) (int, string) {
	return p.read(p.client.Get(p.base + path))
}

func (p *player) post(path string, values url.Values) (int, string) {
	return p.read(p.client.PostForm(p.base+path, values))
}

func TestPageFirstVisit(t *testing.T) {
	p := newPlayer(t, newTestServer(t, service.PageBridge()))

	status, body := p.get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Магазин игровой валюты")
	assert.Contains(t, body, "telegram-web-app.js")
	assert.Contains(t, body, "w.ready();")
	assert.Contains(t, body, "w.expand();")
	assert.Contains(t, body, `id="pay" disabled`)
	assert.NotContains(t, body, "Итого к оплате")
	for _, server := range []string{"Saturn", "Mars", "Pluto", "Jupiter"} {
		assert.Contains(t, body, `<option value="`+server+`"`)
	}

	_, body = p.get("/")
	assert.NotContains(t, body, "w.ready();")
}

func TestFillAndSubmit(t *testing.T) {
	p := newPlayer(t, newTestServer(t, service.PageBridge()))
	p.get("/")

	_, body := p.post("/bundle", url.Values{"amount": {"50kk"}})
	assert.Contains(t, body, "Итого к оплате")
	assert.Contains(t, body, "1500₽")
	assert.Contains(t, body, `id="pay" disabled`)

	p.post("/bundle", url.Values{"amount": {"5kk"}})
	p.post("/server", url.Values{"server": {"Mars"}})
	status, body := p.post("/player", url.Values{"player_id": {"12345"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `id="pay">`)
	assert.Contains(t, body, `<option value="Mars" selected>`)
	assert.Contains(t, body, `value="12345"`)
	assert.Equal(t, 1, strings.Count(body, "tile selected"))

	status, body = p.post("/order", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Данные отправлены боту!")
	assert.Contains(t, body, `w.sendData("{\"server\":\"Mars\",\"player_id\":\"12345\",\"amount\":\"5kk\",\"price\":200}");`)
}

func TestSubmitIncomplete(t *testing.T) {
	p := newPlayer(t, newTestServer(t, service.PageBridge()))
	p.post("/server", url.Values{"server": {"Mars"}})

	status, body := p.post("/order", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Заполните все поля")
	assert.Contains(t, body, `class="notice destructive"`)
	assert.NotContains(t, body, "w.sendData(")
}

func TestSubmitWithoutBridge(t *testing.T) {
	p := newPlayer(t, newTestServer(t, service.NoBridge()))
	p.post("/server", url.Values{"server": {"Mars"}})
	p.post("/player", url.Values{"player_id": {"<b>12345</b>"}})
	p.post("/bundle", url.Values{"amount": {"5kk"}})

	_, body := p.post("/order", nil)
	assert.NotContains(t, body, "telegram-web-app.js")
	assert.Contains(t, body, "Сервер: Mars, ID: 12345, Сумма: 200₽")
	assert.NotContains(t, body, "<b>12345</b>")
}

func TestRejectedValues(t *testing.T) {
	p := newPlayer(t, newTestServer(t, service.NoBridge()))

	status, _ := p.post("/server", url.Values{"server": {"Venus"}})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = p.post("/bundle", url.Values{"amount": {"99kk"}})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTamperedCookieStartsNewVisit(t *testing.T) {
	ts := newTestServer(t, service.NoBridge())
	p := newPlayer(t, ts)
	p.post("/server", url.Values{"server": {"Mars"}})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "debug_1.forged"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var issued bool
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			issued = true
			assert.True(t, strings.HasPrefix(c.Value, "debug_2."))
		}
	}
	assert.True(t, issued)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `<option value="Mars" selected>`)
}

func TestCatalogHandler(t *testing.T) {
	p := newPlayer(t, newTestServer(t, service.NoBridge()))

	status, body := p.get("/api/catalog")
	require.Equal(t, http.StatusOK, status)

	var got catalogResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "₽", got.Currency)
	assert.Equal(t, []string{"Saturn", "Mars", "Pluto", "Jupiter"}, got.Servers)
	require.Len(t, got.Bundles, 4)
	assert.Equal(t, catalog.Bundle{Code: "10kk", Amount: "10,000,000", Price: 350}, got.Bundles[2])
}

func TestHealthz(t *testing.T) {
	p := newPlayer(t, newTestServer(t, service.NoBridge()))
	status, body := p.get("/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestRunStopsOnCancel(t *testing.T) {
	serv := service.New(storage.New(), catalog.Default(), service.NoBridge(), time.Hour, zerolog.Nop())
	a, err := New(serv, visitor.New(crypto.New("key"), true), DefaultPage(), time.Hour, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx, "127.0.0.1:0")
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

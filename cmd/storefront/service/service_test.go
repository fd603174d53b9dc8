package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivanov045/gamestore/cmd/storefront/storage"
	"github.com/nivanov045/gamestore/internal/catalog"
	"github.com/nivanov045/gamestore/internal/storefront"
)

type collectingBridge struct {
	payloads []string
}

func (b *collectingBridge) Ready()  {}
func (b *collectingBridge) Expand() {}
func (b *collectingBridge) SendData(payload string) {
	b.payloads = append(b.payloads, payload)
}

func newTestService(factory BridgeFactory) *service {
	return New(storage.New(), catalog.Default(), factory, time.Hour, zerolog.Nop())
}

func fillDraft(t *testing.T, s *service, token string) {
	t.Helper()
	require.NoError(t, s.SelectServer(token, "Mars"))
	require.NoError(t, s.SetPlayerID(token, "12345"))
	require.NoError(t, s.SelectBundle(token, "5kk"))
}

func TestOpenMountsOnce(t *testing.T) {
	s := newTestService(PageBridge())

	view, err := s.Open("v1")
	require.NoError(t, err)
	assert.True(t, view.WebApp)
	assert.Contains(t, view.Script, "w.ready();")
	assert.Contains(t, view.Script, "w.expand();")
	assert.Equal(t, "empty", view.State)
	assert.False(t, view.CanSubmit)
	assert.False(t, view.HasPrice)
	assert.Len(t, view.Servers, 4)
	assert.Len(t, view.Bundles, 4)

	view, err = s.Open("v1")
	require.NoError(t, err)
	assert.Empty(t, view.Script)
}

func TestViewFollowsDraft(t *testing.T) {
	s := newTestService(NoBridge())
	fillDraft(t, s, "v1")

	view, err := s.Open("v1")
	require.NoError(t, err)
	assert.False(t, view.WebApp)
	assert.True(t, view.CanSubmit)
	assert.Equal(t, "complete", view.State)
	assert.True(t, view.HasPrice)
	assert.Equal(t, int64(200), view.Price)
	assert.Equal(t, "200₽", view.PriceText)
	assert.Equal(t, "12345", view.PlayerID)

	for _, server := range view.Servers {
		assert.Equal(t, server.Name == "Mars", server.Selected, server.Name)
	}
	for _, bundle := range view.Bundles {
		assert.Equal(t, bundle.Code == "5kk", bundle.Selected, bundle.Code)
	}
}

func TestVisitsAreSeparate(t *testing.T) {
	s := newTestService(NoBridge())
	fillDraft(t, s, "v1")

	view, err := s.Open("v2")
	require.NoError(t, err)
	assert.Equal(t, "empty", view.State)
}

func TestSubmitThroughPage(t *testing.T) {
	s := newTestService(PageBridge())
	_, err := s.Open("v1")
	require.NoError(t, err)
	fillDraft(t, s, "v1")

	require.NoError(t, s.Submit("v1"))
	view, err := s.Open("v1")
	require.NoError(t, err)

	require.Len(t, view.Notices, 1)
	assert.Equal(t, "✅ Данные отправлены боту!", view.Notices[0].Title)
	assert.Contains(t, view.Script, `w.sendData("{\"server\":\"Mars\",\"player_id\":\"12345\",\"amount\":\"5kk\",\"price\":200}");`)
	assert.True(t, view.CanSubmit)

	view, err = s.Open("v1")
	require.NoError(t, err)
	assert.Empty(t, view.Notices)
	assert.Empty(t, view.Script)
}

func TestSubmitThroughSharedBridge(t *testing.T) {
	b := &collectingBridge{}
	s := newTestService(SharedBridge(b))
	fillDraft(t, s, "v1")

	require.NoError(t, s.Submit("v1"))
	require.NoError(t, s.Submit("v1"))
	assert.Len(t, b.payloads, 2)
}

func TestSubmitIncomplete(t *testing.T) {
	b := &collectingBridge{}
	s := newTestService(SharedBridge(b))
	require.NoError(t, s.SelectServer("v1", "Mars"))

	err := s.Submit("v1")
	assert.True(t, errors.Is(err, storefront.ErrIncompleteSubmission))
	assert.Empty(t, b.payloads)

	view, err := s.Open("v1")
	require.NoError(t, err)
	require.Len(t, view.Notices, 1)
	assert.Equal(t, storefront.VariantDestructive, view.Notices[0].Variant)
}

func TestSubmitWithoutBridge(t *testing.T) {
	s := newTestService(NoBridge())
	fillDraft(t, s, "v1")

	require.NoError(t, s.Submit("v1"))
	view, err := s.Open("v1")
	require.NoError(t, err)
	require.Len(t, view.Notices, 1)
	assert.Equal(t, "Сервер: Mars, ID: 12345, Сумма: 200₽", view.Notices[0].Description)
}

func TestUnknownValues(t *testing.T) {
	s := newTestService(NoBridge())
	assert.True(t, errors.Is(s.SelectServer("v1", "Venus"), storefront.ErrUnknownServer))
	assert.True(t, errors.Is(s.SelectBundle("v1", "7kk"), storefront.ErrUnknownBundle))
}

func TestExpiredVisitStartsOver(t *testing.T) {
	s := newTestService(NoBridge())
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	fillDraft(t, s, "v1")

	view, err := s.Open("v1")
	require.NoError(t, err)
	assert.Equal(t, "empty", view.State)
}

func TestRunSweeper(t *testing.T) {
	st := storage.New()
	var logs bytes.Buffer
	s := New(st, catalog.Default(), NoBridge(), time.Hour, zerolog.New(&logs))
	require.NoError(t, st.AddVisit("old", &storage.Visit{}, time.Now().Add(-time.Minute)))
	require.NoError(t, st.AddVisit("live", &storage.Visit{}, time.Now().Add(time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return st.Len() == 1 }, time.Second, time.Millisecond)
	cancel()
	<-done
	assert.Contains(t, logs.String(), `"count":1,"active":1`)
}

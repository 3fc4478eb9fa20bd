package httpview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signalmesh/signalmesh/internal/adapters/localbus"
	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

func TestServer_ListSignals(t *testing.T) {
	registry := signal.NewRegistry()
	bus := localbus.New()

	initial := int64(7)
	a, err := signal.Spawn(context.Background(), domain.SignalConfig{ID: "a", InitialValue: &initial}, bus)
	require.NoError(t, err)
	defer a.Stop()
	require.NoError(t, registry.Add(a))

	srv, err := New(registry)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/signals", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"value":7`)
}

func TestServer_SignalValueNotFound(t *testing.T) {
	srv, err := New(signal.NewRegistry())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/signals/missing/value", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

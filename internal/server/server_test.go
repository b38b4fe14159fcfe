package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/event"
	"github.com/osse101/ReelSpin_Go/internal/history"
	"github.com/osse101/ReelSpin_Go/internal/outcome"
	"github.com/osse101/ReelSpin_Go/internal/spin"
	"github.com/osse101/ReelSpin_Go/internal/theme"
	"github.com/osse101/ReelSpin_Go/internal/wallet"
	"github.com/osse101/ReelSpin_Go/internal/worker"
)

const testAPIKey = "test-key"

type losingPlayClient struct{}

func (losingPlayClient) Play(ctx context.Context, sessionID string, stake decimal.Decimal) (domain.Outcome, error) {
	return domain.Outcome{Stake: stake, Payout: decimal.Zero, ResultingBalance: decimal.NewFromInt(90)}, nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	skins, err := theme.LoadEmbedded()
	require.NoError(t, err)
	w, err := wallet.New(ctx, wallet.NewMemoryRepository(), "player", decimal.NewFromInt(100))
	require.NoError(t, err)

	bus := event.NewMemoryBus()
	rec := outcome.NewReconciler(losingPlayClient{}, bus, outcome.Config{})
	pool := worker.NewPool(1, 8)
	pool.Start()
	hist := history.NewService(history.NewMemoryRepository(), bus, pool, "player")

	reg, err := spin.NewRegistry(skins.All(), spin.Config{
		BaseDuration:  30 * time.Millisecond,
		Stagger:       10 * time.Millisecond,
		DecelDuration: 20 * time.Millisecond,
		PlayerID:      "player",
	}, spin.Deps{Wallet: w, Reconciler: rec, History: hist, Bus: bus}, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = reg.Shutdown(sctx)
		_ = rec.Shutdown(sctx)
		pool.Stop()
	})

	return NewServer(0, testAPIKey, nil, Deps{Machines: reg, History: hist}).Handler()
}

func serve(h http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if authed {
		req.Header.Set(HeaderAPIKey, testAPIKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		rec := serve(h, http.MethodGet, path, "", false)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType), path)
	}
}

func TestRouter_SpinRoundTrip(t *testing.T) {
	h := newTestServer(t)

	rec := serve(h, http.MethodPost, "/api/v1/machines/classic/spin", `{"stake":"10"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodPost, "/api/v1/machines/classic/spin", `{"stake":"10"}`, true)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	require.Eventually(t, func() bool {
		r := serve(h, http.MethodGet, "/api/v1/machines/classic", "", true)
		return bytes.Contains(r.Body.Bytes(), []byte(`"spin_enabled":true`))
	}, 3*time.Second, 10*time.Millisecond)

	rec = serve(h, http.MethodGet, "/api/v1/machines/classic", "", true)
	assert.Contains(t, rec.Body.String(), `"displayed_balance":"90"`)

	require.Eventually(t, func() bool {
		r := serve(h, http.MethodGet, "/api/v1/history?limit=5", "", true)
		return bytes.Contains(r.Body.Bytes(), []byte(`"theme":"classic"`))
	}, 3*time.Second, 10*time.Millisecond)
}

func TestRouter_Routes(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/v1/themes", "", http.StatusOK},
		{http.MethodGet, "/api/v1/machines", "", http.StatusOK},
		{http.MethodGet, "/api/v1/machines/pirate", "", http.StatusOK},
		{http.MethodGet, "/api/v1/machines/unknown", "", http.StatusNotFound},
		{http.MethodPut, "/api/v1/machines/neon/geometry", `{"item_height":90,"visible_rows":3}`, http.StatusOK},
		{http.MethodGet, "/api/v1/history?limit=abc", "", http.StatusBadRequest},
		{http.MethodDelete, "/api/v1/machines/neon", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(h, tt.method, tt.path, tt.body, true)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

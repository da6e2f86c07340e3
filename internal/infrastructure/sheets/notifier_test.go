package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/pkg/logger"
	"github.com/jhoicas/inventario-bot/pkg/metrics"
)

type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
	err    error
	calls  int
}

func (f *fakeSettings) GetAll(context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.values, f.err
}

type captured struct {
	mu     sync.Mutex
	bodies []map[string]any
	query  []string
}

func newSink(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		c.mu.Lock()
		c.bodies = append(c.bodies, body)
		c.query = append(c.query, r.URL.Query().Get("secret"))
		c.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func notificationCount(t *testing.T, reg *prometheus.Registry, status string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "bot_sheet_notifications_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == status {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func samplePayload() dto.StockEventPayload {
	return dto.StockEventPayload{
		Branch:      "TPE01",
		SKU:         "AG030",
		ProductName: "可樂 330ml",
		UnitsPerBox: 24,
		UnitPrice:   decimal.RequireFromString("12.5"),
		OutBox:      2,
		OutPiece:    1,
		StockBox:    3,
		StockPiece:  2,
		Warehouse:   "總倉",
		Cost:        decimal.RequireFromString("30"),
		CreatedBy:   "U-user",
		CreatedAt:   time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}
}

func TestNotifier_EnviaPayloadConHoraLocal(t *testing.T) {
	srv, got := newSink(t, http.StatusOK)
	reg := prometheus.NewRegistry()
	m := metrics.NewBotMetrics(reg)

	n := NewNotifier(Config{WebhookURL: srv.URL + "/exec", Secret: "k3y", Location: time.FixedZone("Asia/Taipei", 8*3600)}, nil, m, nil)
	n.Notify(context.Background(), samplePayload())
	n.Wait()

	require.Len(t, got.bodies, 1)
	body := got.bodies[0]
	assert.Equal(t, "k3y", got.query[0])
	assert.Equal(t, "TPE01", body["branch"])
	assert.Equal(t, "可樂 330ml", body["product_name"])
	assert.Equal(t, 12.5, body["unit_price"])
	assert.Equal(t, float64(2), body["out_box"])
	assert.Equal(t, float64(0), body["in_box"])
	assert.Equal(t, float64(30), body["cost"])
	assert.Equal(t, "總倉", body["warehouse"])
	assert.Equal(t, "2026-10-19T17:30:00+08:00", body["created_at"])
	assert.Equal(t, float64(1), notificationCount(t, reg, "sent"))
}

func TestNotifier_ContextoCanceladoNoCortaElEnvio(t *testing.T) {
	srv, got := newSink(t, http.StatusOK)
	n := NewNotifier(Config{WebhookURL: srv.URL}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, samplePayload())
	cancel()
	n.Wait()

	assert.Len(t, got.bodies, 1)
	assert.Equal(t, "", got.query[0], "sin secreto no se agrega el parámetro")
}

func TestNotifier_ResuelveDestinoUnaSolaVez(t *testing.T) {
	srv, got := newSink(t, http.StatusOK)
	settings := &fakeSettings{values: map[string]string{
		SettingWebhookURL:    srv.URL,
		SettingWebhookSecret: "remoto",
	}}
	n := NewNotifier(Config{}, settings, nil, nil)

	for i := 0; i < 3; i++ {
		n.Notify(context.Background(), samplePayload())
	}
	n.Wait()

	assert.Equal(t, 1, settings.calls)
	require.Len(t, got.bodies, 3)
	assert.Equal(t, "remoto", got.query[2])
}

func TestNotifier_SinDestinoNoReintenta(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewBotMetrics(reg)
	settings := &fakeSettings{err: errors.New("rpc caído")}
	n := NewNotifier(Config{}, settings, m, nil)

	n.Notify(context.Background(), samplePayload())
	n.Wait()
	n.Notify(context.Background(), samplePayload())
	n.Wait()

	assert.Equal(t, 1, settings.calls)
	assert.Equal(t, float64(0), notificationCount(t, reg, "failed"))
	assert.Equal(t, float64(2), notificationCount(t, reg, "skipped"))
}

func TestNotifier_SinDestinoAvisaUnaSolaVez(t *testing.T) {
	var buf bytes.Buffer
	log := logger.FromZerolog(zerolog.New(&buf))
	reg := prometheus.NewRegistry()
	n := NewNotifier(Config{}, &fakeSettings{values: map[string]string{}}, metrics.NewBotMetrics(reg), log)

	for i := 0; i < 3; i++ {
		n.Notify(context.Background(), samplePayload())
		n.Wait()
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, buf.String())
	assert.Contains(t, lines[0], `"level":"warn"`)
	assert.Contains(t, lines[0], SettingWebhookURL)
	assert.Equal(t, float64(3), notificationCount(t, reg, "skipped"))
}

func TestNotifier_ErrorHTTPSoloSeRegistra(t *testing.T) {
	srv, got := newSink(t, http.StatusInternalServerError)
	reg := prometheus.NewRegistry()
	m := metrics.NewBotMetrics(reg)
	n := NewNotifier(Config{WebhookURL: srv.URL}, nil, m, nil)

	n.Notify(context.Background(), samplePayload())
	n.Wait()

	assert.Len(t, got.bodies, 1)
	assert.Equal(t, float64(1), notificationCount(t, reg, "failed"))
}

func TestLoadLocation_FallbackDevuelveError(t *testing.T) {
	loc, err := LoadLocation("Zona/Inexistente")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Zona/Inexistente")
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 8*3600, offset)
}

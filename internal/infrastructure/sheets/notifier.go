// Package sheets envía los movimientos de stock a una hoja de cálculo externa (webhook HTTP).
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/internal/application/ports"
	"github.com/jhoicas/inventario-bot/internal/domain/repository"
	"github.com/jhoicas/inventario-bot/pkg/logger"
	"github.com/jhoicas/inventario-bot/pkg/metrics"
)

var _ ports.StockNotifier = (*Notifier)(nil)

// Claves de la configuración remota con el destino del webhook.
const (
	SettingWebhookURL    = "sheet_webhook_url"
	SettingWebhookSecret = "sheet_webhook_secret"
)

// timestampLayout fecha local con desplazamiento explícito, p. ej. 2026-10-19T17:30:00+08:00.
const timestampLayout = "2006-01-02T15:04:05-07:00"

type endpointStatus int

const (
	endpointUnresolved endpointStatus = iota
	endpointResolved
	endpointUnavailable
)

// endpoint destino del webhook. Se resuelve como máximo una vez por proceso.
type endpoint struct {
	mu     sync.Mutex
	status endpointStatus
	url    string
	secret string
}

// Config opciones del notificador.
type Config struct {
	WebhookURL string
	Secret     string
	Location   *time.Location
	Timeout    time.Duration
}

// Notifier implementación asíncrona de ports.StockNotifier. Cada Notify corre en su propia
// goroutine con timeout propio; los fallos solo se registran.
type Notifier struct {
	settings   repository.SettingsRepository
	httpClient *http.Client
	loc        *time.Location
	timeout    time.Duration
	ep         endpoint
	wg         sync.WaitGroup
	metrics    *metrics.BotMetrics
	log        *logger.Logger
}

// NewNotifier construye el notificador. Si cfg.WebhookURL está vacío el destino se lee de
// settings en el primer envío.
func NewNotifier(cfg Config, settings repository.SettingsRepository, m *metrics.BotMetrics, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = DefaultLocation()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	n := &Notifier{
		settings:   settings,
		httpClient: &http.Client{},
		loc:        loc,
		timeout:    timeout,
		metrics:    m,
		log:        log.Component("sheets"),
	}
	if cfg.WebhookURL != "" {
		n.ep = endpoint{status: endpointResolved, url: cfg.WebhookURL, secret: cfg.Secret}
	}
	return n
}

// DefaultLocation Asia/Taipei; si la base de zonas no está disponible, UTC+8 fijo.
func DefaultLocation() *time.Location {
	loc, _ := LoadLocation("Asia/Taipei")
	return loc
}

// LoadLocation carga la zona. Si falla devuelve UTC+8 fijo junto con el error, para que el
// llamador decida si avisa o aborta.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("UTC+8", 8*60*60), fmt.Errorf("zona horaria %q: %w", name, err)
	}
	return loc, nil
}

// Notify envía el payload en segundo plano.
func (n *Notifier) Notify(ctx context.Context, p dto.StockEventPayload) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		status := "sent"
		err := n.send(ctx, p)
		switch {
		case errors.Is(err, errNoEndpoint):
			// ya avisado al resolver el destino
			status = "skipped"
		case err != nil:
			status = "failed"
			n.log.Warn().Err(err).
				Str("branch", p.Branch).
				Str("sku", p.SKU).
				Msg("notificación a hoja de cálculo no enviada")
		}
		n.metrics.IncNotification(status)
	}()
}

// Wait espera los envíos en curso (apagado ordenado).
func (n *Notifier) Wait() {
	n.wg.Wait()
}

var errNoEndpoint = errors.New("webhook de hoja de cálculo no configurado")

func (n *Notifier) send(ctx context.Context, p dto.StockEventPayload) error {
	target, secret, err := n.resolve(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(n.toRecord(p))
	if err != nil {
		return fmt.Errorf("serializar payload: %w", err)
	}

	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("url inválida: %w", err)
	}
	if secret != "" {
		q := u.Query()
		q.Set("secret", secret)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}

// resolve devuelve el destino; la primera llamada sin configuración estática consulta settings
// una sola vez y deja el resultado (resuelto o no disponible) para el resto del proceso.
func (n *Notifier) resolve(ctx context.Context) (string, string, error) {
	n.ep.mu.Lock()
	defer n.ep.mu.Unlock()

	switch n.ep.status {
	case endpointResolved:
		return n.ep.url, n.ep.secret, nil
	case endpointUnavailable:
		return "", "", errNoEndpoint
	}

	n.ep.status = endpointUnavailable
	if n.settings == nil {
		n.log.Warn().Msg("sin destino de hoja de cálculo; las notificaciones se omiten")
		return "", "", errNoEndpoint
	}
	values, err := n.settings.GetAll(ctx)
	if err != nil {
		n.log.Warn().Err(err).Msg("no se pudo leer la configuración remota; las notificaciones se omiten")
		return "", "", errNoEndpoint
	}
	target := strings.TrimSpace(values[SettingWebhookURL])
	if target == "" {
		n.log.Warn().Str("key", SettingWebhookURL).Msg("destino de hoja de cálculo vacío; las notificaciones se omiten")
		return "", "", errNoEndpoint
	}
	n.ep.status = endpointResolved
	n.ep.url = target
	n.ep.secret = strings.TrimSpace(values[SettingWebhookSecret])
	n.log.Info().Msg("destino de hoja de cálculo resuelto desde configuración remota")
	return n.ep.url, n.ep.secret, nil
}

// record cuerpo JSON esperado por el script de la hoja.
type record struct {
	Branch      string      `json:"branch"`
	SKU         string      `json:"sku"`
	ProductName string      `json:"product_name"`
	UnitsPerBox int         `json:"units_per_box"`
	UnitPrice   json.Number `json:"unit_price"`
	InBox       int         `json:"in_box"`
	InPiece     int         `json:"in_piece"`
	OutBox      int         `json:"out_box"`
	OutPiece    int         `json:"out_piece"`
	StockBox    int         `json:"stock_box"`
	StockPiece  int         `json:"stock_piece"`
	Warehouse   string      `json:"warehouse"`
	Cost        json.Number `json:"cost"`
	CreatedBy   string      `json:"created_by"`
	CreatedAt   string      `json:"created_at"`
}

func (n *Notifier) toRecord(p dto.StockEventPayload) record {
	return record{
		Branch:      p.Branch,
		SKU:         p.SKU,
		ProductName: p.ProductName,
		UnitsPerBox: p.UnitsPerBox,
		UnitPrice:   json.Number(p.UnitPrice.String()),
		InBox:       p.InBox,
		InPiece:     p.InPiece,
		OutBox:      p.OutBox,
		OutPiece:    p.OutPiece,
		StockBox:    p.StockBox,
		StockPiece:  p.StockPiece,
		Warehouse:   p.Warehouse,
		Cost:        json.Number(p.Cost.String()),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt.In(n.loc).Format(timestampLayout),
	}
}

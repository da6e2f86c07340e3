package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics contadores del bot de inventario. Un *BotMetrics nil es válido y no registra nada.
type BotMetrics struct {
	events        *prometheus.CounterVec
	intents       *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewBotMetrics registra las métricas en el registerer indicado.
func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	if reg == nil {
		return &BotMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_events_total",
		Help: "Eventos de chat procesados por resultado.",
	}, []string{"outcome"})
	intents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Comandos reconocidos por tipo.",
	}, []string{"kind"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_stock_mutations_total",
		Help: "Movimientos de stock por acción y estado.",
	}, []string{"action", "status"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_sheet_notifications_total",
		Help: "Notificaciones a la hoja de cálculo por estado.",
	}, []string{"status"})
	reg.MustRegister(events, intents, mutations, notifications)
	return &BotMetrics{
		events:        events,
		intents:       intents,
		mutations:     mutations,
		notifications: notifications,
	}
}

// IncEvent cuenta un evento con su resultado (ignored, blocked, unbound, replied, failed).
func (m *BotMetrics) IncEvent(outcome string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncIntent cuenta un comando reconocido.
func (m *BotMetrics) IncIntent(kind string) {
	if m == nil || m.intents == nil {
		return
	}
	m.intents.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncMutation cuenta un movimiento de stock.
func (m *BotMetrics) IncMutation(action, status string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(action), normalizeLabel(status)).Inc()
}

// IncNotification cuenta un envío a la hoja de cálculo (sent, failed, skipped).
func (m *BotMetrics) IncNotification(status string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

package http

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/internal/domain/entity"
	"github.com/jhoicas/inventario-bot/pkg/logger"
)

// EventBatchHandler procesa un lote de eventos ya normalizados.
type EventBatchHandler interface {
	HandleBatch(ctx context.Context, events []dto.InboundEvent) error
}

// WebhookHandler recibe los lotes de eventos de la plataforma de mensajería.
type WebhookHandler struct {
	bot      EventBatchHandler
	validate *validator.Validate
	log      *logger.Logger
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(bot EventBatchHandler, log *logger.Logger) *WebhookHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WebhookHandler{bot: bot, validate: validator.New(), log: log.Component("webhook")}
}

// Receive POST /webhook. Responde 200 aunque fallen eventos: la plataforma reintentaría el lote completo.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var req dto.WebhookRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo JSON inválido"})
	}

	events := make([]dto.InboundEvent, 0, len(req.Events))
	for i := range req.Events {
		ev := req.Events[i]
		if err := h.validate.Struct(ev); err != nil {
			h.log.Warn().Err(err).Str("event_id", ev.WebhookEventID).Msg("evento inválido descartado")
			continue
		}
		events = append(events, toInboundEvent(ev))
	}

	if err := h.bot.HandleBatch(c.UserContext(), events); err != nil {
		h.log.Error().Err(err).Int("events", len(events)).Msg("lote procesado con errores")
	}
	return c.SendStatus(fiber.StatusOK)
}

// Verify GET /webhook (verificación del endpoint desde la consola de la plataforma).
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	return c.SendString("OK")
}

func toInboundEvent(ev dto.WebhookEvent) dto.InboundEvent {
	in := dto.InboundEvent{
		EventID:    ev.WebhookEventID,
		ReplyToken: ev.ReplyToken,
		Identity: entity.Identity{
			UserID:     ev.Source.UserID,
			SourceType: ev.Source.Type,
		},
	}
	switch ev.Source.Type {
	case entity.SourceGroup:
		in.Identity.GroupOrRoomID = ev.Source.GroupID
	case entity.SourceRoom:
		in.Identity.GroupOrRoomID = ev.Source.RoomID
	}
	if ev.Type == "message" && ev.Message != nil && ev.Message.Type == "text" {
		in.IsText = true
		in.Text = ev.Message.Text
	}
	return in
}

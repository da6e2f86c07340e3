package bot

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/internal/domain/command"
	"github.com/jhoicas/inventario-bot/pkg/logger"
)

// Resultados de evento para métricas.
const (
	outcomeIgnored = "ignored"
	outcomeBlocked = "blocked"
	outcomeUnbound = "unbound"
	outcomeReplied = "replied"
	outcomeFailed  = "failed"
)

// HandleBatch procesa los eventos de un webhook en orden. El fallo (o panic) de un evento no
// impide procesar los siguientes; el error devuelto agrega los fallos solo para registro:
// el webhook debe confirmar el lote igualmente.
func (uc *BotUseCase) HandleBatch(ctx context.Context, events []dto.InboundEvent) error {
	var errs error
	for i := range events {
		if err := uc.handleIsolated(ctx, events[i]); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("evento %d (%s): %w", i, events[i].EventID, err))
		}
	}
	return errs
}

// handleIsolated límite externo de un evento: recupera panics y ante cualquier error intenta
// una respuesta genérica; si también falla, solo se registra.
func (uc *BotUseCase) handleIsolated(ctx context.Context, ev dto.InboundEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err == nil {
			return
		}
		log := uc.eventLogger(ev)
		uc.metrics.IncEvent(outcomeFailed)
		log.Error().Err(err).Msg("error procesando evento")
		if ev.ReplyToken == "" || uc.sender == nil {
			return
		}
		if replyErr := uc.sender.Reply(ctx, ev.ReplyToken, dto.TextReply(msgSystemBusy)); replyErr != nil {
			log.Error().Err(replyErr).Msg("respuesta de error no enviada")
		}
	}()
	return uc.HandleEvent(ctx, ev)
}

// HandleEvent procesa un único evento: parser → resolución → despacho → respuesta.
// Texto que no es comando, eventos que no son de texto y remitentes bloqueados no reciben respuesta.
func (uc *BotUseCase) HandleEvent(ctx context.Context, ev dto.InboundEvent) error {
	if !ev.IsText {
		uc.metrics.IncEvent(outcomeIgnored)
		return nil
	}
	intent, ok := command.Parse(ev.Text)
	if !ok {
		uc.metrics.IncEvent(outcomeIgnored)
		return nil
	}
	uc.metrics.IncIntent(intent.Kind.String())

	res, err := uc.Resolve(ctx, ev.Identity)
	if err != nil {
		return err
	}
	if res.Blocked {
		uc.metrics.IncEvent(outcomeBlocked)
		uc.eventLogger(ev).Debug().
			Str("branch", res.Branch).
			Msg("remitente bloqueado, evento descartado")
		return nil
	}
	if res.Branch == "" {
		if err := uc.send(ctx, ev.ReplyToken, dto.TextReply(res.UnboundMessage)); err != nil {
			return err
		}
		uc.metrics.IncEvent(outcomeUnbound)
		return nil
	}

	reply, err := uc.Execute(ctx, res, intent)
	if err != nil {
		return err
	}
	// un fallo de envío se cuenta como failed en handleIsolated
	if err := uc.send(ctx, ev.ReplyToken, reply); err != nil {
		return err
	}
	uc.metrics.IncEvent(outcomeReplied)
	return nil
}

// eventLogger sublogger con los datos de origen del evento.
func (uc *BotUseCase) eventLogger(ev dto.InboundEvent) *logger.Logger {
	return uc.log.WithFields(map[string]any{
		"event_id":    ev.EventID,
		"source_type": ev.Identity.SourceType,
		"user_id":     ev.Identity.UserID,
	})
}

// Execute despacha la intención ya autorizada y devuelve la respuesta a enviar.
func (uc *BotUseCase) Execute(ctx context.Context, res Resolution, intent command.Intent) (dto.Reply, error) {
	switch intent.Kind {
	case command.KindQuery:
		list, err := uc.ByName(ctx, res, intent.Keyword)
		if err != nil {
			return dto.Reply{}, err
		}
		return uc.showProducts(ctx, res, list)
	case command.KindBarcode:
		list, err := uc.ByBarcode(ctx, res, intent.Code)
		if err != nil {
			return dto.Reply{}, err
		}
		return uc.showProducts(ctx, res, list)
	case command.KindSKU:
		list, err := uc.BySKU(ctx, res, intent.Code)
		if err != nil {
			return dto.Reply{}, err
		}
		return uc.showProducts(ctx, res, list)
	case command.KindChange:
		return uc.ChangeStock(ctx, res, intent.Change)
	default:
		return dto.Reply{}, fmt.Errorf("intención no soportada: %s", intent.Kind)
	}
}

func (uc *BotUseCase) send(ctx context.Context, replyToken string, reply dto.Reply) error {
	if replyToken == "" {
		return nil
	}
	if err := uc.sender.Reply(ctx, replyToken, reply); err != nil {
		return fmt.Errorf("enviar respuesta: %w", err)
	}
	return nil
}

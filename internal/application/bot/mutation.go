package bot

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/internal/domain/command"
	"github.com/jhoicas/inventario-bot/internal/domain/entity"
)

// MutationStatus resultado de un movimiento de stock.
type MutationStatus int

const (
	MutationCompleted MutationStatus = iota + 1
	// MutationPartial la salida de cajas se aplicó pero la de piezas falló. No hay rollback.
	MutationPartial
	MutationFailed
)

func (s MutationStatus) String() string {
	switch s {
	case MutationCompleted:
		return "completed"
	case MutationPartial:
		return "partial"
	case MutationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MutationOutcome lo que efectivamente se aplicó en el sistema remoto.
type MutationOutcome struct {
	Status       MutationStatus
	Warehouse    string
	AppliedBox   int
	AppliedPiece int
	Cost         decimal.Decimal
	// Stock stock resultante; nil si no se pudo obtener.
	Stock *entity.StockLevel
	Err   error
}

// ChangeStock ejecuta un comando de entrada/salida sobre el último producto seleccionado.
// Cada paso es una compuerta: permiso, cantidad, selección previa, bodega, ejecución.
func (uc *BotUseCase) ChangeStock(ctx context.Context, res Resolution, c command.Change) (dto.Reply, error) {
	if c.Action == entity.ActionIn && !res.IsManager() {
		return dto.TextReply(msgInForbidden), nil
	}
	if c.IsZero() {
		return dto.TextReply(msgEnterQuantity), nil
	}

	if res.Identity.UserID == "" {
		return dto.TextReply(msgSelectFirst), nil
	}
	sku, found, err := uc.selections.GetLast(ctx, res.Identity.UserID, res.Branch)
	if err != nil {
		return dto.Reply{}, fmt.Errorf("leer última selección: %w", err)
	}
	if !found {
		return dto.TextReply(msgSelectFirst), nil
	}
	product, err := uc.products.GetBySKU(ctx, sku)
	if err != nil {
		return dto.Reply{}, fmt.Errorf("buscar producto seleccionado: %w", err)
	}
	if product == nil {
		return dto.TextReply(msgSelectFirst), nil
	}

	if c.Action == entity.ActionOut && c.Warehouse == "" {
		totals, err := uc.warehouses.ListLotTotals(ctx, res.Branch, product.SKU)
		if err != nil {
			return dto.Reply{}, fmt.Errorf("lotes por bodega: %w", err)
		}
		withStock := make([]entity.WarehouseStock, 0, len(totals))
		for _, w := range totals {
			if w.HasStock() {
				withStock = append(withStock, w)
			}
		}
		switch len(withStock) {
		case 0:
			c.Warehouse = entity.WarehouseUnspecified
		case 1:
			c.Warehouse = withStock[0].Warehouse
		default:
			return warehouseChoiceReply(product, c, withStock), nil
		}
	}

	var outcome MutationOutcome
	if c.Action == entity.ActionOut {
		outcome = uc.consume(ctx, res, product, c)
	} else {
		outcome = uc.adjust(ctx, res, product, c)
	}
	uc.metrics.IncMutation(c.Action, outcome.Status.String())

	if outcome.Err != nil {
		uc.log.Error().Err(outcome.Err).
			Str("branch", res.Branch).
			Str("sku", product.SKU).
			Str("action", c.Action).
			Str("warehouse", c.Warehouse).
			Str("status", outcome.Status.String()).
			Int("applied_box", outcome.AppliedBox).
			Int("applied_piece", outcome.AppliedPiece).
			Msg("movimiento de stock falló")
	}

	if c.Action == entity.ActionOut && (outcome.AppliedBox > 0 || outcome.AppliedPiece > 0) {
		uc.notifyOut(ctx, res, product, outcome)
	}

	switch outcome.Status {
	case MutationCompleted:
		return confirmationReply(product, c, outcome.Warehouse, outcome.Stock), nil
	case MutationPartial:
		return partialReply(product, outcome), nil
	default:
		return failureReply(outcome.Err), nil
	}
}

// consume salida: una llamada FIFO por componente no nulo (cajas y luego piezas).
// Las dos llamadas son independientes; si falla la segunda el resultado es parcial.
func (uc *BotUseCase) consume(ctx context.Context, res Resolution, p *entity.Product, c command.Change) MutationOutcome {
	out := MutationOutcome{Status: MutationFailed, Warehouse: c.Warehouse, Cost: decimal.Zero}

	actor, err := uc.users.GetBackingUserID(ctx, res.Identity.UserID)
	if err != nil {
		out.Err = err
		return out
	}

	at := uc.now()
	parts := []struct {
		uom string
		qty uint
	}{
		{entity.UOMBox, c.Box},
		{entity.UOMPiece, c.Piece},
	}
	for _, part := range parts {
		if part.qty == 0 {
			continue
		}
		r, err := uc.mutations.ConsumeLots(ctx, entity.LotConsumption{
			Branch:    res.Branch,
			SKU:       p.SKU,
			UOM:       part.uom,
			Quantity:  int(part.qty),
			Warehouse: c.Warehouse,
			ActorID:   actor,
			Source:    uc.sourceTag,
			At:        at,
		})
		if err != nil {
			out.Err = err
			if out.AppliedBox > 0 || out.AppliedPiece > 0 {
				out.Status = MutationPartial
				out.Stock = uc.rereadStock(ctx, res.Branch, p.SKU)
			}
			return out
		}
		if part.uom == entity.UOMBox {
			out.AppliedBox = int(part.qty)
		} else {
			out.AppliedPiece = int(part.qty)
		}
		out.Cost = out.Cost.Add(r.Cost)
	}

	out.Status = MutationCompleted
	out.Stock = uc.rereadStock(ctx, res.Branch, p.SKU)
	return out
}

// adjust entrada: un único ajuste agregado (no pasa por lotes).
func (uc *BotUseCase) adjust(ctx context.Context, res Resolution, p *entity.Product, c command.Change) MutationOutcome {
	out := MutationOutcome{Status: MutationFailed, Cost: decimal.Zero}
	level, err := uc.mutations.Adjust(ctx, entity.StockAdjustment{
		Branch:     res.Branch,
		SKU:        p.SKU,
		DeltaBox:   int(c.Box),
		DeltaPiece: int(c.Piece),
		UserID:     res.Identity.UserID,
		Source:     uc.sourceTag,
	})
	if err != nil {
		out.Err = err
		return out
	}
	out.Status = MutationCompleted
	out.AppliedBox = int(c.Box)
	out.AppliedPiece = int(c.Piece)
	if level != nil {
		out.Stock = level
	} else {
		out.Stock = uc.rereadStock(ctx, res.Branch, p.SKU)
	}
	return out
}

func (uc *BotUseCase) rereadStock(ctx context.Context, branch, sku string) *entity.StockLevel {
	level, err := uc.stock.Get(ctx, branch, sku)
	if err != nil {
		uc.log.Warn().Err(err).Str("branch", branch).Str("sku", sku).Msg("releer stock después del movimiento")
		return nil
	}
	return &level
}

func (uc *BotUseCase) notifyOut(ctx context.Context, res Resolution, p *entity.Product, o MutationOutcome) {
	if uc.notifier == nil {
		return
	}
	payload := dto.StockEventPayload{
		Branch:      res.Branch,
		SKU:         p.SKU,
		ProductName: p.Name,
		UnitsPerBox: p.UnitsPerBox,
		UnitPrice:   p.UnitPrice,
		OutBox:      o.AppliedBox,
		OutPiece:    o.AppliedPiece,
		Warehouse:   o.Warehouse,
		Cost:        o.Cost,
		CreatedBy:   res.Identity.UserID,
		CreatedAt:   uc.now(),
	}
	if o.Stock != nil {
		payload.StockBox = o.Stock.Box
		payload.StockPiece = o.Stock.Piece
	}
	uc.notifier.Notify(ctx, payload)
}

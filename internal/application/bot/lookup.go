package bot

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/internal/domain/command"
	"github.com/jhoicas/inventario-bot/internal/domain/entity"
)

// visibility aplica la regla de visibilidad por rol: un usuario normal solo ve SKUs con stock
// en su sucursal; un encargado ve todo. El conjunto con stock se carga una vez por petición.
type visibility struct {
	uc      *BotUseCase
	branch  string
	manager bool
	inStock map[string]struct{}
}

func (uc *BotUseCase) newVisibility(res Resolution) *visibility {
	return &visibility{uc: uc, branch: res.Branch, manager: res.IsManager()}
}

func (v *visibility) allows(ctx context.Context, sku string) (bool, error) {
	if v.manager {
		return true, nil
	}
	if v.inStock == nil {
		set, err := v.uc.stock.InStockSKUs(ctx, v.branch)
		if err != nil {
			return false, fmt.Errorf("SKUs con stock: %w", err)
		}
		if set == nil {
			set = map[string]struct{}{}
		}
		v.inStock = set
	}
	_, ok := v.inStock[sku]
	return ok, nil
}

// filter descarta los no visibles y corta en maxSearchResult.
func (v *visibility) filter(ctx context.Context, list []*entity.Product) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		if p == nil {
			continue
		}
		ok, err := v.allows(ctx, p.SKU)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, p)
		if len(out) == maxSearchResult {
			break
		}
	}
	return out, nil
}

// ByName coincidencia parcial sobre el nombre (máx. 20 filas crudas, 10 visibles).
func (uc *BotUseCase) ByName(ctx context.Context, res Resolution, keyword string) ([]*entity.Product, error) {
	list, err := uc.products.SearchByName(ctx, keyword, rawSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("buscar por nombre: %w", err)
	}
	return uc.newVisibility(res).filter(ctx, list)
}

// ByBarcode coincidencia exacta; cero o un resultado.
func (uc *BotUseCase) ByBarcode(ctx context.Context, res Resolution, code string) ([]*entity.Product, error) {
	p, err := exactMatch(ctx, uc.products.GetByBarcode, code)
	if err != nil {
		return nil, fmt.Errorf("buscar por código de barras: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	return uc.newVisibility(res).filter(ctx, []*entity.Product{p})
}

// BySKU primero coincidencia exacta (si es visible se devuelve sola); si no, coincidencia parcial sobre el SKU.
func (uc *BotUseCase) BySKU(ctx context.Context, res Resolution, code string) ([]*entity.Product, error) {
	vis := uc.newVisibility(res)
	exact, err := exactMatch(ctx, uc.products.GetBySKU, code)
	if err != nil {
		return nil, fmt.Errorf("buscar SKU exacto: %w", err)
	}
	if exact != nil {
		ok, err := vis.allows(ctx, exact.SKU)
		if err != nil {
			return nil, err
		}
		if ok {
			return []*entity.Product{exact}, nil
		}
	}
	list, err := uc.products.SearchBySKU(ctx, command.Narrow(code), rawSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("buscar por SKU: %w", err)
	}
	return vis.filter(ctx, list)
}

// exactMatch busca el código tal como llegó y, si no existe, su forma en ancho angosto.
func exactMatch(ctx context.Context, get func(context.Context, string) (*entity.Product, error), code string) (*entity.Product, error) {
	p, err := get(ctx, code)
	if err != nil || p != nil {
		return p, err
	}
	if narrow := command.Narrow(code); narrow != code {
		return get(ctx, narrow)
	}
	return nil, nil
}

// showProducts arma la respuesta según la cantidad de resultados:
// ninguno → no encontrado; uno → detalle (y se registra como última selección); varios → selección.
func (uc *BotUseCase) showProducts(ctx context.Context, res Resolution, list []*entity.Product) (dto.Reply, error) {
	switch len(list) {
	case 0:
		if res.IsManager() {
			return dto.TextReply(msgNotFoundManager), nil
		}
		return dto.TextReply(msgNotFoundUser), nil
	case 1:
		return uc.showDetail(ctx, res, list[0])
	default:
		return productChoiceReply(list), nil
	}
}

func (uc *BotUseCase) showDetail(ctx context.Context, res Resolution, p *entity.Product) (dto.Reply, error) {
	level, err := uc.stock.Get(ctx, res.Branch, p.SKU)
	if err != nil {
		return dto.Reply{}, fmt.Errorf("consultar stock: %w", err)
	}
	if !res.IsManager() && level.IsEmpty() {
		return dto.TextReply(msgNoStock), nil
	}
	if res.Identity.UserID != "" {
		if err := uc.selections.Upsert(ctx, res.Identity.UserID, res.Branch, p.SKU); err != nil {
			return dto.Reply{}, fmt.Errorf("guardar última selección: %w", err)
		}
	}
	return detailReply(p, level, res.IsManager()), nil
}

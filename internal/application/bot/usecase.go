// Package bot implementa el flujo del bot de inventario: texto → intención → autorización →
// consulta o movimiento de stock → respuesta.
package bot

import (
	"time"

	"github.com/jhoicas/inventario-bot/internal/application/ports"
	"github.com/jhoicas/inventario-bot/internal/domain/repository"
	"github.com/jhoicas/inventario-bot/pkg/logger"
	"github.com/jhoicas/inventario-bot/pkg/metrics"
)

// Límites de resultados de búsqueda.
const (
	rawSearchLimit  = 20 // filas pedidas al catálogo antes del filtro por rol
	maxSearchResult = 10 // resultados devueltos después del filtro
	maxQuickReplies = 12 // opciones de selección mostradas
)

// Deps dependencias del caso de uso.
type Deps struct {
	Users      repository.UserRepository
	Products   repository.ProductRepository
	Stock      repository.StockRepository
	Mutations  repository.StockMutationRepository
	Warehouses repository.WarehouseRepository
	Selections repository.SelectionRepository
	Sender     ports.ReplySender
	Notifier   ports.StockNotifier
	Metrics    *metrics.BotMetrics
	Log        *logger.Logger
	// SourceTag identifica al bot como origen de los movimientos en los procedimientos remotos.
	SourceTag string
	// Now reloj inyectable; nil = time.Now.
	Now func() time.Time
}

// BotUseCase orquesta el manejo de mensajes de chat. Sin estado propio: todo el estado
// (usuarios, stock, última selección) vive en los repositorios.
type BotUseCase struct {
	users      repository.UserRepository
	products   repository.ProductRepository
	stock      repository.StockRepository
	mutations  repository.StockMutationRepository
	warehouses repository.WarehouseRepository
	selections repository.SelectionRepository
	sender     ports.ReplySender
	notifier   ports.StockNotifier
	metrics    *metrics.BotMetrics
	log        *logger.Logger
	sourceTag  string
	now        func() time.Time
}

// NewBotUseCase construye el caso de uso.
func NewBotUseCase(d Deps) *BotUseCase {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &BotUseCase{
		users:      d.Users,
		products:   d.Products,
		stock:      d.Stock,
		mutations:  d.Mutations,
		warehouses: d.Warehouses,
		selections: d.Selections,
		sender:     d.Sender,
		notifier:   d.Notifier,
		metrics:    d.Metrics,
		log:        log.Component("bot"),
		sourceTag:  d.SourceTag,
		now:        now,
	}
}

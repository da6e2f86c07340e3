package bot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bot/internal/domain/command"
	"github.com/jhoicas/inventario-bot/internal/domain/entity"
)

func selectProduct(h *harness, userID, sku string) {
	h.selections.last[userID+"|"+testBranch] = sku
}

func TestChangeStock_EntradaDeUsuarioSeRechazaAntesQueLaCantidad(t *testing.T) {
	h := newHarness()
	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionIn})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "入庫權限")
	assert.Empty(t, h.mutations.adjustments)
}

func TestChangeStock_CantidadCero(t *testing.T) {
	h := newHarness()
	selectProduct(h, testUser, cola.SKU)
	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Warehouse: "總倉"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "請輸入數量")
	assert.Empty(t, h.mutations.consumed)
}

func TestChangeStock_SinSeleccionPrevia(t *testing.T) {
	h := newHarness()
	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Box: 1})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "請先用")
	assert.Empty(t, h.mutations.consumed)
}

func TestChangeStock_SeleccionDeProductoInexistente(t *testing.T) {
	h := newHarness()
	selectProduct(h, testUser, "ZZ999")
	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Box: 1})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "請先用")
}

func TestChangeStock_VariasBodegasPideElegir(t *testing.T) {
	h := newHarness()
	selectProduct(h, testUser, cola.SKU)
	h.warehouses.totals = []entity.WarehouseStock{
		{Warehouse: "總倉", Box: 3, Piece: 1},
		{Warehouse: "北倉", Box: 2, Piece: 2},
		{Warehouse: "南倉"},
	}

	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Box: 2})
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "多個倉庫")
	require.Len(t, reply.QuickReplies, 2, "las bodegas vacías no se ofrecen")
	assert.Equal(t, "出2箱@北倉", reply.QuickReplies[0].Text)
	assert.Equal(t, "北倉 2箱2件", reply.QuickReplies[0].Label)
	assert.Equal(t, "出2箱@總倉", reply.QuickReplies[1].Text)
	assert.Empty(t, h.mutations.consumed, "no se mueve stock hasta elegir bodega")
	assert.Empty(t, h.notifier.payloads)
}

func TestChangeStock_UnaBodegaSeEligeSola(t *testing.T) {
	h := newHarness()
	selectProduct(h, testUser, cola.SKU)
	h.warehouses.totals = []entity.WarehouseStock{
		{Warehouse: "總倉", Box: 5, Piece: 3},
		{Warehouse: "北倉"},
	}

	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Box: 1})
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "倉庫：總倉")
	require.Len(t, h.mutations.consumed, 1)
	assert.Equal(t, "總倉", h.mutations.consumed[0].Warehouse)
}

func TestChangeStock_SinLotesUsaBodegaNoEspecificada(t *testing.T) {
	h := newHarness()
	selectProduct(h, testUser, cola.SKU)

	_, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Piece: 1})
	require.NoError(t, err)

	require.Len(t, h.mutations.consumed, 1)
	assert.Equal(t, entity.WarehouseUnspecified, h.mutations.consumed[0].Warehouse)
	assert.Equal(t, entity.UOMPiece, h.mutations.consumed[0].UOM)
}

func TestChangeStock_SalidaCompleta(t *testing.T) {
	h := newHarness()
	selectProduct(h, testUser, cola.SKU)

	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Box: 2, Piece: 1, Warehouse: "總倉"})
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "出庫完成")
	assert.Contains(t, reply.Text, "數量：2箱1件")
	assert.Contains(t, reply.Text, "倉庫：總倉")
	assert.Contains(t, reply.Text, "目前庫存：3箱2件")

	require.Len(t, h.mutations.consumed, 2)
	box, piece := h.mutations.consumed[0], h.mutations.consumed[1]
	assert.Equal(t, entity.UOMBox, box.UOM)
	assert.Equal(t, 2, box.Quantity)
	assert.Equal(t, entity.UOMPiece, piece.UOM)
	assert.Equal(t, 1, piece.Quantity)
	assert.Equal(t, h.users.backing[testUser], box.ActorID)
	assert.Equal(t, "line_bot", box.Source)
	assert.Equal(t, testNow, box.At)

	require.Len(t, h.notifier.payloads, 1)
	p := h.notifier.payloads[0]
	assert.Equal(t, testBranch, p.Branch)
	assert.Equal(t, cola.SKU, p.SKU)
	assert.Equal(t, cola.Name, p.ProductName)
	assert.Equal(t, 24, p.UnitsPerBox)
	assert.True(t, cola.UnitPrice.Equal(p.UnitPrice))
	assert.Equal(t, 2, p.OutBox)
	assert.Equal(t, 1, p.OutPiece)
	assert.Zero(t, p.InBox)
	assert.Equal(t, 3, p.StockBox)
	assert.Equal(t, 2, p.StockPiece)
	assert.Equal(t, "總倉", p.Warehouse)
	assert.Equal(t, "30", p.Cost.String())
	assert.Equal(t, testUser, p.CreatedBy)
	assert.Equal(t, testNow, p.CreatedAt)
}

func TestChangeStock_FalloDePiezasDejaSalidaParcial(t *testing.T) {
	h := newHarness()
	selectProduct(h, testUser, cola.SKU)
	h.mutations.consumeErr[entity.UOMPiece] = errRPC

	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Box: 2, Piece: 1, Warehouse: "總倉"})
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "操作失敗：lot shortage for piece")
	assert.Contains(t, reply.Text, "已出庫 2箱")
	assert.Contains(t, reply.Text, "目前庫存：3箱3件")
	assert.Equal(t, entity.StockLevel{Box: 3, Piece: 3}, h.stock.levels[stockKey(testBranch, cola.SKU)],
		"las cajas quedan descontadas, sin rollback")

	require.Len(t, h.notifier.payloads, 1, "lo aplicado se notifica igual")
	assert.Equal(t, 2, h.notifier.payloads[0].OutBox)
	assert.Zero(t, h.notifier.payloads[0].OutPiece)
}

func TestChangeStock_FalloDeCajasNoAplicaNada(t *testing.T) {
	h := newHarness()
	selectProduct(h, testUser, cola.SKU)
	h.mutations.consumeErr[entity.UOMBox] = errRPC

	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Box: 2, Piece: 1, Warehouse: "總倉"})
	require.NoError(t, err)

	assert.Equal(t, "操作失敗：lot shortage for piece", reply.Text)
	assert.Empty(t, h.mutations.consumed)
	assert.Empty(t, h.notifier.payloads)
	assert.Equal(t, entity.StockLevel{Box: 5, Piece: 3}, h.stock.levels[stockKey(testBranch, cola.SKU)])
}

func TestChangeStock_IdentidadSinUsuarioRespaldo(t *testing.T) {
	h := newHarness()
	delete(h.users.backing, testUser)
	selectProduct(h, testUser, cola.SKU)

	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleUser, testUser),
		command.Change{Action: entity.ActionOut, Box: 1, Warehouse: "總倉"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "尚未對應庫存系統使用者")
	assert.Empty(t, h.mutations.consumed)
}

func TestChangeStock_EntradaDeEncargadoReleeStock(t *testing.T) {
	h := newHarness()
	selectProduct(h, testManager, cola.SKU)

	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleManager, testManager),
		command.Change{Action: entity.ActionIn, Box: 1})
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "入庫完成")
	assert.Contains(t, reply.Text, "目前庫存：6箱3件")
	assert.NotContains(t, reply.Text, "倉庫：")
	require.Len(t, h.mutations.adjustments, 1)
	adj := h.mutations.adjustments[0]
	assert.Equal(t, 1, adj.DeltaBox)
	assert.Zero(t, adj.DeltaPiece)
	assert.Equal(t, testManager, adj.UserID)
	assert.Empty(t, h.notifier.payloads, "las entradas no se notifican")
}

func TestChangeStock_EntradaConEcoDelProcedimiento(t *testing.T) {
	h := newHarness()
	h.mutations.echoAdjust = true
	selectProduct(h, testManager, tea.SKU)

	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleManager, testManager),
		command.Change{Action: entity.ActionIn, Piece: 6})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "目前庫存：2箱6件")
}

func TestChangeStock_EntradaFallida(t *testing.T) {
	h := newHarness()
	h.mutations.adjustErr = errRPC
	selectProduct(h, testManager, tea.SKU)

	reply, err := h.uc.ChangeStock(context.Background(), resolutionFor(entity.RoleManager, testManager),
		command.Change{Action: entity.ActionIn, Box: 1})
	require.NoError(t, err)
	assert.Equal(t, "操作失敗：lot shortage for piece", reply.Text)
}

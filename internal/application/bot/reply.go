package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/internal/domain"
	"github.com/jhoicas/inventario-bot/internal/domain/command"
	"github.com/jhoicas/inventario-bot/internal/domain/entity"
	"github.com/jhoicas/inventario-bot/internal/domain/inventory"
)

// Textos al usuario (chino tradicional, idioma de los operadores de sucursal).
const (
	msgGroupUnbound     = "此群組尚未綁定分店，請聯繫管理員設定。"
	msgUserUnbound      = "您的帳號尚未綁定分店，請聯繫管理員設定。"
	msgNotFoundUser     = "查無商品，或該商品在本分店目前無庫存。"
	msgNotFoundManager  = "查無此商品。"
	msgNoStock          = "此商品在本分店目前無庫存。"
	msgInForbidden      = "您沒有入庫權限，僅主管可以執行入庫。"
	msgEnterQuantity    = "請輸入數量，例如：出2箱1件"
	msgSelectFirst      = "請先用「查 品名」、「條碼 號碼」或「#編號」選擇商品，再輸入入庫或出庫數量。"
	msgChooseProduct    = "找到 %d 筆商品，請選擇："
	msgChooseWarehouse  = "%s 在多個倉庫有庫存，請選擇出庫倉庫："
	msgOperationFailed  = "操作失敗：%s"
	msgSystemBusy       = "系統忙碌中，請稍後再試。"
	msgUnknownError     = "未知錯誤"
	msgStockUnavailable = "（庫存查詢失敗）"
	msgNotMapped        = "您的帳號尚未對應庫存系統使用者，請聯繫管理員。"
	msgInsufficient     = "庫存不足"
)

// detailReply ficha del producto; el encargado ve además el valor del stock a precio unitario.
func detailReply(p *entity.Product, s entity.StockLevel, manager bool) dto.Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "品名：%s\n", p.Name)
	fmt.Fprintf(&b, "編號：%s\n", p.SKU)
	if p.Barcode != "" {
		fmt.Fprintf(&b, "條碼：%s\n", p.Barcode)
	}
	fmt.Fprintf(&b, "箱入數：%d\n", p.UnitsPerBox)
	fmt.Fprintf(&b, "單價：%s\n", p.UnitPrice.StringFixed(2))
	fmt.Fprintf(&b, "庫存：%s", inventory.FormatQuantity(s.Box, s.Piece))
	if manager && p.UnitsPerBox > 0 && !s.IsEmpty() {
		fmt.Fprintf(&b, "\n庫存金額：%s", inventory.StockValue(s.Box, s.Piece, p.UnitsPerBox, p.UnitPrice).StringFixed(0))
	}
	return dto.TextReply(b.String())
}

func productChoiceReply(list []*entity.Product) dto.Reply {
	n := len(list)
	if n > maxQuickReplies {
		n = maxQuickReplies
	}
	var b strings.Builder
	fmt.Fprintf(&b, msgChooseProduct, len(list))
	options := make([]dto.QuickReplyOption, 0, n)
	for _, p := range list[:n] {
		fmt.Fprintf(&b, "\n・%s（%s）", p.Name, p.SKU)
		options = append(options, quickReply(p.Name, command.FormatSKU(p.SKU)))
	}
	return dto.Reply{Text: b.String(), QuickReplies: options}
}

func warehouseChoiceReply(p *entity.Product, c command.Change, warehouses []entity.WarehouseStock) dto.Reply {
	n := len(warehouses)
	if n > maxQuickReplies {
		n = maxQuickReplies
	}
	var b strings.Builder
	fmt.Fprintf(&b, msgChooseWarehouse, p.Name)
	options := make([]dto.QuickReplyOption, 0, n)
	for _, w := range warehouses[:n] {
		totals := inventory.FormatQuantity(w.Box, w.Piece)
		fmt.Fprintf(&b, "\n・%s：%s", w.Warehouse, totals)
		replay := c
		replay.Warehouse = w.Warehouse
		options = append(options, quickReply(w.Warehouse+" "+totals, command.FormatChange(replay)))
	}
	return dto.Reply{Text: b.String(), QuickReplies: options}
}

func confirmationReply(p *entity.Product, c command.Change, warehouse string, stock *entity.StockLevel) dto.Reply {
	var b strings.Builder
	if c.Action == entity.ActionOut {
		b.WriteString("出庫完成\n")
	} else {
		b.WriteString("入庫完成\n")
	}
	fmt.Fprintf(&b, "品名：%s（%s）\n", p.Name, p.SKU)
	fmt.Fprintf(&b, "數量：%s\n", inventory.FormatQuantity(int(c.Box), int(c.Piece)))
	if c.Action == entity.ActionOut {
		fmt.Fprintf(&b, "倉庫：%s\n", warehouse)
	}
	b.WriteString("目前庫存：")
	b.WriteString(formatStock(stock))
	return dto.TextReply(b.String())
}

func partialReply(p *entity.Product, o MutationOutcome) dto.Reply {
	var b strings.Builder
	fmt.Fprintf(&b, msgOperationFailed, errorMessage(o.Err))
	fmt.Fprintf(&b, "\n注意：%s（%s）已出庫 %s，其餘數量未出庫。", p.Name, p.SKU,
		inventory.FormatQuantity(o.AppliedBox, o.AppliedPiece))
	b.WriteString("\n目前庫存：")
	b.WriteString(formatStock(o.Stock))
	return dto.TextReply(b.String())
}

func failureReply(err error) dto.Reply {
	return dto.TextReply(fmt.Sprintf(msgOperationFailed, errorMessage(err)))
}

func formatStock(s *entity.StockLevel) string {
	if s == nil {
		return msgStockUnavailable
	}
	return inventory.FormatQuantity(s.Box, s.Piece)
}

func errorMessage(err error) string {
	switch {
	case err == nil || err.Error() == "":
		return msgUnknownError
	case errors.Is(err, domain.ErrIdentityNotMapped):
		return msgNotMapped
	case errors.Is(err, domain.ErrInsufficientStock):
		return msgInsufficient
	default:
		return err.Error()
	}
}

// quickReply recorta la etiqueta a dto.MaxQuickReplyLabel caracteres (runas, no bytes).
func quickReply(label, text string) dto.QuickReplyOption {
	r := []rune(strings.TrimSpace(label))
	if len(r) > dto.MaxQuickReplyLabel {
		r = r[:dto.MaxQuickReplyLabel]
	}
	return dto.QuickReplyOption{Label: string(r), Text: text}
}

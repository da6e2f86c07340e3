package dto

import "github.com/jhoicas/inventario-bot/internal/domain/entity"

// InboundEvent evento de chat ya normalizado para el caso de uso del bot.
type InboundEvent struct {
	EventID    string
	ReplyToken string
	IsText     bool
	Text       string
	Identity   entity.Identity
}

// MaxQuickReplyLabel largo máximo (en caracteres) de la etiqueta de una respuesta rápida.
const MaxQuickReplyLabel = 20

// QuickReplyOption botón sugerido: al tocarlo el usuario envía Text.
type QuickReplyOption struct {
	Label string
	Text  string
}

// Reply mensaje saliente: texto y opcionalmente respuestas rápidas.
type Reply struct {
	Text         string
	QuickReplies []QuickReplyOption
}

// TextReply respuesta de solo texto.
func TextReply(text string) Reply {
	return Reply{Text: text}
}

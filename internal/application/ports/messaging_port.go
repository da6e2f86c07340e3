package ports

import (
	"context"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
)

// ReplySender puerto de salida hacia la plataforma de mensajería.
// Un evento recibe como máximo una respuesta, dirigida por su reply token.
type ReplySender interface {
	Reply(ctx context.Context, replyToken string, reply dto.Reply) error
}

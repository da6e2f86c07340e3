package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
	"github.com/jhoicas/inventario-bot/internal/infrastructure/line"
)

// SignatureMiddleware verifica la firma HMAC del cuerpo del webhook.
// Con channelSecret vacío y required=false deja pasar todo (desarrollo local).
func SignatureMiddleware(channelSecret string, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if channelSecret == "" {
			if required {
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: "LINE_CHANNEL_SECRET no configurado"})
			}
			return c.Next()
		}
		signature := c.Get(line.SignatureHeader)
		if signature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_SIGNATURE", Message: line.SignatureHeader + " requerido"})
		}
		if !line.ValidSignature(channelSecret, c.Body(), signature) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma inválida"})
		}
		return c.Next()
	}
}

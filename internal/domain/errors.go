package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrInsufficientStock un movimiento dejaría stock negativo (restricción CHECK del esquema).
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrIdentityNotMapped el usuario de chat no tiene un usuario equivalente en el sistema de inventario
	// (requisito del consumo FIFO de lotes).
	ErrIdentityNotMapped = errors.New("usuario de chat sin vínculo con el sistema de inventario")
)

package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-bot/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// rpcError error de un procedimiento remoto. Error() devuelve solo el mensaje del servidor
// (se muestra tal cual al operador); el error original queda accesible con errors.Unwrap.
type rpcError struct {
	msg string
	err error
}

func (e *rpcError) Error() string { return e.msg }

func (e *rpcError) Unwrap() error { return e.err }

// wrapRPC conserva el mensaje de RAISE EXCEPTION de PostgreSQL; otros errores (red, pool) se
// envuelven con el nombre de la operación.
func wrapRPC(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23514" { // check_violation: stock negativo
			return &rpcError{msg: pgErr.Message, err: fmt.Errorf("%w: %w", domain.ErrInsufficientStock, err)}
		}
		if pgErr.Message != "" {
			return &rpcError{msg: pgErr.Message, err: err}
		}
	}
	return &rpcError{msg: op + ": " + err.Error(), err: err}
}

// likePattern arma el patrón de ILIKE escapando comodines del texto del usuario.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

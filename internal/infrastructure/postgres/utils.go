package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/copypoint/copypoint-api/internal/domain"
)

// Querier abstrae pool y transacción: los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// mapStorageErr traduce fallas de infraestructura a errores de dominio:
// timeouts de bloqueo o de consulta -> ErrOperationTimeout; el resto de los
// errores (incluidos los de negocio que vienen del callback) pasan sin tocar.
func mapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrOperationTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03": // lock_not_available (lock_timeout agotado)
			return domain.ErrOperationTimeout
		case "57014": // query_canceled (statement_timeout o cancelación por contexto)
			return domain.ErrOperationTimeout
		}
	}
	if pgconn.Timeout(err) {
		return domain.ErrOperationTimeout
	}
	return err
}

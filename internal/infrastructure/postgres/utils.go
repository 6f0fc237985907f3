package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier abstrae pgxpool.Pool y pgx.Tx: los repositorios aceptan cualquiera
// de los dos para poder atarse a una transacción (TxRunner).
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// isSchemaMismatch verifica si un error de PostgreSQL corresponde a una
// escritura que no coincide con el tipo/precisión declarado de la columna
// derivada (o la columna no existe todavía).
func isSchemaMismatch(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "42703", // undefined_column
		"42804", // datatype_mismatch
		"22P02", // invalid_text_representation
		"22003": // numeric_value_out_of_range
		return true
	}
	return false
}

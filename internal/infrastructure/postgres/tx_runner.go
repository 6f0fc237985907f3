package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appkpi "github.com/jhoicas/cadena-kpi/internal/application/kpi"
	"github.com/jhoicas/cadena-kpi/internal/domain/repository"
)

// Ensure TxRunner implements appkpi.TxRunner.
var _ appkpi.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Es el mecanismo de "todo o nada" del batch de persistencia: si el callback
// falla en cualquier punto se hace Rollback y ningún registro queda a medias.
type TxRunner struct {
	pool  *pgxpool.Pool
	table string
}

// NewTxRunner construye el runner con el pool y la tabla del dataset.
func NewTxRunner(pool *pgxpool.Pool, table string) *TxRunner {
	return &TxRunner{pool: pool, table: table}
}

// Run inicia una transacción, ejecuta fn con un repositorio atado a la tx y
// hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repo repository.SupplyRecordRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repo := NewSupplyRecordRepository(tx, r.table)
	if err := fn(repo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

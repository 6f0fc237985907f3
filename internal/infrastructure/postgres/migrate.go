package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cadena-kpi/internal/domain/repository"
)

var _ repository.SchemaMigrator = (*SchemaMigrator)(nil)

// SchemaMigrator agrega las columnas derivadas a la tabla del dataset.
// ADD COLUMN IF NOT EXISTS hace la migración idempotente: re-ejecutarla sobre
// un esquema ya migrado es un no-op.
type SchemaMigrator struct {
	q     Querier
	table string
}

// NewSchemaMigrator construye el migrador para la tabla indicada.
func NewSchemaMigrator(q Querier, table string) *SchemaMigrator {
	return &SchemaMigrator{q: q, table: pgx.Identifier{table}.Sanitize()}
}

// derivedColumns: decimales con 2 de precisión o categóricas cortas.
// days_sales_of_inventory se deja NUMERIC como el resto de decimales;
// ver DESIGN.md.
var derivedColumns = []struct {
	name string
	typ  string
}{
	{"eoq", "NUMERIC(14,2)"},
	{"daily_demand", "NUMERIC(14,2)"},
	{"lead_time_demand", "NUMERIC(14,2)"},
	{"safety_stock", "NUMERIC(14,2)"},
	{"reorder_point", "NUMERIC(14,2)"},
	{"inventory_turnover", "NUMERIC(14,2)"},
	{"days_sales_of_inventory", "NUMERIC(14,2)"},
	{"low_stock_status", "TEXT"},
	{"overstock_status", "TEXT"},
	{"movement_flag", "TEXT"},
}

// EnsureDerivedColumns agrega cada columna derivada si no existe todavía.
func (m *SchemaMigrator) EnsureDerivedColumns(ctx context.Context) error {
	for _, col := range derivedColumns {
		stmt := fmt.Sprintf(
			"ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s",
			m.table, pgx.Identifier{col.name}.Sanitize(), col.typ,
		)
		if _, err := m.q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure column %s: %w", col.name, err)
		}
	}
	return nil
}

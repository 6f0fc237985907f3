package repository

import (
	"context"

	"github.com/jhoicas/cadena-kpi/internal/domain/entity"
)

// SupplyRecordRepository define el puerto de persistencia del dataset (DIP).
// El motor trata al almacenamiento como colaborador externo: lectura masiva y
// actualización por clave de las columnas derivadas.
type SupplyRecordRepository interface {
	// ListAll devuelve todos los registros con sus campos fuente, en orden
	// estable por SKU.
	ListAll(ctx context.Context) ([]entity.SupplyRecord, error)

	// UpdateDerived escribe las métricas derivadas de cada SKU del batch.
	// Un SKU inexistente devuelve domain.ErrRecordNotFound y toda la
	// operación debe abortar sin escrituras parciales (el caller la envuelve
	// en una transacción vía TxRunner).
	UpdateDerived(ctx context.Context, updates []entity.DerivedUpdate) error
}

// SchemaMigrator agrega las columnas derivadas al dataset de forma
// idempotente: agregar una columna ya existente es un no-op, no un error.
type SchemaMigrator interface {
	EnsureDerivedColumns(ctx context.Context) error
}

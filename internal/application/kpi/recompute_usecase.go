// Package kpi contiene los casos de uso del motor de KPIs: el recálculo
// persistido (batch transaccional) y el reporte de lectura.
package kpi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cadena-kpi/internal/application/dto"
	"github.com/jhoicas/cadena-kpi/internal/domain/entity"
	domainkpi "github.com/jhoicas/cadena-kpi/internal/domain/kpi"
	"github.com/jhoicas/cadena-kpi/internal/domain/repository"
)

// TxRunner ejecuta un callback con un repositorio atado a una transacción.
// Commit solo si el callback devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.SupplyRecordRepository) error) error
}

// RecomputeUseCase recalcula todos los campos derivados de todos los registros
// y los persiste en una única transacción (todo o nada).
//
// Los campos derivados son una proyección pura de los campos fuente: la
// corrida es determinista e idempotente, y con escritores concurrentes aplica
// last-writer-wins sin pérdida de información.
type RecomputeUseCase struct {
	reader   repository.SupplyRecordRepository
	migrator repository.SchemaMigrator
	txRunner TxRunner
}

// NewRecomputeUseCase construye el caso de uso. reader opera fuera de la
// transacción (lectura masiva); las escrituras pasan por txRunner.
func NewRecomputeUseCase(
	reader repository.SupplyRecordRepository,
	migrator repository.SchemaMigrator,
	txRunner TxRunner,
) *RecomputeUseCase {
	return &RecomputeUseCase{
		reader:   reader,
		migrator: migrator,
		txRunner: txRunner,
	}
}

// Recompute ejecuta la corrida completa:
//
//  1. Migración idempotente de columnas derivadas (no-op si ya existen).
//  2. Lectura masiva de los campos fuente.
//  3. Cálculo de la proyección derivada por registro (en memoria).
//  4. Escritura del batch completo dentro de una sola transacción.
//
// Un fallo en cualquier punto aborta la corrida entera de forma visible;
// nunca se produce un resultado parcial en silencio.
func (uc *RecomputeUseCase) Recompute(ctx context.Context) (*dto.RecomputeResultDTO, error) {
	start := time.Now()
	runID := uuid.New().String()

	if err := uc.migrator.EnsureDerivedColumns(ctx); err != nil {
		return nil, fmt.Errorf("recompute %s: migración de columnas: %w", runID, err)
	}

	records, err := uc.reader.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("recompute %s: lectura del dataset: %w", runID, err)
	}

	// El batch se arma completo en memoria antes de abrir la transacción:
	// la escritura es una sola operación por clave, nunca fila a fila con
	// exposición de fallos parciales.
	batch := make([]entity.DerivedUpdate, 0, len(records))
	for _, rec := range records {
		batch = append(batch, entity.DerivedUpdate{
			SKU:     rec.SKU,
			Metrics: domainkpi.ComputeDerived(rec),
		})
	}

	if err := uc.txRunner.Run(ctx, func(repo repository.SupplyRecordRepository) error {
		return repo.UpdateDerived(ctx, batch)
	}); err != nil {
		return nil, fmt.Errorf("recompute %s: persistencia del batch: %w", runID, err)
	}

	now := time.Now()
	return &dto.RecomputeResultDTO{
		RunID:       runID,
		Records:     len(records),
		Duration:    now.Sub(start),
		DurationMS:  now.Sub(start).Milliseconds(),
		CompletedAt: now,
	}, nil
}

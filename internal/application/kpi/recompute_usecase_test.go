package kpi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkpi "github.com/jhoicas/cadena-kpi/internal/application/kpi"
	"github.com/jhoicas/cadena-kpi/internal/domain/entity"
	domainkpi "github.com/jhoicas/cadena-kpi/internal/domain/kpi"
	"github.com/jhoicas/cadena-kpi/internal/domain/repository"
)

// fakeStore simula la tabla: campos fuente inmutables y métricas derivadas
// visibles solo tras el commit. El txRunner falso escribe en un staging que
// se fusiona al commit y se descarta en el rollback, reproduciendo la
// semántica todo-o-nada de la transacción real.
type fakeStore struct {
	source    []entity.SupplyRecord
	committed map[string]entity.DerivedMetrics

	migrations int
	listErr    error
	failAtSKU  string // UpdateDerived falla al llegar a este SKU
}

func newFakeStore(source ...entity.SupplyRecord) *fakeStore {
	return &fakeStore{
		source:    source,
		committed: make(map[string]entity.DerivedMetrics),
	}
}

func (s *fakeStore) EnsureDerivedColumns(_ context.Context) error {
	s.migrations++
	return nil
}

// fakeRepo atiende lecturas desde el store y escrituras sobre staging.
// Con staging nil es un repo de solo lectura (el reader fuera de transacción).
type fakeRepo struct {
	store   *fakeStore
	staging map[string]entity.DerivedMetrics
}

func (r *fakeRepo) ListAll(_ context.Context) ([]entity.SupplyRecord, error) {
	if r.store.listErr != nil {
		return nil, r.store.listErr
	}
	out := make([]entity.SupplyRecord, len(r.store.source))
	copy(out, r.store.source)
	return out, nil
}

func (r *fakeRepo) UpdateDerived(_ context.Context, updates []entity.DerivedUpdate) error {
	for _, u := range updates {
		if u.SKU == r.store.failAtSKU {
			return errors.New("fallo simulado a mitad del batch")
		}
		r.staging[u.SKU] = u.Metrics
	}
	return nil
}

type fakeTxRunner struct {
	store *fakeStore
	runs  int
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(repo repository.SupplyRecordRepository) error) error {
	t.runs++
	staging := make(map[string]entity.DerivedMetrics)
	if err := fn(&fakeRepo{store: t.store, staging: staging}); err != nil {
		return err // rollback: el staging se descarta
	}
	for sku, m := range staging {
		t.store.committed[sku] = m
	}
	return nil
}

func sourceRecord(sku string, price, sold, shipping, revenue, stock, leadTime float64) entity.SupplyRecord {
	return entity.SupplyRecord{
		SKU:                  sku,
		Price:                decimal.NewFromFloat(price),
		NumberOfProductsSold: decimal.NewFromFloat(sold),
		ShippingCosts:        decimal.NewFromFloat(shipping),
		RevenueGenerated:     decimal.NewFromFloat(revenue),
		StockLevels:          decimal.NewFromFloat(stock),
		LeadTime:             decimal.NewFromFloat(leadTime),
	}
}

func TestRecompute_PersisteTodosLosRegistros(t *testing.T) {
	store := newFakeStore(
		sourceRecord("A1", 25, 730, 50, 1500, 300, 20),
		sourceRecord("B2", 10, 100, 5, 250, 40, 5),
	)
	tx := &fakeTxRunner{store: store}
	uc := appkpi.NewRecomputeUseCase(&fakeRepo{store: store}, store, tx)

	result, err := uc.Recompute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Records)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, store.migrations, "la migración corre una vez por corrida")
	assert.Equal(t, 1, tx.runs, "todas las escrituras van en una sola transacción")

	require.Contains(t, store.committed, "A1")
	require.Contains(t, store.committed, "B2")

	a1 := store.committed["A1"]
	require.True(t, a1.EOQ.Valid)
	assert.Equal(t, "120.83", a1.EOQ.Decimal.StringFixed(2))
	assert.Equal(t, "44.00", a1.ReorderPoint.StringFixed(2))
	assert.Equal(t, domainkpi.StatusOverstocked, a1.OverstockStatus)
}

// Un fallo a mitad del batch no deja escrituras parciales: los valores
// previos a la corrida siguen intactos para todos los registros.
func TestRecompute_FalloAMitadNoDejaParciales(t *testing.T) {
	store := newFakeStore(
		sourceRecord("A1", 25, 730, 50, 1500, 300, 20),
		sourceRecord("B2", 10, 100, 5, 250, 40, 5),
		sourceRecord("C3", 30, 200, 8, 900, 60, 12),
	)
	preRun := entity.DerivedMetrics{
		DailyDemand:    decimal.NewFromFloat(9.99),
		LowStockStatus: domainkpi.StatusStockSufficient,
	}
	for _, sku := range []string{"A1", "B2", "C3"} {
		store.committed[sku] = preRun
	}
	store.failAtSKU = "B2"

	tx := &fakeTxRunner{store: store}
	uc := appkpi.NewRecomputeUseCase(&fakeRepo{store: store}, store, tx)

	_, err := uc.Recompute(context.Background())
	require.Error(t, err, "el fallo aborta la corrida de forma visible")

	for _, sku := range []string{"A1", "B2", "C3"} {
		assert.Equal(t, preRun, store.committed[sku], "sku %s conserva los valores previos", sku)
	}
}

func TestRecompute_ErrorDeLecturaNoAbreTransaccion(t *testing.T) {
	store := newFakeStore(sourceRecord("A1", 25, 730, 50, 1500, 300, 20))
	store.listErr = errors.New("conexión perdida")

	tx := &fakeTxRunner{store: store}
	uc := appkpi.NewRecomputeUseCase(&fakeRepo{store: store}, store, tx)

	_, err := uc.Recompute(context.Background())
	require.Error(t, err)
	assert.Zero(t, tx.runs, "sin lectura no hay nada que escribir")
	assert.Empty(t, store.committed)
}

// Dos corridas sobre el mismo dataset producen métricas idénticas: los campos
// derivados son una función pura de los campos fuente.
func TestRecompute_Idempotente(t *testing.T) {
	store := newFakeStore(
		sourceRecord("A1", 25, 730, 50, 1500, 300, 20),
		sourceRecord("B2", 12.5, 41, 7.3, 893.77, 58, 17),
	)
	tx := &fakeTxRunner{store: store}
	uc := appkpi.NewRecomputeUseCase(&fakeRepo{store: store}, store, tx)

	_, err := uc.Recompute(context.Background())
	require.NoError(t, err)
	first := map[string]entity.DerivedMetrics{}
	for sku, m := range store.committed {
		first[sku] = m
	}

	_, err = uc.Recompute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, store.committed)
}

func TestRecompute_DatasetVacio(t *testing.T) {
	store := newFakeStore()
	tx := &fakeTxRunner{store: store}
	uc := appkpi.NewRecomputeUseCase(&fakeRepo{store: store}, store, tx)

	result, err := uc.Recompute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Records)
	assert.Empty(t, store.committed)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cadena-kpi/internal/domain"
	"github.com/jhoicas/cadena-kpi/internal/domain/entity"
	"github.com/jhoicas/cadena-kpi/internal/domain/repository"
)

var _ repository.SupplyRecordRepository = (*SupplyRecordRepo)(nil)

// SupplyRecordRepo implementación del puerto SupplyRecordRepository sobre
// PostgreSQL (usable con pool o tx).
type SupplyRecordRepo struct {
	q     Querier
	table string
}

// NewSupplyRecordRepository construye el adaptador del dataset. Pasar pool o
// tx (Querier) y el nombre de la tabla (se sanitiza como identificador).
func NewSupplyRecordRepository(q Querier, table string) *SupplyRecordRepo {
	return &SupplyRecordRepo{q: q, table: pgx.Identifier{table}.Sanitize()}
}

// ListAll lee todos los registros fuente del dataset en orden estable por SKU.
func (r *SupplyRecordRepo) ListAll(ctx context.Context) ([]entity.SupplyRecord, error) {
	query := fmt.Sprintf(`
		SELECT sku, product_type, price, number_of_products_sold, revenue_generated,
		       customer_demographics, stock_levels, lead_times, shipping_times,
		       shipping_carriers, shipping_costs, supplier_name, location,
		       production_volumes, manufacturing_costs, defect_rates,
		       transportation_modes, routes, costs
		FROM %s ORDER BY sku`, r.table)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list supply records: %w", err)
	}
	defer rows.Close()

	var list []entity.SupplyRecord
	for rows.Next() {
		var rec entity.SupplyRecord
		if err := rows.Scan(
			&rec.SKU, &rec.ProductType, &rec.Price, &rec.NumberOfProductsSold, &rec.RevenueGenerated,
			&rec.CustomerDemographics, &rec.StockLevels, &rec.LeadTime, &rec.ShippingTimes,
			&rec.ShippingCarriers, &rec.ShippingCosts, &rec.SupplierName, &rec.Location,
			&rec.ProductionVolumes, &rec.ManufacturingCosts, &rec.DefectRates,
			&rec.TransportationModes, &rec.Routes, &rec.Costs,
		); err != nil {
			return nil, fmt.Errorf("scan supply record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// UpdateDerived escribe las métricas derivadas de todo el batch con pgx.Batch.
// No abre transacción propia: el caller decide el alcance transaccional
// (TxRunner para el recálculo atómico). Un SKU inexistente o una violación de
// tipo de columna aborta con error; nada queda a medias porque el tx hace
// rollback completo.
func (r *SupplyRecordRepo) UpdateDerived(ctx context.Context, updates []entity.DerivedUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			eoq = $2,
			daily_demand = $3,
			lead_time_demand = $4,
			safety_stock = $5,
			reorder_point = $6,
			inventory_turnover = $7,
			days_sales_of_inventory = $8,
			low_stock_status = $9,
			overstock_status = $10,
			movement_flag = $11
		WHERE sku = $1`, r.table)

	batch := &pgx.Batch{}
	for _, u := range updates {
		m := u.Metrics
		batch.Queue(query,
			u.SKU, m.EOQ, m.DailyDemand, m.LeadTimeDemand, m.SafetyStock,
			m.ReorderPoint, m.InventoryTurnover, m.DaysSalesOfInventory,
			m.LowStockStatus, m.OverstockStatus, m.MovementFlag,
		)
	}

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()

	for _, u := range updates {
		cmd, err := results.Exec()
		if err != nil {
			if isSchemaMismatch(err) {
				return fmt.Errorf("update derived sku=%s (%v): %w", u.SKU, err, domain.ErrSchemaMismatch)
			}
			return fmt.Errorf("update derived sku=%s: %w", u.SKU, err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("update derived sku=%s: %w", u.SKU, domain.ErrRecordNotFound)
		}
	}
	return results.Close()
}

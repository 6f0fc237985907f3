package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Baselines globales ────────────────────────────────────────────────────────

// BaselinesDTO promedios globales del dataset que alimentan las reglas compuestas.
type BaselinesDTO struct {
	MeanRevenue      decimal.Decimal `json:"mean_revenue"`
	MeanShippingCost decimal.Decimal `json:"mean_shipping_cost"`
	MeanShippingTime decimal.Decimal `json:"mean_shipping_time"`
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// SupplierLeadTimeDTO lead time promedio por (proveedor, ubicación).
type SupplierLeadTimeDTO struct {
	Supplier    string          `json:"supplier"`
	Location    string          `json:"location"`
	AvgLeadTime decimal.Decimal `json:"avg_lead_time"`
	Records     int             `json:"records"`
}

// SupplierMetricsDTO métricas agrupadas por proveedor.
type SupplierMetricsDTO struct {
	Supplier           string              `json:"supplier"`
	Records            int                 `json:"records"`
	AvgLeadTime        decimal.Decimal     `json:"avg_lead_time"`
	MedianLeadTime     decimal.Decimal     `json:"median_lead_time"`     // percentil 50 interpolado
	LeadTimeDeviation  decimal.Decimal     `json:"lead_time_deviation"`  // desviación absoluta media
	Reliability        string              `json:"reliability"`          // Reliable | Moderate | Unreliable
	WeightedDefectRate decimal.NullDecimal `json:"weighted_defect_rate"` // null si no hay volumen
	CostPerUnit        decimal.NullDecimal `json:"cost_per_unit"`        // null si no hay volumen
	Insight            string              `json:"insight"`
}

// ── Logística ─────────────────────────────────────────────────────────────────

// CarrierMetricsDTO métricas por transportista.
type CarrierMetricsDTO struct {
	Carrier         string          `json:"carrier"`
	Shipments       int             `json:"shipments"`
	AvgShippingTime decimal.Decimal `json:"avg_shipping_time"`
	AvgShippingCost decimal.Decimal `json:"avg_shipping_cost"`
	CostFlag        string          `json:"cost_flag"` // High Cost | Efficient
}

// RouteMetricsDTO costo promedio por ruta y modo de transporte.
type RouteMetricsDTO struct {
	Route              string          `json:"route"`
	TransportationMode string          `json:"transportation_mode"`
	Shipments          int             `json:"shipments"`
	AvgCost            decimal.Decimal `json:"avg_cost"`
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// RevenueGroupDTO ingreso total y conteo de registros por categoría.
type RevenueGroupDTO struct {
	Key     string          `json:"key"`
	Revenue decimal.Decimal `json:"revenue"`
	Records int             `json:"records"`
}

// DemographicMetricsDTO ingresos y tiempos de envío por segmento demográfico.
type DemographicMetricsDTO struct {
	Demographic     string          `json:"demographic"`
	Records         int             `json:"records"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	AvgRevenue      decimal.Decimal `json:"avg_revenue"`
	AvgShippingTime decimal.Decimal `json:"avg_shipping_time"`
	Insight         string          `json:"insight"`
}

// ProductEconomicsDTO proyección de lectura por producto (no se persiste).
type ProductEconomicsDTO struct {
	Rank                int                 `json:"rank"` // 1 = más vendido
	SKU                 string              `json:"sku"`
	ProductType         string              `json:"product_type"`
	UnitsSold           decimal.Decimal     `json:"units_sold"`
	Revenue             decimal.Decimal     `json:"revenue"`
	PriceBand           string              `json:"price_band"` // Low | Medium | High
	Profitability       decimal.Decimal     `json:"profitability"`
	ShippingCostPerUnit decimal.NullDecimal `json:"shipping_cost_per_unit"` // null sin ventas
}

// OverstockRiskDTO registros marcados por la regla compuesta de sobrestock.
type OverstockRiskDTO struct {
	SKU      string              `json:"sku"`
	Turnover decimal.NullDecimal `json:"inventory_turnover"`
	Revenue  decimal.Decimal     `json:"revenue"`
	Insight  string              `json:"insight"`
}

// ── Reporte combinado ─────────────────────────────────────────────────────────

// SupplyChainReportDTO reporte completo de KPIs para el consumidor BI.
type SupplyChainReportDTO struct {
	GeneratedAt          time.Time               `json:"generated_at"`
	RecordCount          int                     `json:"record_count"`
	Baselines            BaselinesDTO            `json:"baselines"`
	Suppliers            []SupplierMetricsDTO    `json:"suppliers"`
	SupplierLeadTimes    []SupplierLeadTimeDTO   `json:"supplier_lead_times"`
	Carriers             []CarrierMetricsDTO     `json:"carriers"`
	Routes               []RouteMetricsDTO       `json:"routes"`
	RevenueByProductType []RevenueGroupDTO       `json:"revenue_by_product_type"`
	Demographics         []DemographicMetricsDTO `json:"demographics"`
	TopProducts          []ProductEconomicsDTO   `json:"top_products"`
	OverstockRisks       []OverstockRiskDTO      `json:"overstock_risks"`
}

// RecomputeResultDTO resumen de una corrida de recálculo.
type RecomputeResultDTO struct {
	RunID       string        `json:"run_id"`
	Records     int           `json:"records"`
	Duration    time.Duration `json:"-"`
	DurationMS  int64         `json:"duration_ms"`
	CompletedAt time.Time     `json:"completed_at"`
}

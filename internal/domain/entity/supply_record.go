package entity

import "github.com/shopspring/decimal"

// SupplyRecord es una fila del dataset de cadena de suministro, única por SKU.
// Contiene solo los campos fuente: son inmutables para el motor de KPIs y
// provienen de la carga externa del dataset.
//
// Nota: el dataset de referencia duplica Lead_times / Lead_time para el mismo
// concepto; aquí se unifica en LeadTime (columna lead_times). Ver DESIGN.md.
type SupplyRecord struct {
	SKU                  string
	ProductType          string
	Price                decimal.Decimal // precio de venta (> 0)
	NumberOfProductsSold decimal.Decimal // unidades vendidas, anualizado
	RevenueGenerated     decimal.Decimal
	CustomerDemographics string
	StockLevels          decimal.Decimal
	LeadTime             decimal.Decimal // días
	ShippingTimes        decimal.Decimal // días
	ShippingCarriers     string
	ShippingCosts        decimal.Decimal
	SupplierName         string
	Location             string
	ProductionVolumes    decimal.Decimal
	ManufacturingCosts   decimal.Decimal
	DefectRates          decimal.Decimal // fracción 0–1
	TransportationModes  string
	Routes               string
	Costs                decimal.Decimal // costo a nivel de ruta
}

// DerivedMetrics es la proyección calculada de un SupplyRecord: siempre
// recomputable desde los campos fuente, nunca fuente de verdad independiente.
// Los campos numéricos con denominador que puede ser cero usan NullDecimal
// (Valid=false == indefinido, se persiste como NULL).
type DerivedMetrics struct {
	EOQ                  decimal.NullDecimal
	DailyDemand          decimal.Decimal
	LeadTimeDemand       decimal.Decimal
	SafetyStock          decimal.Decimal
	ReorderPoint         decimal.Decimal
	InventoryTurnover    decimal.NullDecimal
	DaysSalesOfInventory decimal.NullDecimal
	LowStockStatus       string
	OverstockStatus      string
	MovementFlag         string
}

// DerivedUpdate asocia un SKU con sus métricas recalculadas para el batch
// de persistencia.
type DerivedUpdate struct {
	SKU     string
	Metrics DerivedMetrics
}

package kpi

import "github.com/shopspring/decimal"

// Reglas compuestas: combinan una métrica agrupada con un promedio global.
// Los promedios globales llegan como parámetros (GlobalBaselines), nunca como
// estado del paquete.
const (
	InsightOverstockRisk    = "Overstock Risk"
	InsightSlowButHQSupply  = "High Quality, Slow Supply"
	InsightImproveDelivery  = "Improve Delivery to High-Value Customers"
	InsightStandardSupplier = "Standard"
)

var (
	turnoverRiskCap      = decimal.NewFromInt(1)
	slowSupplierLeadTime = decimal.NewFromInt(25)
	lowDefectRateCap     = decimal.NewFromFloat(0.01)
)

// OverstockRiskInsight marca riesgo de sobrestock cuando la rotación es menor
// a 1 y el ingreso supera el promedio global. Con rotación indefinida (stock
// en cero) no hay inventario que sobre: OK.
func OverstockRiskInsight(turnover decimal.NullDecimal, revenue, globalMeanRevenue decimal.Decimal) string {
	if turnover.Valid &&
		turnover.Decimal.LessThan(turnoverRiskCap) &&
		revenue.GreaterThan(globalMeanRevenue) {
		return InsightOverstockRisk
	}
	return StatusOK
}

// SupplierTradeoffInsight detecta proveedores de alta calidad pero lentos:
// lead time promedio > 25 días y tasa de defectos ponderada < 1%.
func SupplierTradeoffInsight(avgLeadTime decimal.Decimal, defectRate decimal.NullDecimal) string {
	if defectRate.Valid &&
		avgLeadTime.GreaterThan(slowSupplierLeadTime) &&
		defectRate.Decimal.LessThan(lowDefectRateCap) {
		return InsightSlowButHQSupply
	}
	return InsightStandardSupplier
}

// DeliveryImprovementInsight recomienda mejorar entregas para segmentos de
// alto valor: ingreso promedio del segmento sobre el global Y tiempo de envío
// promedio sobre el global.
func DeliveryImprovementInsight(avgRevenue, globalMeanRevenue, avgShippingTime, globalMeanShippingTime decimal.Decimal) string {
	if avgRevenue.GreaterThan(globalMeanRevenue) &&
		avgShippingTime.GreaterThan(globalMeanShippingTime) {
		return InsightImproveDelivery
	}
	return StatusOK
}

package kpi

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cadena-kpi/internal/domain/entity"
)

// Clasificación de confiabilidad del proveedor según la desviación absoluta
// media de sus lead times respecto a la mediana.
const (
	ReliabilityReliable   = "Reliable"
	ReliabilityModerate   = "Moderate"
	ReliabilityUnreliable = "Unreliable"
)

// Flag de costo del transportista contra el promedio global.
const (
	CarrierHighCost  = "High Cost"
	CarrierEfficient = "Efficient"
)

var (
	reliableMaxDeviation = decimal.NewFromInt(3)
	moderateMaxDeviation = decimal.NewFromInt(7)
)

// GlobalBaselines son los promedios globales del dataset que consumen las
// reglas compuestas. Se calculan una vez por corrida y se pasan como
// parámetros explícitos, nunca como estado ambiente.
type GlobalBaselines struct {
	MeanRevenue      decimal.Decimal
	MeanShippingCost decimal.Decimal
	MeanShippingTime decimal.Decimal
}

// ComputeBaselines calcula los promedios globales sobre todo el dataset.
func ComputeBaselines(records []entity.SupplyRecord) GlobalBaselines {
	return GlobalBaselines{
		MeanRevenue:      meanOf(records, func(r entity.SupplyRecord) decimal.Decimal { return r.RevenueGenerated }),
		MeanShippingCost: meanOf(records, func(r entity.SupplyRecord) decimal.Decimal { return r.ShippingCosts }),
		MeanShippingTime: meanOf(records, func(r entity.SupplyRecord) decimal.Decimal { return r.ShippingTimes }),
	}
}

// SupplierLeadTime es el lead time promedio por (proveedor, ubicación).
type SupplierLeadTime struct {
	Supplier    string
	Location    string
	AvgLeadTime decimal.Decimal
	Records     int
}

// SupplierMetrics agrupa por proveedor: confiabilidad de lead times,
// tasa de defectos ponderada por volumen y costo por unidad producida.
type SupplierMetrics struct {
	Supplier           string
	Records            int
	AvgLeadTime        decimal.Decimal
	MedianLeadTime     decimal.Decimal     // percentil 50 con interpolación lineal
	LeadTimeDeviation  decimal.Decimal     // desviación absoluta media respecto a la mediana
	Reliability        string              // Reliable / Moderate / Unreliable
	WeightedDefectRate decimal.NullDecimal // sum(vol×defectos)/sum(vol), 4 decimales
	CostPerUnit        decimal.NullDecimal // sum(costo_fabricación)/sum(vol)
	Insight            string              // regla compuesta calidad/velocidad
}

// CarrierMetrics agrupa por transportista.
type CarrierMetrics struct {
	Carrier         string
	Shipments       int
	AvgShippingTime decimal.Decimal
	AvgShippingCost decimal.Decimal
	CostFlag        string // High Cost / Efficient, contra el promedio global
}

// RouteMetrics es el costo promedio por (ruta, modo de transporte).
type RouteMetrics struct {
	Route              string
	TransportationMode string
	Shipments          int
	AvgCost            decimal.Decimal
}

// RevenueGroup es el ingreso total y conteo de registros por categoría.
type RevenueGroup struct {
	Key     string
	Revenue decimal.Decimal
	Records int
}

// DemographicMetrics extiende RevenueGroup con los promedios que consume la
// regla de mejora de entregas.
type DemographicMetrics struct {
	Demographic     string
	Records         int
	TotalRevenue    decimal.Decimal
	AvgRevenue      decimal.Decimal
	AvgShippingTime decimal.Decimal
	Insight         string
}

// Median devuelve el percentil 50 con interpolación lineal entre estadísticos
// de orden (percentil continuo): [2,4,6] → 4; [2,4,6,8] → 5.
// Con entrada vacía devuelve cero.
func Median(values []decimal.Decimal) decimal.Decimal {
	n := len(values)
	if n == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, n)
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(two)
}

// MeanAbsoluteDeviation es el promedio de |x − centro| sobre los valores.
func MeanAbsoluteDeviation(values []decimal.Decimal, center decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v.Sub(center).Abs())
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// classifyReliability aplica los umbrales de desviación: <3 Reliable,
// <7 Moderate, resto Unreliable.
func classifyReliability(deviation decimal.Decimal) string {
	switch {
	case deviation.LessThan(reliableMaxDeviation):
		return ReliabilityReliable
	case deviation.LessThan(moderateMaxDeviation):
		return ReliabilityModerate
	default:
		return ReliabilityUnreliable
	}
}

// AvgLeadTimeBySupplierLocation promedia el lead time por proveedor y ubicación.
func AvgLeadTimeBySupplierLocation(records []entity.SupplyRecord) []SupplierLeadTime {
	type key struct{ supplier, location string }
	groups := make(map[key][]entity.SupplyRecord)
	for _, r := range records {
		k := key{r.SupplierName, r.Location}
		groups[k] = append(groups[k], r)
	}

	out := make([]SupplierLeadTime, 0, len(groups))
	for k, rs := range groups {
		out = append(out, SupplierLeadTime{
			Supplier:    k.supplier,
			Location:    k.location,
			AvgLeadTime: meanOf(rs, func(r entity.SupplyRecord) decimal.Decimal { return r.LeadTime }).Round(2),
			Records:     len(rs),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Supplier != out[j].Supplier {
			return out[i].Supplier < out[j].Supplier
		}
		return out[i].Location < out[j].Location
	})
	return out
}

// SuppliersOverview calcula todas las métricas agrupadas por proveedor.
// La mediana y la desviación se computan de forma independiente por grupo.
func SuppliersOverview(records []entity.SupplyRecord) []SupplierMetrics {
	groups := groupBy(records, func(r entity.SupplyRecord) string { return r.SupplierName })

	out := make([]SupplierMetrics, 0, len(groups))
	for supplier, rs := range groups {
		leadTimes := make([]decimal.Decimal, len(rs))
		volumeWeightedDefects := decimal.Zero
		totalVolume := decimal.Zero
		totalManufacturing := decimal.Zero
		for i, r := range rs {
			leadTimes[i] = r.LeadTime
			volumeWeightedDefects = volumeWeightedDefects.Add(r.ProductionVolumes.Mul(r.DefectRates))
			totalVolume = totalVolume.Add(r.ProductionVolumes)
			totalManufacturing = totalManufacturing.Add(r.ManufacturingCosts)
		}

		median := Median(leadTimes)
		deviation := MeanAbsoluteDeviation(leadTimes, median)

		defectRate := Undefined()
		costPerUnit := Undefined()
		if !totalVolume.IsZero() {
			defectRate = Defined(volumeWeightedDefects.Div(totalVolume).Round(4))
			costPerUnit = Defined(totalManufacturing.Div(totalVolume).Round(2))
		}

		avgLeadTime := meanOf(rs, func(r entity.SupplyRecord) decimal.Decimal { return r.LeadTime })

		out = append(out, SupplierMetrics{
			Supplier:           supplier,
			Records:            len(rs),
			AvgLeadTime:        avgLeadTime.Round(2),
			MedianLeadTime:     median.Round(2),
			LeadTimeDeviation:  deviation.Round(2),
			Reliability:        classifyReliability(deviation),
			WeightedDefectRate: defectRate,
			CostPerUnit:        costPerUnit,
			Insight:            SupplierTradeoffInsight(avgLeadTime, defectRate),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Supplier < out[j].Supplier })
	return out
}

// CarriersOverview promedia tiempos y costos de envío por transportista y
// marca los transportistas por encima del costo promedio global.
func CarriersOverview(records []entity.SupplyRecord, globalMeanShippingCost decimal.Decimal) []CarrierMetrics {
	groups := groupBy(records, func(r entity.SupplyRecord) string { return r.ShippingCarriers })

	out := make([]CarrierMetrics, 0, len(groups))
	for carrier, rs := range groups {
		avgCost := meanOf(rs, func(r entity.SupplyRecord) decimal.Decimal { return r.ShippingCosts })
		flag := CarrierEfficient
		if avgCost.GreaterThan(globalMeanShippingCost) {
			flag = CarrierHighCost
		}
		out = append(out, CarrierMetrics{
			Carrier:         carrier,
			Shipments:       len(rs),
			AvgShippingTime: meanOf(rs, func(r entity.SupplyRecord) decimal.Decimal { return r.ShippingTimes }).Round(2),
			AvgShippingCost: avgCost.Round(2),
			CostFlag:        flag,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Carrier < out[j].Carrier })
	return out
}

// RoutesOverview promedia el costo por (ruta, modo de transporte).
func RoutesOverview(records []entity.SupplyRecord) []RouteMetrics {
	type key struct{ route, mode string }
	groups := make(map[key][]entity.SupplyRecord)
	for _, r := range records {
		k := key{r.Routes, r.TransportationModes}
		groups[k] = append(groups[k], r)
	}

	out := make([]RouteMetrics, 0, len(groups))
	for k, rs := range groups {
		out = append(out, RouteMetrics{
			Route:              k.route,
			TransportationMode: k.mode,
			Shipments:          len(rs),
			AvgCost:            meanOf(rs, func(r entity.SupplyRecord) decimal.Decimal { return r.Costs }).Round(2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Route != out[j].Route {
			return out[i].Route < out[j].Route
		}
		return out[i].TransportationMode < out[j].TransportationMode
	})
	return out
}

// RevenueByProductType suma ingresos y cuenta registros por tipo de producto.
func RevenueByProductType(records []entity.SupplyRecord) []RevenueGroup {
	groups := groupBy(records, func(r entity.SupplyRecord) string { return r.ProductType })

	out := make([]RevenueGroup, 0, len(groups))
	for productType, rs := range groups {
		out = append(out, RevenueGroup{
			Key:     productType,
			Revenue: sumOf(rs, func(r entity.SupplyRecord) decimal.Decimal { return r.RevenueGenerated }).Round(2),
			Records: len(rs),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DemographicsOverview agrupa por demografía del cliente e incluye la regla
// de mejora de entregas contra los promedios globales.
func DemographicsOverview(records []entity.SupplyRecord, baselines GlobalBaselines) []DemographicMetrics {
	groups := groupBy(records, func(r entity.SupplyRecord) string { return r.CustomerDemographics })

	out := make([]DemographicMetrics, 0, len(groups))
	for demographic, rs := range groups {
		avgRevenue := meanOf(rs, func(r entity.SupplyRecord) decimal.Decimal { return r.RevenueGenerated })
		avgShipTime := meanOf(rs, func(r entity.SupplyRecord) decimal.Decimal { return r.ShippingTimes })
		out = append(out, DemographicMetrics{
			Demographic:     demographic,
			Records:         len(rs),
			TotalRevenue:    sumOf(rs, func(r entity.SupplyRecord) decimal.Decimal { return r.RevenueGenerated }).Round(2),
			AvgRevenue:      avgRevenue.Round(2),
			AvgShippingTime: avgShipTime.Round(2),
			Insight:         DeliveryImprovementInsight(avgRevenue, baselines.MeanRevenue, avgShipTime, baselines.MeanShippingTime),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Demographic < out[j].Demographic })
	return out
}

// TopByVolume devuelve los n registros con más unidades vendidas, de mayor a
// menor. Desempata por SKU para que el orden sea estable entre corridas.
func TopByVolume(records []entity.SupplyRecord, n int) []entity.SupplyRecord {
	sorted := make([]entity.SupplyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].NumberOfProductsSold.Equal(sorted[j].NumberOfProductsSold) {
			return sorted[i].NumberOfProductsSold.GreaterThan(sorted[j].NumberOfProductsSold)
		}
		return sorted[i].SKU < sorted[j].SKU
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ── Helpers de agrupación ─────────────────────────────────────────────────────

func groupBy(records []entity.SupplyRecord, keyFn func(entity.SupplyRecord) string) map[string][]entity.SupplyRecord {
	groups := make(map[string][]entity.SupplyRecord)
	for _, r := range records {
		k := keyFn(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}

func sumOf(records []entity.SupplyRecord, field func(entity.SupplyRecord) decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(field(r))
	}
	return sum
}

func meanOf(records []entity.SupplyRecord, field func(entity.SupplyRecord) decimal.Decimal) decimal.Decimal {
	if len(records) == 0 {
		return decimal.Zero
	}
	return sumOf(records, field).Div(decimal.NewFromInt(int64(len(records))))
}

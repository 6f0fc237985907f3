package kpi_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cadena-kpi/internal/domain/entity"
	"github.com/jhoicas/cadena-kpi/internal/domain/kpi"
)

func decimals(vs ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

// Vectores de referencia de la mediana con interpolación lineal.
func TestMedian_Interpolada(t *testing.T) {
	assert.Equal(t, "4", kpi.Median(decimals(2, 4, 6)).String())
	assert.Equal(t, "5", kpi.Median(decimals(2, 4, 6, 8)).String())
	// La entrada no tiene que venir ordenada
	assert.Equal(t, "5", kpi.Median(decimals(8, 2, 6, 4)).String())
	assert.Equal(t, "7", kpi.Median(decimals(7)).String())
	assert.True(t, kpi.Median(nil).IsZero(), "mediana vacía es cero")
}

func TestMedian_NoMutaLaEntrada(t *testing.T) {
	in := decimals(8, 2, 6)
	_ = kpi.Median(in)
	assert.Equal(t, "8", in[0].String(), "la mediana ordena sobre una copia")
}

func TestMeanAbsoluteDeviation(t *testing.T) {
	values := decimals(2, 4, 6)
	center := kpi.Median(values)
	// (|2-4| + |4-4| + |6-4|) / 3 = 4/3
	mad := kpi.MeanAbsoluteDeviation(values, center)
	assert.Equal(t, "1.33", mad.Round(2).StringFixed(2))
	assert.True(t, kpi.MeanAbsoluteDeviation(nil, decimal.Zero).IsZero())
}

func supplierRecord(sku, supplier string, leadTime, volume, defectRate, manufacturing float64) entity.SupplyRecord {
	return entity.SupplyRecord{
		SKU:                sku,
		SupplierName:       supplier,
		LeadTime:           decimal.NewFromFloat(leadTime),
		ProductionVolumes:  decimal.NewFromFloat(volume),
		DefectRates:        decimal.NewFromFloat(defectRate),
		ManufacturingCosts: decimal.NewFromFloat(manufacturing),
	}
}

func TestSuppliersOverview_MetricasPonderadas(t *testing.T) {
	records := []entity.SupplyRecord{
		supplierRecord("A1", "Acme", 10, 100, 0.02, 500),
		supplierRecord("A2", "Acme", 20, 300, 0.01, 900),
	}

	out := kpi.SuppliersOverview(records)
	require.Len(t, out, 1)
	m := out[0]

	assert.Equal(t, "Acme", m.Supplier)
	assert.Equal(t, 2, m.Records)
	assert.Equal(t, "15.00", m.AvgLeadTime.StringFixed(2))
	assert.Equal(t, "15.00", m.MedianLeadTime.StringFixed(2))
	assert.Equal(t, "5.00", m.LeadTimeDeviation.StringFixed(2))
	assert.Equal(t, kpi.ReliabilityModerate, m.Reliability)

	// Tasa ponderada: (100×0.02 + 300×0.01) / 400 = 5/400 = 0.0125
	require.True(t, m.WeightedDefectRate.Valid)
	assert.Equal(t, "0.0125", m.WeightedDefectRate.Decimal.StringFixed(4))

	// Costo por unidad: (500+900)/400 = 3.50
	require.True(t, m.CostPerUnit.Valid)
	assert.Equal(t, "3.50", m.CostPerUnit.Decimal.StringFixed(2))
}

func TestSuppliersOverview_VolumenCeroIndefinido(t *testing.T) {
	records := []entity.SupplyRecord{
		supplierRecord("A1", "Acme", 10, 0, 0.02, 500),
	}

	out := kpi.SuppliersOverview(records)
	require.Len(t, out, 1)
	assert.False(t, out[0].WeightedDefectRate.Valid, "sin volumen la tasa ponderada es indefinida")
	assert.False(t, out[0].CostPerUnit.Valid)
}

func TestSuppliersOverview_ClasesDeConfiabilidad(t *testing.T) {
	cases := []struct {
		name      string
		leadTimes []float64
		want      string
	}{
		{"reliable", []float64{10, 12, 11}, kpi.ReliabilityReliable},        // desviación < 3
		{"moderate", []float64{10, 20}, kpi.ReliabilityModerate},            // desviación 5
		{"unreliable", []float64{5, 25}, kpi.ReliabilityUnreliable},         // desviación 10
		{"una sola medición", []float64{40}, kpi.ReliabilityReliable},       // desviación 0
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records := make([]entity.SupplyRecord, len(tc.leadTimes))
			for i, lt := range tc.leadTimes {
				records[i] = supplierRecord("S", "Proveedor", lt, 10, 0.01, 10)
			}
			out := kpi.SuppliersOverview(records)
			require.Len(t, out, 1)
			assert.Equal(t, tc.want, out[0].Reliability)
		})
	}
}

func TestSuppliersOverview_OrdenadoPorProveedor(t *testing.T) {
	records := []entity.SupplyRecord{
		supplierRecord("A1", "Zeta", 10, 10, 0.01, 10),
		supplierRecord("A2", "Acme", 10, 10, 0.01, 10),
	}
	out := kpi.SuppliersOverview(records)
	require.Len(t, out, 2)
	assert.Equal(t, "Acme", out[0].Supplier)
	assert.Equal(t, "Zeta", out[1].Supplier)
}

func TestCarriersOverview_FlagDeCosto(t *testing.T) {
	records := []entity.SupplyRecord{
		{SKU: "A1", ShippingCarriers: "Caro", ShippingCosts: decimal.NewFromInt(30), ShippingTimes: decimal.NewFromInt(4)},
		{SKU: "A2", ShippingCarriers: "Barato", ShippingCosts: decimal.NewFromInt(10), ShippingTimes: decimal.NewFromInt(6)},
	}
	globalMean := decimal.NewFromInt(20)

	out := kpi.CarriersOverview(records, globalMean)
	require.Len(t, out, 2)

	// Orden alfabético: Barato, Caro
	assert.Equal(t, "Barato", out[0].Carrier)
	assert.Equal(t, kpi.CarrierEfficient, out[0].CostFlag)
	assert.Equal(t, "Caro", out[1].Carrier)
	assert.Equal(t, kpi.CarrierHighCost, out[1].CostFlag)
	assert.Equal(t, "30.00", out[1].AvgShippingCost.StringFixed(2))
}

func TestCarriersOverview_CostoIgualAlPromedioNoMarca(t *testing.T) {
	records := []entity.SupplyRecord{
		{SKU: "A1", ShippingCarriers: "Justo", ShippingCosts: decimal.NewFromInt(20)},
	}
	out := kpi.CarriersOverview(records, decimal.NewFromInt(20))
	require.Len(t, out, 1)
	assert.Equal(t, kpi.CarrierEfficient, out[0].CostFlag, "el flag exige superar estrictamente el promedio")
}

func TestRoutesOverview_AgrupaPorRutaYModo(t *testing.T) {
	records := []entity.SupplyRecord{
		{SKU: "A1", Routes: "Ruta A", TransportationModes: "Road", Costs: decimal.NewFromInt(100)},
		{SKU: "A2", Routes: "Ruta A", TransportationModes: "Road", Costs: decimal.NewFromInt(200)},
		{SKU: "A3", Routes: "Ruta A", TransportationModes: "Air", Costs: decimal.NewFromInt(900)},
	}

	out := kpi.RoutesOverview(records)
	require.Len(t, out, 2)
	assert.Equal(t, "Air", out[0].TransportationMode)
	assert.Equal(t, "900.00", out[0].AvgCost.StringFixed(2))
	assert.Equal(t, "Road", out[1].TransportationMode)
	assert.Equal(t, 2, out[1].Shipments)
	assert.Equal(t, "150.00", out[1].AvgCost.StringFixed(2))
}

func TestRevenueByProductType(t *testing.T) {
	records := []entity.SupplyRecord{
		{SKU: "A1", ProductType: "haircare", RevenueGenerated: decimal.NewFromFloat(100.5)},
		{SKU: "A2", ProductType: "haircare", RevenueGenerated: decimal.NewFromFloat(200.25)},
		{SKU: "A3", ProductType: "skincare", RevenueGenerated: decimal.NewFromInt(50)},
	}

	out := kpi.RevenueByProductType(records)
	require.Len(t, out, 2)
	assert.Equal(t, "haircare", out[0].Key)
	assert.Equal(t, "300.75", out[0].Revenue.StringFixed(2))
	assert.Equal(t, 2, out[0].Records)
	assert.Equal(t, "skincare", out[1].Key)
}

func TestDemographicsOverview_ReglaDeEntregas(t *testing.T) {
	records := []entity.SupplyRecord{
		{SKU: "A1", CustomerDemographics: "Female", RevenueGenerated: decimal.NewFromInt(2000), ShippingTimes: decimal.NewFromInt(9)},
		{SKU: "A2", CustomerDemographics: "Male", RevenueGenerated: decimal.NewFromInt(500), ShippingTimes: decimal.NewFromInt(3)},
	}
	baselines := kpi.GlobalBaselines{
		MeanRevenue:      decimal.NewFromInt(1000),
		MeanShippingTime: decimal.NewFromInt(5),
	}

	out := kpi.DemographicsOverview(records, baselines)
	require.Len(t, out, 2)

	assert.Equal(t, "Female", out[0].Demographic)
	assert.Equal(t, kpi.InsightImproveDelivery, out[0].Insight)
	assert.Equal(t, "Male", out[1].Demographic)
	assert.Equal(t, kpi.StatusOK, out[1].Insight)
}

func TestTopByVolume_OrdenYDesempate(t *testing.T) {
	records := []entity.SupplyRecord{
		{SKU: "C3", NumberOfProductsSold: decimal.NewFromInt(100)},
		{SKU: "A1", NumberOfProductsSold: decimal.NewFromInt(500)},
		{SKU: "B2", NumberOfProductsSold: decimal.NewFromInt(500)},
		{SKU: "D4", NumberOfProductsSold: decimal.NewFromInt(50)},
	}

	top := kpi.TopByVolume(records, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "A1", top[0].SKU, "empate en volumen se resuelve por SKU")
	assert.Equal(t, "B2", top[1].SKU)
	assert.Equal(t, "C3", top[2].SKU)

	all := kpi.TopByVolume(records, 0)
	assert.Len(t, all, 4, "n=0 devuelve todos los registros ordenados")
}

func TestComputeBaselines(t *testing.T) {
	records := []entity.SupplyRecord{
		{SKU: "A1", RevenueGenerated: decimal.NewFromInt(100), ShippingCosts: decimal.NewFromInt(10), ShippingTimes: decimal.NewFromInt(2)},
		{SKU: "A2", RevenueGenerated: decimal.NewFromInt(300), ShippingCosts: decimal.NewFromInt(30), ShippingTimes: decimal.NewFromInt(4)},
	}

	b := kpi.ComputeBaselines(records)
	assert.Equal(t, "200.00", b.MeanRevenue.StringFixed(2))
	assert.Equal(t, "20.00", b.MeanShippingCost.StringFixed(2))
	assert.Equal(t, "3.00", b.MeanShippingTime.StringFixed(2))

	empty := kpi.ComputeBaselines(nil)
	assert.True(t, empty.MeanRevenue.IsZero(), "dataset vacío produce baselines en cero")
}

package kpi_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkpi "github.com/jhoicas/cadena-kpi/internal/application/kpi"
	domainkpi "github.com/jhoicas/cadena-kpi/internal/domain/kpi"
)

func reportDataset() *fakeStore {
	slow := sourceRecord("A1", 25, 730, 50, 5000, 300, 20)
	slow.ProductType = "haircare"
	slow.SupplierName = "Acme"
	slow.Location = "Bogotá"
	slow.ShippingCarriers = "Carrier A"
	slow.ShippingTimes = decimal.NewFromInt(9)
	slow.CustomerDemographics = "Female"
	slow.TransportationModes = "Road"
	slow.Routes = "Ruta A"
	slow.Costs = decimal.NewFromInt(120)
	slow.ProductionVolumes = decimal.NewFromInt(100)
	slow.DefectRates = decimal.NewFromFloat(0.02)
	slow.ManufacturingCosts = decimal.NewFromInt(400)

	// rotación 100/800 = 0.125 con ingreso bajo: no marca riesgo
	fast := sourceRecord("B2", 10, 400, 5, 100, 800, 5)
	fast.ProductType = "skincare"
	fast.SupplierName = "Beta"
	fast.Location = "Lima"
	fast.ShippingCarriers = "Carrier B"
	fast.ShippingTimes = decimal.NewFromInt(2)
	fast.CustomerDemographics = "Male"
	fast.TransportationModes = "Air"
	fast.Routes = "Ruta B"
	fast.Costs = decimal.NewFromInt(300)
	fast.ProductionVolumes = decimal.NewFromInt(50)
	fast.DefectRates = decimal.NewFromFloat(0.005)
	fast.ManufacturingCosts = decimal.NewFromInt(100)

	// rotación 9000/10000 = 0.9 < 1 con ingreso sobre el promedio: riesgo
	risky := sourceRecord("C3", 60, 50, 12, 9000, 10000, 30)
	risky.ProductType = "skincare"
	risky.SupplierName = "Beta"
	risky.Location = "Lima"
	risky.ShippingCarriers = "Carrier B"
	risky.ShippingTimes = decimal.NewFromInt(4)
	risky.CustomerDemographics = "Female"
	risky.TransportationModes = "Air"
	risky.Routes = "Ruta B"
	risky.Costs = decimal.NewFromInt(250)
	risky.ProductionVolumes = decimal.NewFromInt(20)
	risky.DefectRates = decimal.NewFromFloat(0.001)
	risky.ManufacturingCosts = decimal.NewFromInt(60)

	return newFakeStore(slow, fast, risky)
}

func TestBuildReport_SeccionesCompletas(t *testing.T) {
	store := reportDataset()
	uc := appkpi.NewReportUseCase(&fakeRepo{store: store})

	report, err := uc.BuildReport(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 3, report.RecordCount)
	assert.False(t, report.GeneratedAt.IsZero())

	// baseline de ingreso: (5000+100+9000)/3
	assert.Equal(t, "4700.00", report.Baselines.MeanRevenue.StringFixed(2))

	require.Len(t, report.Suppliers, 2)
	assert.Equal(t, "Acme", report.Suppliers[0].Supplier)
	assert.Equal(t, "Beta", report.Suppliers[1].Supplier)

	require.Len(t, report.SupplierLeadTimes, 2)
	assert.Equal(t, "Bogotá", report.SupplierLeadTimes[0].Location)

	require.Len(t, report.Carriers, 2)
	require.Len(t, report.Routes, 2)
	require.Len(t, report.RevenueByProductType, 2)
	assert.Equal(t, "skincare", report.RevenueByProductType[1].Key)
	assert.Equal(t, "9100.00", report.RevenueByProductType[1].Revenue.StringFixed(2))

	require.Len(t, report.Demographics, 2)
}

func TestBuildReport_RankingPorVolumen(t *testing.T) {
	store := reportDataset()
	uc := appkpi.NewReportUseCase(&fakeRepo{store: store})

	report, err := uc.BuildReport(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, report.TopProducts, 2, "topN trunca el ranking")
	assert.Equal(t, 1, report.TopProducts[0].Rank)
	assert.Equal(t, "A1", report.TopProducts[0].SKU)
	assert.Equal(t, "B2", report.TopProducts[1].SKU)

	// economía del primero: banda Medium (precio 25),
	// rentabilidad 5000 − (400 + 50) = 4550
	assert.Equal(t, domainkpi.PriceBandMedium, report.TopProducts[0].PriceBand)
	assert.Equal(t, "4550.00", report.TopProducts[0].Profitability.StringFixed(2))
	require.True(t, report.TopProducts[0].ShippingCostPerUnit.Valid)
	assert.Equal(t, "0.07", report.TopProducts[0].ShippingCostPerUnit.Decimal.StringFixed(2))
}

func TestBuildReport_SoloRegistrosConRiesgoDeSobrestock(t *testing.T) {
	store := reportDataset()
	uc := appkpi.NewReportUseCase(&fakeRepo{store: store})

	report, err := uc.BuildReport(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, report.OverstockRisks, 1, "solo los registros marcados entran en la sección")
	risk := report.OverstockRisks[0]
	assert.Equal(t, "C3", risk.SKU)
	assert.Equal(t, domainkpi.InsightOverstockRisk, risk.Insight)
	require.True(t, risk.Turnover.Valid)
	assert.Equal(t, "0.90", risk.Turnover.Decimal.StringFixed(2))
}

func TestBuildReport_TopNPorDefecto(t *testing.T) {
	store := reportDataset()
	uc := appkpi.NewReportUseCase(&fakeRepo{store: store})

	report, err := uc.BuildReport(context.Background(), -5)
	require.NoError(t, err)
	// con 3 registros el default (10) devuelve todos
	assert.Len(t, report.TopProducts, 3)
}

func TestBuildReport_ErrorDeLectura(t *testing.T) {
	store := newFakeStore()
	store.listErr = assert.AnError
	uc := appkpi.NewReportUseCase(&fakeRepo{store: store})

	_, err := uc.BuildReport(context.Background(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

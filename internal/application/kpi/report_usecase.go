package kpi

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cadena-kpi/internal/application/dto"
	"github.com/jhoicas/cadena-kpi/internal/domain/entity"
	domainkpi "github.com/jhoicas/cadena-kpi/internal/domain/kpi"
	"github.com/jhoicas/cadena-kpi/internal/domain/repository"
)

// DefaultTopN productos en el ranking por volumen cuando no se indica otro.
const DefaultTopN = 10

// ReportUseCase arma el reporte de KPIs de solo lectura (proyección ad-hoc,
// no persiste nada). Aplica exactamente las mismas fórmulas que la ruta de
// escritura: ambas delegan en internal/domain/kpi.
type ReportUseCase struct {
	reader repository.SupplyRecordRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reader repository.SupplyRecordRepository) *ReportUseCase {
	return &ReportUseCase{reader: reader}
}

// BuildReport lee el dataset completo y calcula todas las métricas agrupadas,
// los rankings y las reglas compuestas. topN <= 0 usa DefaultTopN.
func (uc *ReportUseCase) BuildReport(ctx context.Context, topN int) (*dto.SupplyChainReportDTO, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	records, err := uc.reader.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("report: lectura del dataset: %w", err)
	}

	baselines := domainkpi.ComputeBaselines(records)

	report := &dto.SupplyChainReportDTO{
		GeneratedAt: time.Now(),
		RecordCount: len(records),
		Baselines: dto.BaselinesDTO{
			MeanRevenue:      baselines.MeanRevenue.Round(2),
			MeanShippingCost: baselines.MeanShippingCost.Round(2),
			MeanShippingTime: baselines.MeanShippingTime.Round(2),
		},
		Suppliers:            suppliersSection(records),
		SupplierLeadTimes:    leadTimesSection(records),
		Carriers:             carriersSection(records, baselines),
		Routes:               routesSection(records),
		RevenueByProductType: revenueSection(records),
		Demographics:         demographicsSection(records, baselines),
		TopProducts:          topProductsSection(records, topN),
		OverstockRisks:       overstockSection(records, baselines),
	}
	return report, nil
}

func suppliersSection(records []entity.SupplyRecord) []dto.SupplierMetricsDTO {
	metrics := domainkpi.SuppliersOverview(records)
	out := make([]dto.SupplierMetricsDTO, len(metrics))
	for i, m := range metrics {
		out[i] = dto.SupplierMetricsDTO{
			Supplier:           m.Supplier,
			Records:            m.Records,
			AvgLeadTime:        m.AvgLeadTime,
			MedianLeadTime:     m.MedianLeadTime,
			LeadTimeDeviation:  m.LeadTimeDeviation,
			Reliability:        m.Reliability,
			WeightedDefectRate: m.WeightedDefectRate,
			CostPerUnit:        m.CostPerUnit,
			Insight:            m.Insight,
		}
	}
	return out
}

func leadTimesSection(records []entity.SupplyRecord) []dto.SupplierLeadTimeDTO {
	rows := domainkpi.AvgLeadTimeBySupplierLocation(records)
	out := make([]dto.SupplierLeadTimeDTO, len(rows))
	for i, r := range rows {
		out[i] = dto.SupplierLeadTimeDTO{
			Supplier:    r.Supplier,
			Location:    r.Location,
			AvgLeadTime: r.AvgLeadTime,
			Records:     r.Records,
		}
	}
	return out
}

func carriersSection(records []entity.SupplyRecord, baselines domainkpi.GlobalBaselines) []dto.CarrierMetricsDTO {
	metrics := domainkpi.CarriersOverview(records, baselines.MeanShippingCost)
	out := make([]dto.CarrierMetricsDTO, len(metrics))
	for i, m := range metrics {
		out[i] = dto.CarrierMetricsDTO{
			Carrier:         m.Carrier,
			Shipments:       m.Shipments,
			AvgShippingTime: m.AvgShippingTime,
			AvgShippingCost: m.AvgShippingCost,
			CostFlag:        m.CostFlag,
		}
	}
	return out
}

func routesSection(records []entity.SupplyRecord) []dto.RouteMetricsDTO {
	metrics := domainkpi.RoutesOverview(records)
	out := make([]dto.RouteMetricsDTO, len(metrics))
	for i, m := range metrics {
		out[i] = dto.RouteMetricsDTO{
			Route:              m.Route,
			TransportationMode: m.TransportationMode,
			Shipments:          m.Shipments,
			AvgCost:            m.AvgCost,
		}
	}
	return out
}

func revenueSection(records []entity.SupplyRecord) []dto.RevenueGroupDTO {
	groups := domainkpi.RevenueByProductType(records)
	out := make([]dto.RevenueGroupDTO, len(groups))
	for i, g := range groups {
		out[i] = dto.RevenueGroupDTO{Key: g.Key, Revenue: g.Revenue, Records: g.Records}
	}
	return out
}

func demographicsSection(records []entity.SupplyRecord, baselines domainkpi.GlobalBaselines) []dto.DemographicMetricsDTO {
	metrics := domainkpi.DemographicsOverview(records, baselines)
	out := make([]dto.DemographicMetricsDTO, len(metrics))
	for i, m := range metrics {
		out[i] = dto.DemographicMetricsDTO{
			Demographic:     m.Demographic,
			Records:         m.Records,
			TotalRevenue:    m.TotalRevenue,
			AvgRevenue:      m.AvgRevenue,
			AvgShippingTime: m.AvgShippingTime,
			Insight:         m.Insight,
		}
	}
	return out
}

// topProductsSection proyecta la economía por producto del ranking por
// volumen: banda de precio, rentabilidad estimada y costo de envío unitario.
// Solo lectura: estas tres fórmulas nunca se persisten.
func topProductsSection(records []entity.SupplyRecord, topN int) []dto.ProductEconomicsDTO {
	top := domainkpi.TopByVolume(records, topN)
	out := make([]dto.ProductEconomicsDTO, len(top))
	for i, rec := range top {
		out[i] = dto.ProductEconomicsDTO{
			Rank:                i + 1,
			SKU:                 rec.SKU,
			ProductType:         rec.ProductType,
			UnitsSold:           rec.NumberOfProductsSold,
			Revenue:             rec.RevenueGenerated.Round(2),
			PriceBand:           domainkpi.PriceBand(rec.Price),
			Profitability:       domainkpi.ProfitabilityEstimate(rec.RevenueGenerated, rec.ManufacturingCosts, rec.ShippingCosts).Round(2),
			ShippingCostPerUnit: roundNull(domainkpi.ShippingCostPerUnit(rec.ShippingCosts, rec.NumberOfProductsSold)),
		}
	}
	return out
}

// overstockSection lista solo los registros marcados por la regla compuesta.
func overstockSection(records []entity.SupplyRecord, baselines domainkpi.GlobalBaselines) []dto.OverstockRiskDTO {
	out := make([]dto.OverstockRiskDTO, 0)
	for _, rec := range records {
		turnover := domainkpi.InventoryTurnover(rec.RevenueGenerated, rec.StockLevels)
		insight := domainkpi.OverstockRiskInsight(turnover, rec.RevenueGenerated, baselines.MeanRevenue)
		if insight != domainkpi.InsightOverstockRisk {
			continue
		}
		out = append(out, dto.OverstockRiskDTO{
			SKU:      rec.SKU,
			Turnover: roundNull(turnover),
			Revenue:  rec.RevenueGenerated.Round(2),
			Insight:  insight,
		})
	}
	return out
}

func roundNull(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	d.Decimal = d.Decimal.Round(2)
	return d
}

// Package pdf implementa la representación PDF del reporte de KPIs de la
// cadena de suministro (distribución fuera del BI).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación + registros            │
//	│  BASELINES: promedios globales                                │
//	│  TABLA: proveedores (lead time, confiabilidad, defectos)      │
//	│  TABLA: transportistas (tiempos, costos, flag)                │
//	│  TABLA: rutas (costo promedio por modo)                       │
//	│  TABLA: ingresos por tipo de producto y demografía            │
//	│  TABLA: top productos por volumen + riesgos de sobrestock     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cadena-kpi/internal/application/dto"
	appkpi "github.com/jhoicas/cadena-kpi/internal/application/kpi"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appkpi.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa kpi.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateReportPDF(_ context.Context, report *dto.SupplyChainReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Supply Chain KPI Report", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(baselinesRow(report.Baselines))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("Proveedores"))
	m.AddRows(suppliersHeader())
	for _, r := range suppliersRows(report.Suppliers) {
		m.AddRows(r)
	}

	m.AddRows(sectionTitle("Transportistas"))
	m.AddRows(carriersHeader())
	for _, r := range carriersRows(report.Carriers) {
		m.AddRows(r)
	}

	m.AddRows(sectionTitle("Rutas"))
	m.AddRows(routesHeader())
	for _, r := range routesRows(report.Routes) {
		m.AddRows(r)
	}

	m.AddRows(sectionTitle("Ingresos por tipo de producto"))
	for _, r := range revenueRows(report.RevenueByProductType) {
		m.AddRows(r)
	}

	m.AddRows(sectionTitle("Segmentos demográficos"))
	for _, r := range demographicsRows(report.Demographics) {
		m.AddRows(r)
	}

	m.AddRows(sectionTitle(fmt.Sprintf("Top %d productos por volumen", len(report.TopProducts))))
	m.AddRows(topProductsHeader())
	for _, r := range topProductsRows(report.TopProducts) {
		m.AddRows(r)
	}

	if len(report.OverstockRisks) > 0 {
		m.AddRows(sectionTitle("Riesgos de sobrestock"))
		for _, r := range overstockRows(report.OverstockRisks) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.SupplyChainReportDTO) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Supply Chain KPI Report", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d registros", report.RecordCount), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func baselinesRow(b dto.BaselinesDTO) core.Row {
	return row.New(8).Add(
		labeledCol(4, "Ingreso promedio", b.MeanRevenue.StringFixed(2)),
		labeledCol(4, "Costo de envío promedio", b.MeanShippingCost.StringFixed(2)),
		labeledCol(4, "Tiempo de envío promedio", b.MeanShippingTime.StringFixed(2)+" días"),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(9).Add(
		col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3}),
		),
	)
}

func suppliersHeader() core.Row {
	return tableHeader("Proveedor", "Lead time prom.", "Mediana", "Confiabilidad", "Defectos pond.", "Costo/unidad")
}

func suppliersRows(suppliers []dto.SupplierMetricsDTO) []core.Row {
	rows := make([]core.Row, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, tableRow(
			s.Supplier,
			s.AvgLeadTime.StringFixed(2),
			s.MedianLeadTime.StringFixed(2),
			s.Reliability,
			nullString(s.WeightedDefectRate, 4),
			nullString(s.CostPerUnit, 2),
		))
	}
	return rows
}

func carriersHeader() core.Row {
	return tableHeader("Transportista", "Envíos", "Tiempo prom.", "Costo prom.", "Flag", "")
}

func carriersRows(carriers []dto.CarrierMetricsDTO) []core.Row {
	rows := make([]core.Row, 0, len(carriers))
	for _, c := range carriers {
		rows = append(rows, tableRow(
			c.Carrier,
			fmt.Sprintf("%d", c.Shipments),
			c.AvgShippingTime.StringFixed(2),
			c.AvgShippingCost.StringFixed(2),
			c.CostFlag,
			"",
		))
	}
	return rows
}

func routesHeader() core.Row {
	return tableHeader("Ruta", "Modo", "Envíos", "Costo prom.", "", "")
}

func routesRows(routes []dto.RouteMetricsDTO) []core.Row {
	rows := make([]core.Row, 0, len(routes))
	for _, r := range routes {
		rows = append(rows, tableRow(
			r.Route, r.TransportationMode,
			fmt.Sprintf("%d", r.Shipments),
			r.AvgCost.StringFixed(2),
			"", "",
		))
	}
	return rows
}

func revenueRows(groups []dto.RevenueGroupDTO) []core.Row {
	rows := make([]core.Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, tableRow(
			g.Key, fmt.Sprintf("%d registros", g.Records), g.Revenue.StringFixed(2), "", "", "",
		))
	}
	return rows
}

func demographicsRows(demographics []dto.DemographicMetricsDTO) []core.Row {
	rows := make([]core.Row, 0, len(demographics))
	for _, d := range demographics {
		rows = append(rows, tableRow(
			d.Demographic,
			fmt.Sprintf("%d registros", d.Records),
			d.TotalRevenue.StringFixed(2),
			d.AvgShippingTime.StringFixed(2)+" días",
			d.Insight,
			"",
		))
	}
	return rows
}

func topProductsHeader() core.Row {
	return tableHeader("SKU", "Tipo", "Unidades", "Ingreso", "Banda", "Rentabilidad")
}

func topProductsRows(products []dto.ProductEconomicsDTO) []core.Row {
	rows := make([]core.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, tableRow(
			fmt.Sprintf("%d. %s", p.Rank, p.SKU),
			p.ProductType,
			p.UnitsSold.StringFixed(0),
			p.Revenue.StringFixed(2),
			p.PriceBand,
			p.Profitability.StringFixed(2),
		))
	}
	return rows
}

func overstockRows(risks []dto.OverstockRiskDTO) []core.Row {
	rows := make([]core.Row, 0, len(risks))
	for _, r := range risks {
		rows = append(rows, tableRow(
			r.SKU,
			"rotación "+nullString(r.Turnover, 2),
			"ingreso "+r.Revenue.StringFixed(2),
			r.Insight,
			"", "",
		))
	}
	return rows
}

// ── Helpers de tabla ──────────────────────────────────────────────────────────

func tableHeader(cells ...string) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(2).Add(
			text.New(c, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary}),
		))
	}
	return row.New(6).Add(cols...)
}

func tableRow(cells ...string) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(2).Add(
			text.New(c, props.Text{Size: 7}),
		))
	}
	return row.New(5).Add(cols...)
}

func labeledCol(size int, label, value string) core.Col {
	return col.New(size).Add(
		text.New(label, props.Text{Size: 7, Color: colorGray}),
		text.New(value, props.Text{Size: 9, Style: fontstyle.Bold, Top: 3.5}),
	)
}

// nullString formatea un NullDecimal; indefinido se muestra como "N/A".
func nullString(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return "N/A"
	}
	return d.Decimal.StringFixed(places)
}

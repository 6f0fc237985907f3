package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cadena-kpi/internal/application/dto"
	appkpi "github.com/jhoicas/cadena-kpi/internal/application/kpi"
	"github.com/jhoicas/cadena-kpi/internal/domain"
)

// ReportHandler expone el reporte de KPIs para el consumidor BI.
type ReportHandler struct {
	reportUC *appkpi.ReportUseCase
	pdfUC    *appkpi.ExportPDFUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reportUC *appkpi.ReportUseCase, pdfUC *appkpi.ExportPDFUseCase) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, pdfUC: pdfUC}
}

// topN lee el query param top_n con límites razonables (default del usecase).
func topN(c *fiber.Ctx) int {
	n := c.QueryInt("top_n", 0)
	if n < 0 || n > 200 {
		return 0
	}
	return n
}

// GetReport devuelve el reporte completo.
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.reportUC.BuildReport(c.Context(), topN(c))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(report)
}

// GetSuppliers devuelve solo la sección de proveedores.
func (h *ReportHandler) GetSuppliers(c *fiber.Ctx) error {
	report, err := h.reportUC.BuildReport(c.Context(), topN(c))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"suppliers":           report.Suppliers,
		"supplier_lead_times": report.SupplierLeadTimes,
	})
}

// GetCarriers devuelve la sección de transportistas.
func (h *ReportHandler) GetCarriers(c *fiber.Ctx) error {
	report, err := h.reportUC.BuildReport(c.Context(), topN(c))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{"carriers": report.Carriers})
}

// GetRoutes devuelve la eficiencia por ruta y modo de transporte.
func (h *ReportHandler) GetRoutes(c *fiber.Ctx) error {
	report, err := h.reportUC.BuildReport(c.Context(), topN(c))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{"routes": report.Routes})
}

// GetRevenue devuelve ingresos por tipo de producto y por demografía.
func (h *ReportHandler) GetRevenue(c *fiber.Ctx) error {
	report, err := h.reportUC.BuildReport(c.Context(), topN(c))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"revenue_by_product_type": report.RevenueByProductType,
		"demographics":            report.Demographics,
	})
}

// GetTopProducts devuelve el ranking por volumen con su economía por producto.
func (h *ReportHandler) GetTopProducts(c *fiber.Ctx) error {
	report, err := h.reportUC.BuildReport(c.Context(), topN(c))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{"top_products": report.TopProducts})
}

// GetReportPDF descarga el reporte como PDF.
func (h *ReportHandler) GetReportPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.pdfUC.Export(c.Context(), topN(c))
	if err != nil {
		return storageError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="supply-chain-kpis.pdf"`)
	return c.Send(pdfBytes)
}

func storageError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "STORAGE_UNAVAILABLE", Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: err.Error(),
	})
}

package kpi

import (
	"context"
	"fmt"

	"github.com/jhoicas/cadena-kpi/internal/application/dto"
)

// ReportPDFGenerator define el puerto de salida para la representación PDF
// del reporte (adaptador Maroto en infraestructura).
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *dto.SupplyChainReportDTO) ([]byte, error)
}

// ExportPDFUseCase arma el reporte y lo entrega como PDF para distribución.
type ExportPDFUseCase struct {
	reportUC  *ReportUseCase
	generator ReportPDFGenerator
}

// NewExportPDFUseCase construye el caso de uso.
func NewExportPDFUseCase(reportUC *ReportUseCase, generator ReportPDFGenerator) *ExportPDFUseCase {
	return &ExportPDFUseCase{reportUC: reportUC, generator: generator}
}

// Export construye el reporte y lo renderiza. topN <= 0 usa el default.
func (uc *ExportPDFUseCase) Export(ctx context.Context, topN int) ([]byte, error) {
	report, err := uc.reportUC.BuildReport(ctx, topN)
	if err != nil {
		return nil, err
	}
	pdfBytes, err := uc.generator.GenerateReportPDF(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	return pdfBytes, nil
}

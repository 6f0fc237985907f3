package http

import (
	"github.com/gofiber/fiber/v2"

	appkpi "github.com/jhoicas/cadena-kpi/internal/application/kpi"
	"github.com/jhoicas/cadena-kpi/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReportUC    *appkpi.ReportUseCase
	PDFUC       *appkpi.ExportPDFUseCase
	RecomputeUC *appkpi.RecomputeUseCase
	JWTSecret   string
}

// Router registra las rutas del API de reportes.
// Todo /api va detrás de Bearer Token; el recálculo además exige rol operator.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	reportHandler := NewReportHandler(deps.ReportUC, deps.PDFUC)
	report := api.Group("/report")
	report.Get("/", reportHandler.GetReport)
	report.Get("/suppliers", reportHandler.GetSuppliers)
	report.Get("/carriers", reportHandler.GetCarriers)
	report.Get("/routes", reportHandler.GetRoutes)
	report.Get("/revenue", reportHandler.GetRevenue)
	report.Get("/top-products", reportHandler.GetTopProducts)
	report.Get("/pdf", reportHandler.GetReportPDF)

	recomputeHandler := NewRecomputeHandler(deps.RecomputeUC)
	api.Post("/recompute", RequireRole(jwt.RoleOperator), recomputeHandler.Recompute)
}

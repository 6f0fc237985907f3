package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cadena-kpi/internal/application/dto"
	appkpi "github.com/jhoicas/cadena-kpi/internal/application/kpi"
	"github.com/jhoicas/cadena-kpi/internal/domain"
)

// RecomputeHandler dispara la corrida de recálculo persistido.
type RecomputeHandler struct {
	uc *appkpi.RecomputeUseCase
}

// NewRecomputeHandler construye el handler.
func NewRecomputeHandler(uc *appkpi.RecomputeUseCase) *RecomputeHandler {
	return &RecomputeHandler{uc: uc}
}

// Recompute recalcula y persiste todos los campos derivados. La corrida es
// síncrona: la respuesta llega cuando la transacción ya hizo commit.
func (h *RecomputeHandler) Recompute(c *fiber.Ctx) error {
	result, err := h.uc.Recompute(c.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSchemaMismatch):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code: "SCHEMA_MISMATCH", Message: err.Error(),
			})
		case errors.Is(err, domain.ErrRecordNotFound):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code: "RECORD_NOT_FOUND", Message: err.Error(),
			})
		default:
			return storageError(c, err)
		}
	}
	return c.JSON(result)
}

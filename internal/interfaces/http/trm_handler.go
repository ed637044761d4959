package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-manufactura/internal/application/compras"
	"github.com/jhoicas/erp-manufactura/internal/application/dto"
)

// TRMHandler expone la TRM vigente.
type TRMHandler struct {
	uc *compras.TRMUseCase
}

// NewTRMHandler construye el handler.
func NewTRMHandler(uc *compras.TRMUseCase) *TRMHandler {
	return &TRMHandler{uc: uc}
}

// Actual godoc
// @Summary      TRM vigente (COP por USD)
// @Tags         trm
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TRMResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/trm [get]
func (h *TRMHandler) Actual(c *fiber.Ctx) error {
	out, err := h.uc.Actual(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "TRM_UNAVAILABLE", Message: err.Error()})
	}
	return c.JSON(out)
}

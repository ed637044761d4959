package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-manufactura/internal/application/compras"
	"github.com/jhoicas/erp-manufactura/internal/application/dto"
)

// PagoHandler pagos a proveedores contra órdenes de compra.
type PagoHandler struct {
	uc *compras.PagoUseCase
}

// NewPagoHandler construye el handler.
func NewPagoHandler(uc *compras.PagoUseCase) *PagoHandler {
	return &PagoHandler{uc: uc}
}

// Registrar godoc
// @Summary      Registrar pago
// @Tags         pagos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la orden"
// @Param        body  body  dto.RegistrarPagoRequest  true  "valor en COP y método"
// @Success      201   {object}  dto.PagoResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/pagos [post]
func (h *PagoHandler) Registrar(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.RegistrarPagoRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Registrar(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// EstadoCuenta godoc
// @Summary      Pagos y saldo de una orden
// @Tags         pagos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.EstadoCuentaResponse
// @Router       /api/ordenes-compra/{id}/pagos [get]
func (h *PagoHandler) EstadoCuenta(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.EstadoCuenta(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

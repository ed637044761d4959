package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-manufactura/internal/application/compras"
	"github.com/jhoicas/erp-manufactura/internal/application/dto"
)

// RecepcionHandler asistente de recepción de mercancía (previsualizar y confirmar).
type RecepcionHandler struct {
	uc *compras.RecepcionUseCase
}

// NewRecepcionHandler construye el handler.
func NewRecepcionHandler(uc *compras.RecepcionUseCase) *RecepcionHandler {
	return &RecepcionHandler{uc: uc}
}

// Preview godoc
// @Summary      Previsualizar recepción (no persiste)
// @Tags         recepciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la orden"
// @Param        body  body  dto.PreviewRecepcionRequest  true  "líneas a recibir"
// @Success      200   {object}  dto.PreviewRecepcionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/recepciones/preview [post]
func (h *RecepcionHandler) Preview(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.PreviewRecepcionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Preview(c.UserContext(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Confirmar godoc
// @Summary      Confirmar recepción: stock, costo promedio y Kardex en una transacción
// @Tags         recepciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la orden"
// @Param        body  body  dto.ConfirmarRecepcionRequest  true  "factura y líneas"
// @Success      201   {object}  dto.RecepcionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/recepciones [post]
func (h *RecepcionHandler) Confirmar(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.ConfirmarRecepcionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Confirmar(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Recepciones de una orden
// @Tags         recepciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}  dto.RecepcionResponse
// @Router       /api/ordenes-compra/{id}/recepciones [get]
func (h *RecepcionHandler) List(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/produccion"
)

// OrdenProduccionHandler órdenes de producción y calendario.
type OrdenProduccionHandler struct {
	uc *produccion.OrdenProduccionUseCase
}

// NewOrdenProduccionHandler construye el handler.
func NewOrdenProduccionHandler(uc *produccion.OrdenProduccionUseCase) *OrdenProduccionHandler {
	return &OrdenProduccionHandler{uc: uc}
}

// Create godoc
// @Summary      Planear orden de producción
// @Tags         produccion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrdenProduccionRequest  true  "producto, fechas e insumos"
// @Success      201   {object}  dto.OrdenProduccionResponse
// @Router       /api/ordenes-produccion [post]
func (h *OrdenProduccionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrdenProduccionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de producción con disponibilidad de insumos
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.OrdenProduccionResponse
// @Router       /api/ordenes-produccion/{id} [get]
func (h *OrdenProduccionHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar órdenes de producción
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "PLANEADA | EN_PROCESO | TERMINADA | CANCELADA"
// @Param        q       query  string  false  "número o producto"
// @Success      200  {object}  dto.ListResponse[dto.OrdenProduccionResponse]
// @Router       /api/ordenes-produccion [get]
func (h *OrdenProduccionHandler) Search(c *fiber.Ctx) error {
	var in dto.OrdenProduccionSearchRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.Search(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Programacion godoc
// @Summary      Calendario de producción
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  true  "AAAA-MM-DD"
// @Param        hasta  query  string  true  "AAAA-MM-DD"
// @Success      200  {array}  dto.OrdenProduccionResponse
// @Router       /api/ordenes-produccion/programacion [get]
func (h *OrdenProduccionHandler) Programacion(c *fiber.Ctx) error {
	var in dto.ProgramacionRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.Programacion(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Iniciar godoc
// @Summary      PLANEADA → EN_PROCESO (verifica stock)
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.OrdenProduccionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-produccion/{id}/iniciar [post]
func (h *OrdenProduccionHandler) Iniciar(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Iniciar(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Terminar godoc
// @Summary      EN_PROCESO → TERMINADA (consume insumos)
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.OrdenProduccionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-produccion/{id}/terminar [post]
func (h *OrdenProduccionHandler) Terminar(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Terminar(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Cancelar godoc
// @Summary      Cancelar orden de producción
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.OrdenProduccionResponse
// @Router       /api/ordenes-produccion/{id}/cancelar [post]
func (h *OrdenProduccionHandler) Cancelar(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Cancelar(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

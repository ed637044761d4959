package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/usecase"
)

// ActivoHandler registro de activos fijos.
type ActivoHandler struct {
	uc *usecase.ActivoUseCase
}

// NewActivoHandler construye el handler.
func NewActivoHandler(uc *usecase.ActivoUseCase) *ActivoHandler {
	return &ActivoHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar activo
// @Tags         activos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateActivoRequest  true  "datos del activo"
// @Success      201   {object}  dto.ActivoResponse
// @Router       /api/activos [post]
func (h *ActivoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateActivoRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener activo
// @Tags         activos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.ActivoResponse
// @Router       /api/activos/{id} [get]
func (h *ActivoHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Buscar activos
// @Tags         activos
// @Security     Bearer
// @Produce      json
// @Param        q          query  string  false  "código o nombre"
// @Param        categoria  query  string  false  "categoría"
// @Param        estado     query  string  false  "ACTIVO | BAJA"
// @Success      200  {object}  dto.ListResponse[dto.ActivoResponse]
// @Router       /api/activos [get]
func (h *ActivoHandler) Search(c *fiber.Ctx) error {
	var in dto.ActivoSearchRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.Search(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// DarDeBaja godoc
// @Summary      Dar de baja un activo
// @Tags         activos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID"
// @Param        body  body  dto.DarDeBajaRequest  true  "motivo"
// @Success      200   {object}  dto.ActivoResponse
// @Router       /api/activos/{id}/baja [post]
func (h *ActivoHandler) DarDeBaja(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.DarDeBajaRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.DarDeBaja(c.UserContext(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

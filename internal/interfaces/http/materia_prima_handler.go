package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/usecase"
)

// MateriaPrimaHandler maestro de materias primas, Kardex y ajustes.
type MateriaPrimaHandler struct {
	uc *usecase.MateriaPrimaUseCase
}

// NewMateriaPrimaHandler construye el handler.
func NewMateriaPrimaHandler(uc *usecase.MateriaPrimaUseCase) *MateriaPrimaHandler {
	return &MateriaPrimaHandler{uc: uc}
}

// Create godoc
// @Summary      Crear materia prima
// @Tags         materias-primas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMateriaPrimaRequest  true  "Datos de la materia prima"
// @Success      201   {object}  dto.MateriaPrimaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materias-primas [post]
func (h *MateriaPrimaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMateriaPrimaRequest
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
// @Summary      Obtener materia prima
// @Tags         materias-primas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MateriaPrimaResponse
// @Router       /api/materias-primas/{id} [get]
func (h *MateriaPrimaHandler) GetByID(c *fiber.Ctx) error {
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

// Update godoc
// @Summary      Actualizar materia prima (sin costo ni stock)
// @Tags         materias-primas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID"
// @Param        body  body  dto.UpdateMateriaPrimaRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.MateriaPrimaResponse
// @Router       /api/materias-primas/{id} [put]
func (h *MateriaPrimaHandler) Update(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateMateriaPrimaRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar materias primas (selector)
// @Tags         materias-primas
// @Security     Bearer
// @Produce      json
// @Param        q             query  string  false  "código o nombre"
// @Param        solo_activos  query  bool    false  "solo activas"
// @Success      200  {object}  dto.ListResponse[dto.MateriaPrimaResponse]
// @Router       /api/materias-primas [get]
func (h *MateriaPrimaHandler) Search(c *fiber.Ctx) error {
	var in dto.MateriaPrimaSearchRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.Search(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// BajoMinimo godoc
// @Summary      Materias primas por debajo del stock mínimo
// @Tags         materias-primas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MateriaPrimaResponse
// @Router       /api/materias-primas/bajo-minimo [get]
func (h *MateriaPrimaHandler) BajoMinimo(c *fiber.Ctx) error {
	out, err := h.uc.BajoStockMinimo(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Movimientos godoc
// @Summary      Kardex de una materia prima
// @Tags         materias-primas
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID"
// @Param        limit   query  int     false  "máx. 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.MovimientoResponse]
// @Router       /api/materias-primas/{id}/movimientos [get]
func (h *MateriaPrimaHandler) Movimientos(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.PageRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.Movimientos(c.UserContext(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Ajustar godoc
// @Summary      Ajuste manual de inventario
// @Tags         materias-primas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID"
// @Param        body  body  dto.AjusteRequest  true  "cantidad con signo y motivo"
// @Success      201   {object}  dto.MovimientoResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materias-primas/{id}/ajustes [post]
func (h *MateriaPrimaHandler) Ajustar(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.AjusteRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Ajustar(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-manufactura/internal/application/compras"
	"github.com/jhoicas/erp-manufactura/internal/application/dto"
)

// OrdenCompraHandler editor de órdenes de compra, transiciones de estado y documentos.
type OrdenCompraHandler struct {
	uc   *compras.OrdenCompraUseCase
	docs *compras.DocumentosUseCase
}

// NewOrdenCompraHandler construye el handler.
func NewOrdenCompraHandler(uc *compras.OrdenCompraUseCase, docs *compras.DocumentosUseCase) *OrdenCompraHandler {
	return &OrdenCompraHandler{uc: uc, docs: docs}
}

// Calcular godoc
// @Summary      Recalcular totales del editor (no persiste)
// @Description  Se invoca en cada edición de una línea; no valida signos.
// @Tags         ordenes-compra
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CalcularRequest  true  "líneas y parámetros"
// @Success      200   {object}  dto.CalcularResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/calcular [post]
func (h *OrdenCompraHandler) Calcular(c *fiber.Ctx) error {
	var in dto.CalcularRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
	}
	out, err := h.uc.Calcular(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear orden de compra (PENDIENTE)
// @Tags         ordenes-compra
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrdenCompraRequest  true  "cabecera y líneas"
// @Success      201   {object}  dto.OrdenCompraResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra [post]
func (h *OrdenCompraHandler) Create(c *fiber.Ctx) error {
	var in dto.OrdenCompraRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Reemplazar cabecera y líneas de una orden PENDIENTE
// @Tags         ordenes-compra
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.OrdenCompraRequest  true  "cabecera y líneas"
// @Success      200   {object}  dto.OrdenCompraResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id} [put]
func (h *OrdenCompraHandler) Update(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.OrdenCompraRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra con sus líneas
// @Tags         ordenes-compra
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrdenCompraResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id} [get]
func (h *OrdenCompraHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Buscar órdenes de compra
// @Tags         ordenes-compra
// @Security     Bearer
// @Produce      json
// @Param        tipo          query  string  false  "OCM | OCA"
// @Param        estado        query  string  false  "PENDIENTE | LIBERADA | ENVIADA | CERRADA | CANCELADA"
// @Param        proveedor_id  query  string  false  "ID del proveedor"
// @Param        q             query  string  false  "número o proveedor"
// @Param        desde         query  string  false  "AAAA-MM-DD"
// @Param        hasta         query  string  false  "AAAA-MM-DD"
// @Success      200  {object}  dto.ListResponse[dto.OrdenCompraResumenResponse]
// @Router       /api/ordenes-compra [get]
func (h *OrdenCompraHandler) Search(c *fiber.Ctx) error {
	var in dto.OrdenCompraSearchRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.Search(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Liberar godoc
// @Summary      PENDIENTE → LIBERADA
// @Tags         ordenes-compra
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrdenCompraResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/liberar [post]
func (h *OrdenCompraHandler) Liberar(c *fiber.Ctx) error {
	return h.transicion(c, h.uc.Liberar)
}

// Enviar godoc
// @Summary      LIBERADA → ENVIADA
// @Tags         ordenes-compra
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrdenCompraResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/enviar [post]
func (h *OrdenCompraHandler) Enviar(c *fiber.Ctx) error {
	return h.transicion(c, h.uc.Enviar)
}

// Cerrar godoc
// @Summary      ENVIADA → CERRADA (cierre manual)
// @Tags         ordenes-compra
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrdenCompraResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/cerrar [post]
func (h *OrdenCompraHandler) Cerrar(c *fiber.Ctx) error {
	return h.transicion(c, h.uc.Cerrar)
}

// Cancelar godoc
// @Summary      Cancelar orden sin recepciones
// @Tags         ordenes-compra
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la orden"
// @Param        body  body  dto.CancelarOrdenRequest  true  "motivo"
// @Success      200   {object}  dto.OrdenCompraResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/cancelar [post]
func (h *OrdenCompraHandler) Cancelar(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var in dto.CancelarOrdenRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Cancelar(c.UserContext(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

func (h *OrdenCompraHandler) transicion(c *fiber.Ctx, fn func(ctx context.Context, id string) (*dto.OrdenCompraResponse, error)) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	out, err := fn(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar la orden en PDF
// @Tags         ordenes-compra
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/pdf [get]
func (h *OrdenCompraHandler) PDF(c *fiber.Ctx) error {
	return h.documento(c, h.docs.PDF)
}

// Excel godoc
// @Summary      Descargar la orden en Excel
// @Tags         ordenes-compra
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Router       /api/ordenes-compra/{id}/excel [get]
func (h *OrdenCompraHandler) Excel(c *fiber.Ctx) error {
	return h.documento(c, h.docs.Excel)
}

// XML godoc
// @Summary      Descargar la orden como UBL 2.1 Order
// @Tags         ordenes-compra
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Router       /api/ordenes-compra/{id}/xml [get]
func (h *OrdenCompraHandler) XML(c *fiber.Ctx) error {
	return h.documento(c, h.docs.XML)
}

func (h *OrdenCompraHandler) documento(c *fiber.Ctx, fn func(ctx context.Context, id string) (*compras.Archivo, error)) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	a, err := fn(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return attachment(c, a.Nombre, a.ContentType, a.Contenido)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/application/orders"
)

// OrderHandler maneja las peticiones HTTP de pedidos y sus líneas.
type OrderHandler struct {
	uc  *orders.OrderUseCase
	log zerolog.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear pedido
// @Description  NUEVO, COMPLETACION (clona líneas del pedido origen) o REFERENTE.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "name, client_id, kind, source_order_code, items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.Context(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, h.log, err)
	}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener pedido con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar cabecera del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "campos a modificar"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.ChangeStatusRequest  true  "status"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ChangeStatus(c.Context(), ActorFrom(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// History GET /api/orders/:id/history
func (h *OrderHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pedido (cascada de líneas, sub-registros e historial)
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), ActorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddItem godoc
// @Summary      Agregar línea al pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del pedido"
// @Param        body  body  dto.OrderItemInput  true  "línea"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/items [post]
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	var in dto.OrderItemInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.AddItem(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem godoc
// @Summary      Editar línea del pedido
// @Description  En pedidos COMPLETACION solo se aceptan cantidad y empaque.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                      true  "ID del pedido"
// @Param        itemId  path  string                      true  "ID de la línea"
// @Param        body    body  dto.UpdateOrderItemRequest  true  "campos a modificar"
// @Success      200     {object}  dto.OrderResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/items/{itemId} [put]
func (h *OrderHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateOrderItemRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.UpdateItem(c.Context(), ActorFrom(c), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeItemStatus godoc
// @Summary      Cambiar estado de una línea de diseño
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                   true  "ID del pedido"
// @Param        itemId  path  string                   true  "ID de la línea"
// @Param        body    body  dto.ChangeStatusRequest  true  "status"
// @Success      200     {object}  dto.OrderItemResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/items/{itemId}/status [put]
func (h *OrderHandler) ChangeItemStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ChangeItemStatus(c.Context(), ActorFrom(c), c.Params("id"), c.Params("itemId"), in.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ItemHistory GET /api/orders/:id/items/:itemId/history
func (h *OrderHandler) ItemHistory(c *fiber.Ctx) error {
	out, err := h.uc.ItemHistory(c.Context(), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteItem DELETE /api/orders/:id/items/:itemId
func (h *OrderHandler) DeleteItem(c *fiber.Ctx) error {
	out, err := h.uc.DeleteItem(c.Context(), ActorFrom(c), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

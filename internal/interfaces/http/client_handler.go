package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/application/thirdparty"
)

// ClientHandler maneja las peticiones HTTP de clientes (terceros).
type ClientHandler struct {
	uc  *thirdparty.ClientUseCase
	log zerolog.Logger
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *thirdparty.ClientUseCase, log zerolog.Logger) *ClientHandler {
	return &ClientHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "datos y documentos del cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.Context(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/clients/:id
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar cliente
// @Description  Cambiar identificación o documentos deja al cliente EN_REVISION e inactivo.
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del cliente"
// @Param        body  body  dto.UpdateClientRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetLegalStatus POST /api/clients/:id/legal-status
func (h *ClientHandler) SetLegalStatus(c *fiber.Ctx) error {
	var in dto.SetLegalStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SetLegalStatus(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

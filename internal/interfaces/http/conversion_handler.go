package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Stiven2023/vio-app-sub001/internal/application/conversion"
	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
)

// ConversionHandler expone la conversión cotización -> prefactura -> pedido.
type ConversionHandler struct {
	uc  *conversion.UseCase
	log zerolog.Logger
}

// NewConversionHandler construye el handler.
func NewConversionHandler(uc *conversion.UseCase, log zerolog.Logger) *ConversionHandler {
	return &ConversionHandler{uc: uc, log: log}
}

// Convert godoc
// @Summary      Convertir cotización en prefactura y pedido
// @Description  Idempotente: si la cotización ya tiene pedido se devuelve el mismo par (200).
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true   "ID de la cotización"
// @Param        body  body  dto.ConvertQuotationRequest  false  "order_name"
// @Success      201   {object}  dto.ConversionResponse
// @Success      200   {object}  dto.ConversionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/convert [post]
func (h *ConversionHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertQuotationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Convert(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out.Reused {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

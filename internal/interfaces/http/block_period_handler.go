package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-osv/internal/application/dto"
	"github.com/jhoicas/inventario-osv/internal/application/turnover"
)

// BlockPeriodHandler consulta y mueve la fecha de bloqueo.
type BlockPeriodHandler struct {
	uc *turnover.BlockPeriodUseCase
}

// NewBlockPeriodHandler construye el handler.
func NewBlockPeriodHandler(uc *turnover.BlockPeriodUseCase) *BlockPeriodHandler {
	return &BlockPeriodHandler{uc: uc}
}

// Get godoc
// @Summary      Estado del periodo bloqueado
// @Tags         block-period
// @Produce      json
// @Success      200  {object}  dto.BlockPeriodResponse
// @Router       /api/block-period [get]
func (h *BlockPeriodHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Mover la fecha de bloqueo y recalcular el snapshot
// @Tags         block-period
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BlockPeriodRequest  true  "date (YYYY-MM-DD)"
// @Success      200   {object}  dto.BlockPeriodResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/block-period [put]
func (h *BlockPeriodHandler) Update(c *fiber.Ctx) error {
	var in dto.BlockPeriodRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.RecomputeBlockPeriod(c.UserContext(), in.Date); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Status(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-osv/internal/application/data"
	"github.com/jhoicas/inventario-osv/internal/application/dto"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/render"
)

// DataHandler expone las colecciones del dataset y el motor de filtros.
type DataHandler struct {
	uc *data.UseCase
}

// NewDataHandler construye el handler.
func NewDataHandler(uc *data.UseCase) *DataHandler {
	return &DataHandler{uc: uc}
}

// Accessibility godoc
// @Summary      Estado del servicio
// @Tags         data
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /api/accessibility [get]
func (h *DataHandler) Accessibility(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{Status: "SUCCESS"})
}

// Models godoc
// @Summary      Modelos y formatos disponibles
// @Tags         data
// @Produce      json
// @Success      200  {object}  dto.ModelsResponse
// @Router       /api/models [get]
func (h *DataHandler) Models(c *fiber.Ctx) error {
	formats := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		formats[i] = f.String()
	}
	return c.JSON(dto.ModelsResponse{Models: h.uc.Models(), Formats: formats})
}

// List godoc
// @Summary      Listar una colección en el formato pedido
// @Tags         data
// @Produce      json
// @Param        kind    path   string  true   "nomenclature, unit (range), group, receipt, storage, transaction"
// @Param        format  path   string  true   "json, csv, markdown, xml"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.DataResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/data/{kind}/{format} [get]
func (h *DataHandler) List(c *fiber.Ctx) error {
	format, err := render.ParseFormat(c.Params("format"))
	if err != nil {
		return respondError(c, err)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	if err := validateStruct(page); err != nil {
		return respondError(c, err)
	}

	items, total, err := h.uc.List(c.UserContext(), c.Params("kind"), page)
	if err != nil {
		return respondError(c, err)
	}
	result, err := rendered(format, render.Records(items))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DataResponse{
		Kind:   c.Params("kind"),
		Format: format.String(),
		Result: result,
		Page:   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// Filter godoc
// @Summary      Filtrar una colección
// @Description  Body: {"model", "filters": [{"field_name", "value", "type": "EQUALS|LIKE"}], "sorting": [...]}
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        kind    path   string  true   "Tipo de entidad"
// @Param        format  query  string  false  "json, csv, markdown, xml"  default(json)
// @Success      200     {object}  dto.DataResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/data/{kind}/filter [post]
func (h *DataHandler) Filter(c *fiber.Ctx) error {
	format, err := render.ParseFormat(c.Query("format", "json"))
	if err != nil {
		return respondError(c, err)
	}
	var raw map[string]any
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&raw); err != nil {
			return invalidBody(c)
		}
	}
	items, err := h.uc.ApplyFilter(c.UserContext(), c.Params("kind"), raw)
	if err != nil {
		return respondError(c, err)
	}
	result, err := rendered(format, render.Records(items))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DataResponse{
		Kind:   c.Params("kind"),
		Format: format.String(),
		Result: result,
		Page:   dto.PageResponse{Limit: len(items), Total: len(items)},
	})
}

// rendered json se incrusta como arreglo; los demás formatos como texto.
func rendered(format render.Format, records []map[string]any) (any, error) {
	out, err := render.Render(format, records)
	if err != nil {
		return nil, err
	}
	if format == render.FormatJSON {
		return json.RawMessage(out), nil
	}
	return string(out), nil
}

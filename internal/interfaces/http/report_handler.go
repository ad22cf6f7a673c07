package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-osv/internal/application/dto"
	"github.com/jhoicas/inventario-osv/internal/application/turnover"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	infrapdf "github.com/jhoicas/inventario-osv/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/render"
)

// osvPDFGenerator lo implementa *pdf.OSVPDFGenerator.
type osvPDFGenerator interface {
	GenerateOSVPDF(ctx context.Context, header infrapdf.OSVHeader, lines []osv.ReportLine) ([]byte, error)
}

// ReportHandler OSV y saldos.
type ReportHandler struct {
	reports     *turnover.ReportUseCase
	blockPeriod *turnover.BlockPeriodUseCase
	pdf         osvPDFGenerator
}

// NewReportHandler construye el handler. pdf puede ser nil (la ruta responde 501).
func NewReportHandler(reports *turnover.ReportUseCase, blockPeriod *turnover.BlockPeriodUseCase, pdf osvPDFGenerator) *ReportHandler {
	return &ReportHandler{reports: reports, blockPeriod: blockPeriod, pdf: pdf}
}

// OSV godoc
// @Summary      Hoja de entradas, salidas y saldos (OSV)
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body    body   dto.OSVRequest  true   "date_start, date_end (YYYY-MM-DD), storage_id, filter, opening_balance"
// @Param        format  query  string          false  "json, csv, markdown, xml"  default(json)
// @Success      200     {object}  dto.ReportResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/reports/osv [post]
func (h *ReportHandler) OSV(c *fiber.Ctx) error {
	format, err := render.ParseFormat(c.Query("format", "json"))
	if err != nil {
		return respondError(c, err)
	}
	var in dto.OSVRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines, err := h.reports.GenerateOSV(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondLines(c, format, dto.ReportResponse{
		DateStart: in.DateStart,
		DateEnd:   in.DateEnd,
		StorageID: in.StorageID,
		Lines:     lines,
		Count:     len(lines),
	})
}

// OSVPDF godoc
// @Summary      OSV en PDF
// @Tags         reports
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.OSVRequest  true  "date_start, date_end (YYYY-MM-DD), storage_id, filter, opening_balance"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/osv/pdf [post]
func (h *ReportHandler) OSVPDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "generación de PDF no configurada"})
	}
	var in dto.OSVRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines, err := h.reports.GenerateOSV(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	header := infrapdf.OSVHeader{
		DateStart:   in.DateStart,
		DateEnd:     in.DateEnd,
		StorageName: in.StorageID,
		GeneratedAt: time.Now(),
	}
	if in.OpeningBalance && h.blockPeriod != nil {
		if snap := h.blockPeriod.Snapshot(); !snap.IsEmpty() {
			header.Cutoff = snap.Cutoff.Format(osv.DateLayout)
			header.Revision = snap.Revision
		}
	}
	out, err := h.pdf.GenerateOSVPDF(c.UserContext(), header, lines)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="osv_`+in.DateStart+`_`+in.DateEnd+`.pdf"`)
	return c.Send(out)
}

// Balance godoc
// @Summary      Saldos acumulados a una fecha (usa el periodo bloqueado)
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body    body   dto.BalanceRequest  true   "date_end (YYYY-MM-DD), storage_id, filter"
// @Param        format  query  string              false  "json, csv, markdown, xml"  default(json)
// @Success      200     {object}  dto.ReportResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/reports/balance [post]
func (h *ReportHandler) Balance(c *fiber.Ctx) error {
	format, err := render.ParseFormat(c.Query("format", "json"))
	if err != nil {
		return respondError(c, err)
	}
	var in dto.BalanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines, err := h.blockPeriod.GetBalance(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondLines(c, format, dto.ReportResponse{
		DateEnd:   in.DateEnd,
		StorageID: in.StorageID,
		Lines:     lines,
		Count:     len(lines),
	})
}

// respondLines json devuelve el ReportResponse; los demás formatos el documento
// renderizado con su Content-Type.
func respondLines(c *fiber.Ctx, format render.Format, out dto.ReportResponse) error {
	if out.Lines == nil {
		out.Lines = []osv.ReportLine{}
	}
	if format == render.FormatJSON {
		return c.JSON(out)
	}
	body, err := render.Render(format, render.Records(out.Lines))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(body)
}

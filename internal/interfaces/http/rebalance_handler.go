package http

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rateio-api/internal/application/dto"
	apprebalance "github.com/jhoicas/Rateio-api/internal/application/rebalance"
	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/tabular"
)

const templateFileName = "modelo_rateio"

// Formatos de salida aceptados en ?format=.
const (
	formatJSON = "json"
	formatPDF  = "pdf"
	formatXLSX = "xlsx"
	formatCSV  = "csv"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RebalanceHandler maneja las peticiones HTTP del rateo tienda a tienda (protegido).
type RebalanceHandler struct {
	uc *apprebalance.RebalanceUseCase
}

// NewRebalanceHandler construye el handler.
func NewRebalanceHandler(uc *apprebalance.RebalanceUseCase) *RebalanceHandler {
	return &RebalanceHandler{uc: uc}
}

// Run godoc
// @Summary      Ejecutar rateo sobre filas JSON
// @Tags         rebalance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body    body   dto.RebalanceRequest  true   "rows, params (opcionales), outgoing_stores, incoming_stores"
// @Param        format  query  string                false  "json (por defecto) | pdf | xlsx"
// @Success      200   {object}  dto.RebalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/rebalance [post]
func (h *RebalanceHandler) Run(c *fiber.Ctx) error {
	var in dto.RebalanceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.RunFromRequest(requestContext(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, res, formatJSON)
}

// Report godoc
// @Summary      Informe del rateo (PDF o xlsx)
// @Tags         rebalance
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body    body   dto.RebalanceRequest  true   "igual que POST /api/rebalance"
// @Param        format  query  string                false  "pdf (por defecto) | xlsx"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/rebalance/report [post]
func (h *RebalanceHandler) Report(c *fiber.Ctx) error {
	var in dto.RebalanceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.RunFromRequest(requestContext(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, res, formatPDF)
}

// Upload godoc
// @Summary      Ejecutar rateo sobre una base xlsx o CSV
// @Description  Multipart: file (.xlsx con hoja "Base", o CSV ',' / ';' en UTF-8 o Windows-1252),
//
//	outgoing_stores, incoming_stores (separadas por coma), min_days_out, target_days_in,
//	min_move, include_pending_po. format=pdf|xlsx devuelve el informe en lugar del JSON.
//
// @Tags         rebalance
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Success      200   {object}  dto.RebalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/rebalance/upload [post]
func (h *RebalanceHandler) Upload(c *fiber.Ctx) error {
	rows, form, err := readUpload(c)
	if err != nil {
		return writeError(c, err)
	}
	params, err := paramsFromForm(form)
	if err != nil {
		return writeError(c, err)
	}
	stores := dto.StoreSelectionDTO{
		OutgoingStores: splitStores(form.Value["outgoing_stores"]),
		IncomingStores: splitStores(form.Value["incoming_stores"]),
	}
	res, err := h.uc.Run(requestContext(c), apprebalance.SourceUpload, rows, params, stores)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, res, formatJSON)
}

// UploadStores godoc
// @Summary      Tiendas de una base xlsx o CSV
// @Description  Devuelve las tiendas distintas para armar la selección de salida/entrada.
// @Tags         rebalance
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Success      200   {object}  dto.StoreListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/rebalance/stores [post]
func (h *RebalanceHandler) UploadStores(c *fiber.Ctx) error {
	rows, _, err := readUpload(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StoreListResponse{Stores: apprebalance.ListStores(rows)})
}

// Template godoc
// @Summary      Planilla modelo de la base de inventario
// @Description  xlsx con hoja "Base" por defecto; format=csv devuelve solo los encabezados en CSV.
// @Tags         rebalance
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "xlsx (por defecto) | csv"
// @Success      200
// @Router       /api/rebalance/template [get]
func (h *RebalanceHandler) Template(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if strings.EqualFold(c.Query("format"), formatCSV) {
		if err := tabular.WriteTemplateCSV(&buf); err != nil {
			return writeError(c, err)
		}
		return sendFile(c, "text/csv; charset=utf-8", templateFileName+".csv", buf.Bytes())
	}
	if err := tabular.WriteTemplate(&buf); err != nil {
		return writeError(c, err)
	}
	return sendFile(c, xlsxContentType, templateFileName+".xlsx", buf.Bytes())
}

// ListSnapshots godoc
// @Summary      Bases de inventario guardadas
// @Tags         snapshots
// @Security     Bearer
// @Produce      json
// @Success      200   {array}   dto.SnapshotDTO
// @Failure      501   {object}  dto.ErrorResponse
// @Router       /api/snapshots [get]
func (h *RebalanceHandler) ListSnapshots(c *fiber.Ctx) error {
	list, err := h.uc.ListSnapshots(requestContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// SnapshotStores godoc
// @Summary      Tiendas de una base guardada
// @Tags         snapshots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "UUID (postgres) o nombre de pestaña / rango A1 (sheets)"
// @Success      200   {object}  dto.StoreListResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      501   {object}  dto.ErrorResponse
// @Router       /api/snapshots/{id}/stores [get]
func (h *RebalanceHandler) SnapshotStores(c *fiber.Ctx) error {
	stores, err := h.uc.ListSnapshotStores(requestContext(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StoreListResponse{Stores: stores})
}

// RunSnapshot godoc
// @Summary      Ejecutar rateo sobre una base guardada
// @Tags         snapshots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "id de la base"
// @Param        body  body  dto.SnapshotRebalanceRequest  true  "params, outgoing_stores, incoming_stores"
// @Param        format  query  string  false  "json (por defecto) | pdf | xlsx"
// @Success      200   {object}  dto.RebalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/snapshots/{id}/rebalance [post]
func (h *RebalanceHandler) RunSnapshot(c *fiber.Ctx) error {
	var in dto.SnapshotRebalanceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.RunSnapshot(requestContext(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, res, formatJSON)
}

// respond envía el resultado en el formato de ?format= (o def si no viene).
func (h *RebalanceHandler) respond(c *fiber.Ctx, res *dto.RebalanceResponse, def string) error {
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" {
		format = def
	}
	switch format {
	case formatJSON:
		return c.JSON(res)
	case formatPDF:
		pdf, err := h.uc.Report(requestContext(c), res)
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, "application/pdf", "rateio_"+res.RunID+".pdf", pdf)
	case formatXLSX:
		xlsx, err := h.uc.Workbook(requestContext(c), res)
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, xlsxContentType, "rateio_"+res.RunID+".xlsx", xlsx)
	default:
		return writeError(c, fmt.Errorf("%w: formato %q no soportado (json, pdf, xlsx)", domain.ErrInvalidInput, format))
	}
}

func sendFile(c *fiber.Ctx, contentType, name string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(body)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// requestContext contexto de la petición con la identidad del token.
func requestContext(c *fiber.Ctx) context.Context {
	return apprebalance.WithRequester(c.UserContext(), apprebalance.Requester{
		UserID: GetUserID(c),
		Role:   GetRole(c),
		Buyer:  GetBuyer(c),
	})
}

// readUpload parsea el multipart y la base (xlsx o CSV) del campo "file".
func readUpload(c *fiber.Ctx) ([]entity.InventoryRow, *multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: se espera multipart/form-data", domain.ErrInvalidInput)
	}
	files := form.File["file"]
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: falta el archivo 'file'", domain.ErrInvalidInput)
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, nil, fmt.Errorf("abrir archivo: %w", err)
	}
	defer f.Close()

	rows, err := tabular.ReadBase(f)
	if err != nil {
		return nil, nil, err
	}
	return rows, form, nil
}

func paramsFromForm(form *multipart.Form) (dto.RebalanceParamsDTO, error) {
	var p dto.RebalanceParamsDTO
	intField := func(name string) (*int, error) {
		v := strings.TrimSpace(first(form.Value[name]))
		if v == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s no es un entero", domain.ErrInvalidParams, name)
		}
		return &n, nil
	}
	var err error
	if p.MinDaysOut, err = intField("min_days_out"); err != nil {
		return p, err
	}
	if p.TargetDaysIn, err = intField("target_days_in"); err != nil {
		return p, err
	}
	if p.MinMove, err = intField("min_move"); err != nil {
		return p, err
	}
	if v := strings.TrimSpace(first(form.Value["include_pending_po"])); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, fmt.Errorf("%w: include_pending_po no es booleano", domain.ErrInvalidParams)
		}
		p.IncludePendingPO = &b
	}
	return p, nil
}

// splitStores acepta el campo repetido o una lista separada por coma / punto y coma.
func splitStores(values []string) []string {
	var out []string
	for _, v := range values {
		for _, s := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' }) {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

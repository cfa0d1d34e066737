package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/magic-villa-api/internal/dto"
	"github.com/iliyamo/magic-villa-api/internal/logger"
	"github.com/iliyamo/magic-villa-api/internal/service"
)

// GetVillaRoute names GET /api/villa/:id so Create can reverse it.
const GetVillaRoute = "getVilla"

// OperationRecorder counts villa operations by outcome.  *metrics.Metrics
// implements it.
type OperationRecorder interface {
	RecordOperation(operation, outcome string)
}

// VillaHandler exposes VillaService over HTTP.
type VillaHandler struct {
	svc     *service.VillaService
	metrics OperationRecorder
}

// NewVillaHandler panics on a nil service.  metrics may be nil.
func NewVillaHandler(svc *service.VillaService, metrics OperationRecorder) *VillaHandler {
	if svc == nil {
		panic("nil service passed to NewVillaHandler")
	}
	return &VillaHandler{svc: svc, metrics: metrics}
}

// List handles GET /api/villa.
func (h *VillaHandler) List(c echo.Context) error {
	villas, err := h.svc.List(requestContext(c))
	if err != nil {
		return h.fail(c, "list", err)
	}
	h.record("list", nil)
	return c.JSON(http.StatusOK, villas)
}

// Get handles GET /api/villa/:id.
func (h *VillaHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.svc.Get(requestContext(c), id)
	if err != nil {
		return h.fail(c, "get", err)
	}
	h.record("get", nil)
	return c.JSON(http.StatusOK, v)
}

// Create handles POST /api/villa and answers 201 with a Location header
// pointing at the new villa.
func (h *VillaHandler) Create(c echo.Context) error {
	var body dto.VillaCreate
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	v, err := h.svc.Create(requestContext(c), body)
	if err != nil {
		return h.fail(c, "create", err)
	}
	h.record("create", nil)
	c.Response().Header().Set(echo.HeaderLocation, c.Echo().Reverse(GetVillaRoute, v.ID))
	return c.JSON(http.StatusCreated, v)
}

// Update handles PUT /api/villa/:id.
func (h *VillaHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body dto.VillaUpdate
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.svc.Update(requestContext(c), id, body); err != nil {
		return h.fail(c, "update", err)
	}
	h.record("update", nil)
	return c.NoContent(http.StatusNoContent)
}

// Patch handles PATCH /api/villa/:id with a JSON Patch array.  A literal
// null body becomes a nil document, which the service rejects.
func (h *VillaHandler) Patch(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var ops []service.PatchOperation
	if err := json.NewDecoder(c.Request().Body).Decode(&ops); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.svc.PartialUpdate(requestContext(c), id, ops); err != nil {
		return h.fail(c, "patch", err)
	}
	h.record("patch", nil)
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/villa/:id.
func (h *VillaHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.svc.Delete(requestContext(c), id); err != nil {
		return h.fail(c, "delete", err)
	}
	h.record("delete", nil)
	return c.NoContent(http.StatusNoContent)
}

// fail writes the error body for err.  Service errors carry their own
// status; anything else is logged and hidden behind a generic 500.
func (h *VillaHandler) fail(c echo.Context, op string, err error) error {
	h.record(op, err)

	var se *service.Error
	if !errors.As(err, &se) {
		logger.FromEcho(c).Error("villa operation failed", zap.String("operation", op), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	body := echo.Map{"error": se.Message}
	if len(se.Fields) > 0 {
		body["errors"] = se.Fields
	}
	return c.JSON(statusFor(se.Kind), body)
}

func (h *VillaHandler) record(op string, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if k := service.KindOf(err); k != 0 {
			outcome = k.String()
		}
	}
	h.metrics.RecordOperation(op, outcome)
}

func statusFor(k service.Kind) int {
	switch k {
	case service.KindInvalidArgument, service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// parseID reads the :id path parameter.  Anything that is not a base-10
// integer is rejected; zero is left for the service to refuse.
func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

// requestContext returns the request context carrying the request-scoped
// logger so service logs share the request id.
func requestContext(c echo.Context) context.Context {
	ctx := c.Request().Context()
	return logger.WithContext(ctx, logger.FromEcho(c))
}

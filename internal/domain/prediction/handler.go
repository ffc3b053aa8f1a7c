package prediction

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/api"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/predictions/health", h.Health)
	g.GET("/predictions/model-info", h.ModelInfo)
	g.GET("/predictions/dataset-info", h.DatasetInfo)
	g.POST("/predictions/predict", h.Predict)
	g.POST("/predictions/predict-enhanced", h.PredictEnhanced)
	g.POST("/predictions/save", h.SavePrediction)
	g.GET("/predictions/saved", h.ListSaved)
}

func (h *Handler) Health(c echo.Context) error {
	return h.relay(c, h.svc.Health)
}

func (h *Handler) ModelInfo(c echo.Context) error {
	return h.relay(c, h.svc.ModelInfo)
}

func (h *Handler) DatasetInfo(c echo.Context) error {
	return h.relay(c, h.svc.DatasetInfo)
}

func (h *Handler) Predict(c echo.Context) error {
	return h.predict(c, false)
}

func (h *Handler) PredictEnhanced(c echo.Context) error {
	return h.predict(c, true)
}

func (h *Handler) SavePrediction(c echo.Context) error {
	var in SaveInput
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	rec, err := h.svc.Save(c.Request().Context(), api.Owner(c), &in)
	if err != nil {
		return err
	}
	return api.Updated(c, "Prediction saved successfully", rec)
}

func (h *Handler) ListSaved(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), api.Owner(c))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) relay(c echo.Context, call func(context.Context) (json.RawMessage, error)) error {
	data, err := call(c.Request().Context())
	if err != nil {
		return err
	}
	return api.OK(c, data)
}

// predict reads the body as-is so the feature map reaches the model unchanged.
func (h *Handler) predict(c echo.Context, enhanced bool) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errs.Invalid("body", "unreadable request body")
	}
	res, err := h.svc.Predict(c.Request().Context(), body, enhanced)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, api.Envelope{
		Success:   true,
		Data:      res.Data,
		Timestamp: res.Timestamp.Format(time.RFC3339Nano),
	})
}

package assessment

import (
	"github.com/labstack/echo/v4"

	"github.com/alzcare/alzcare/internal/platform/api"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/assessments", h.ListAssessments)
	g.GET("/assessments/patient/:patientId", h.ListPatientAssessments)
	g.GET("/assessments/stats/:patientId", h.GetStats)
	g.GET("/assessments/:id", h.GetAssessment)
	g.POST("/assessments", h.CreateAssessment)
	g.PUT("/assessments/:id", h.UpdateAssessment)
	g.DELETE("/assessments/:id", h.DeleteAssessment)
}

func (h *Handler) ListAssessments(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), api.Owner(c))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) ListPatientAssessments(c echo.Context) error {
	pid, err := api.ParamID(c, "patientId", "Patient")
	if err != nil {
		return err
	}
	items, err := h.svc.ListByPatient(c.Request().Context(), api.Owner(c), pid)
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) GetStats(c echo.Context) error {
	pid, err := api.ParamID(c, "patientId", "Patient")
	if err != nil {
		return err
	}
	stats, err := h.svc.Stats(c.Request().Context(), api.Owner(c), pid)
	if err != nil {
		return err
	}
	return api.OK(c, stats)
}

func (h *Handler) GetAssessment(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), api.Owner(c), id)
	if err != nil {
		return err
	}
	return api.OK(c, a)
}

func (h *Handler) CreateAssessment(c echo.Context) error {
	var in Input
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.Create(c.Request().Context(), api.Owner(c), &in)
	if err != nil {
		return err
	}
	return api.Created(c, "Assessment created successfully", a)
}

func (h *Handler) UpdateAssessment(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	var in Input
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.Update(c.Request().Context(), api.Owner(c), id, &in)
	if err != nil {
		return err
	}
	return api.Updated(c, "Assessment updated successfully", a)
}

func (h *Handler) DeleteAssessment(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), api.Owner(c), id); err != nil {
		return err
	}
	return api.Deleted(c, "Assessment deleted successfully")
}

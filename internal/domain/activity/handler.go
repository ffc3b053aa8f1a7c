package activity

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
	g.GET("/activities", h.ListActivities)
	g.GET("/activities/patient/:patientId", h.ListPatientActivities)
	g.GET("/activities/type/:type", h.ListActivitiesByType)
	g.GET("/activities/range/:startDate/:endDate", h.ListActivitiesByRange)
	g.GET("/activities/:id", h.GetActivity)
	g.POST("/activities", h.CreateActivity)
	g.PUT("/activities/:id", h.UpdateActivity)
	g.DELETE("/activities/:id", h.DeleteActivity)
}

func (h *Handler) ListActivities(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), api.Owner(c))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) ListPatientActivities(c echo.Context) error {
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

func (h *Handler) ListActivitiesByType(c echo.Context) error {
	items, err := h.svc.ListByType(c.Request().Context(), api.Owner(c), api.PathText(c, "type"))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) ListActivitiesByRange(c echo.Context) error {
	items, err := h.svc.ListByRange(c.Request().Context(), api.Owner(c), c.Param("startDate"), c.Param("endDate"))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) GetActivity(c echo.Context) error {
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

func (h *Handler) CreateActivity(c echo.Context) error {
	var in Input
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.Create(c.Request().Context(), api.Owner(c), &in)
	if err != nil {
		return err
	}
	return api.Created(c, "Activity created successfully", a)
}

func (h *Handler) UpdateActivity(c echo.Context) error {
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
	return api.Updated(c, "Activity updated successfully", a)
}

func (h *Handler) DeleteActivity(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), api.Owner(c), id); err != nil {
		return err
	}
	return api.Deleted(c, "Activity deleted successfully")
}

package patient

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
	g.GET("/patients", h.ListPatients)
	g.GET("/patients/search/:query", h.SearchPatients)
	g.GET("/patients/:id", h.GetPatient)
	g.POST("/patients", h.CreatePatient)
	g.PUT("/patients/:id", h.UpdatePatient)
	g.DELETE("/patients/:id", h.DeletePatient)
}

func (h *Handler) ListPatients(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), api.Owner(c))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) SearchPatients(c echo.Context) error {
	items, err := h.svc.Search(c.Request().Context(), api.Owner(c), api.PathText(c, "query"))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), api.Owner(c), id)
	if err != nil {
		return err
	}
	return api.OK(c, p)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in Input
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	p, err := h.svc.Create(c.Request().Context(), api.Owner(c), &in)
	if err != nil {
		return err
	}
	return api.Created(c, "Patient created successfully", p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	var in Input
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	p, err := h.svc.Update(c.Request().Context(), api.Owner(c), id, &in)
	if err != nil {
		return err
	}
	return api.Updated(c, "Patient updated successfully", p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), api.Owner(c), id); err != nil {
		return err
	}
	return api.Deleted(c, "Patient deleted successfully")
}

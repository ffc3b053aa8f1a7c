package medication

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
	g.GET("/medications", h.ListMedications)
	g.GET("/medications/patient/:patientId", h.ListPatientMedications)
	g.GET("/medications/:id", h.GetMedication)
	g.POST("/medications", h.CreateMedication)
	g.PUT("/medications/:id", h.UpdateMedication)
	g.PUT("/medications/:id/taken", h.MarkTaken)
	g.DELETE("/medications/:id", h.DeleteMedication)
}

func (h *Handler) ListMedications(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), api.Owner(c))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) ListPatientMedications(c echo.Context) error {
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

func (h *Handler) GetMedication(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	m, err := h.svc.Get(c.Request().Context(), api.Owner(c), id)
	if err != nil {
		return err
	}
	return api.OK(c, m)
}

func (h *Handler) CreateMedication(c echo.Context) error {
	var in Input
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	m, err := h.svc.Create(c.Request().Context(), api.Owner(c), &in)
	if err != nil {
		return err
	}
	return api.Created(c, "Medication created successfully", m)
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	var in Input
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	m, err := h.svc.Update(c.Request().Context(), api.Owner(c), id, &in)
	if err != nil {
		return err
	}
	return api.Updated(c, "Medication updated successfully", m)
}

func (h *Handler) MarkTaken(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	var in TakenInput
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	m, err := h.svc.MarkTaken(c.Request().Context(), api.Owner(c), id, &in)
	if err != nil {
		return err
	}
	return api.Updated(c, "Medication taken time updated", m)
}

func (h *Handler) DeleteMedication(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), api.Owner(c), id); err != nil {
		return err
	}
	return api.Deleted(c, "Medication deleted successfully")
}

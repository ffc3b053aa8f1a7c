package appointment

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
	g.GET("/appointments", h.ListAppointments)
	g.GET("/appointments/upcoming", h.ListUpcoming)
	g.GET("/appointments/patient/:patientId", h.ListPatientAppointments)
	g.GET("/appointments/:id", h.GetAppointment)
	g.POST("/appointments", h.CreateAppointment)
	g.PUT("/appointments/:id", h.UpdateAppointment)
	g.PUT("/appointments/:id/status", h.UpdateStatus)
	g.DELETE("/appointments/:id", h.DeleteAppointment)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), api.Owner(c))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) ListUpcoming(c echo.Context) error {
	items, err := h.svc.Upcoming(c.Request().Context(), api.Owner(c))
	if err != nil {
		return err
	}
	return api.List(c, items)
}

func (h *Handler) ListPatientAppointments(c echo.Context) error {
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

func (h *Handler) GetAppointment(c echo.Context) error {
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

func (h *Handler) CreateAppointment(c echo.Context) error {
	var in Input
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.Create(c.Request().Context(), api.Owner(c), &in)
	if err != nil {
		return err
	}
	return api.Created(c, "Appointment created successfully", a)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
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
	return api.Updated(c, "Appointment updated successfully", a)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	var in StatusInput
	if err := api.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.SetStatus(c.Request().Context(), api.Owner(c), id, &in)
	if err != nil {
		return err
	}
	return api.Updated(c, "Appointment status updated", a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := api.ParamID(c, "id", kind)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), api.Owner(c), id); err != nil {
		return err
	}
	return api.Deleted(c, "Appointment deleted successfully")
}

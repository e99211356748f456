package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abdultalha08475/doc-appt-booking-flow/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/me/profile", h.GetMine)
	api.PUT("/me/profile", h.SaveMine)
}

func (h *Handler) GetMine(c echo.Context) error {
	sess := auth.SessionFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) SaveMine(c echo.Context) error {
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess := auth.SessionFromContext(c.Request().Context())
	p.ID = sess.UserID
	if err := h.svc.Save(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

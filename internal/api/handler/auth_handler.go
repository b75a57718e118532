package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hdfops/field-console/internal/core/domain"
	"github.com/hdfops/field-console/internal/core/ports"
)

// AuthHandler exposes login, logout and the active session.
type AuthHandler struct {
	guard   ports.SessionGuard
	monitor ports.SessionMonitor
	probe   ports.LocationProbe
}

func NewAuthHandler(guard ports.SessionGuard, monitor ports.SessionMonitor, probe ports.LocationProbe) *AuthHandler {
	return &AuthHandler{guard: guard, monitor: monitor, probe: probe}
}

// Login authenticates an operator and returns the session token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      412   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.guard.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Token:    session.Token,
		User:     toUserView(&session.User),
		IssuedAt: session.IssuedAt,
	})
}

// Logout ends the active session. Safe to call when already signed out.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.guard.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, messageResponse{Message: "signed out"})
}

// Session returns the active session's operator.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	user := h.guard.Current()
	if user == nil {
		return domain.ErrNoSession
	}
	return c.JSON(http.StatusOK, sessionResponse{User: toUserView(user)})
}

// CheckPermission answers a permission-tag query for the active session.
//
// @Summary      Check a permission tag
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        tag  path      string  true  "Permission tag"
// @Success      200  {object}  permissionResponse
// @Router       /v1/session/permissions/{tag} [get]
func (h *AuthHandler) CheckPermission(c echo.Context) error {
	tag := c.Param("tag")
	return c.JSON(http.StatusOK, permissionResponse{
		Permission: tag,
		Allowed:    h.guard.HasPermission(tag),
	})
}

// LocationStatus reports location capability availability and, when the
// gateway answers, the operator's permission state.
//
// @Summary      Location capability status
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  locationStatusResponse
// @Router       /v1/session/location [get]
func (h *AuthHandler) LocationStatus(c echo.Context) error {
	ctx := c.Request().Context()

	resp := locationStatusResponse{Available: h.monitor.Available(ctx)}
	if state, err := h.probe.PermissionState(ctx); err == nil {
		resp.PermissionState = string(state)
	}

	return c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hdfops/field-console/internal/core/ports"
)

// DirectoryHandler serves the operator and role directory backed by the
// credential store's in-memory snapshot.
type DirectoryHandler struct {
	store ports.CredentialDirectory
	log   zerolog.Logger
}

func NewDirectoryHandler(store ports.CredentialDirectory, log zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{store: store, log: log}
}

// ListUsers returns the current operator directory.
//
// @Summary      List operators
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userView
// @Failure      403  {object}  errorResponse
// @Router       /v1/users [get]
func (h *DirectoryHandler) ListUsers(c echo.Context) error {
	users := h.store.Users()
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}
	return c.JSON(http.StatusOK, views)
}

// ListRoles returns the current role directory.
//
// @Summary      List roles
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   roleView
// @Failure      403  {object}  errorResponse
// @Router       /v1/roles [get]
func (h *DirectoryHandler) ListRoles(c echo.Context) error {
	roles := h.store.Roles()
	views := make([]roleView, 0, len(roles))
	for i := range roles {
		views = append(views, toRoleView(&roles[i]))
	}
	return c.JSON(http.StatusOK, views)
}

// ReplaceUsers adopts a full replacement operator list pushed by the admin
// screens, without a service restart.
//
// @Summary      Replace the operator list
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      replaceUsersRequest  true  "Full replacement operator list"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/users [put]
func (h *DirectoryHandler) ReplaceUsers(c echo.Context) error {
	var req replaceUsersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	users := req.toDomain()
	if err := h.store.ReplaceUsers(c.Request().Context(), users); err != nil {
		return err
	}

	actor, _, _ := ctxClaims(c)
	h.log.Info().Str("actor", actor).Int("users", len(users)).Msg("operator list replaced")

	return c.JSON(http.StatusOK, messageResponse{Message: "operator list replaced", Count: len(users)})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userdesk/user-management/internal/api/metrics"
	"github.com/userdesk/user-management/internal/api/middleware"
	"github.com/userdesk/user-management/internal/core/domain"
	"github.com/userdesk/user-management/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// UserHandler exposes the admin-facing user directory.
type UserHandler struct {
	userService ports.UserService
	activity    ports.ActivityRecorder
}

func NewUserHandler(userService ports.UserService, activity ports.ActivityRecorder) *UserHandler {
	return &UserHandler{userService: userService, activity: activity}
}

type listUsersResponse struct {
	Data  []*domain.User `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type updateRoleRequest struct {
	RoleName string `json:"roleName" validate:"required"`
}

type userResponse struct {
	Data *domain.User `json:"data"`
}

type rolesResponse struct {
	Data []*domain.Role `json:"data"`
}

// List handles GET /users — paginated, searchable directory listing.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "1-based page number"
// @Param        limit   query  int     false  "page size (max 100)"
// @Param        search  query  string  false  "substring match on name or email"
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page := queryInt(c, "page", defaultPage)
	limit := queryInt(c, "limit", defaultLimit)
	search := c.QueryParam("search")

	result, err := h.userService.List(c.Request().Context(), page, limit, search)
	if err != nil {
		return err
	}

	data := result.Users
	if data == nil {
		data = []*domain.User{}
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Data:  data,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// UpdateRole handles PUT /users/:id — re-assigns the user's role.
//
// @Summary      Update a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "user id"
// @Param        body  body  updateRoleRequest  true  "new role"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateRole(c.Request().Context(), c.Param("id"), req.RoleName)
	if err != nil {
		return err
	}

	metrics.RoleChangesTotal.WithLabelValues(user.RoleName).Inc()
	h.record(c, domain.ActivityEntry{Action: "role_change", Subject: user.ID, Detail: user.RoleName})

	return c.JSON(http.StatusOK, userResponse{Data: user})
}

// Delete handles DELETE /users/:id — permanently removes the user.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "user id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.UsersDeletedTotal.Inc()
	h.record(c, domain.ActivityEntry{Action: "delete", Subject: id})

	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted"})
}

// Roles handles GET /roles — lists all provisioned roles.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  rolesResponse
// @Failure      401  {object}  map[string]string
// @Router       /roles [get]
func (h *UserHandler) Roles(c echo.Context) error {
	roles, err := h.userService.Roles(c.Request().Context())
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []*domain.Role{}
	}
	return c.JSON(http.StatusOK, rolesResponse{Data: roles})
}

func (h *UserHandler) record(c echo.Context, entry domain.ActivityEntry) {
	if h.activity == nil {
		return
	}
	if claims, ok := middleware.SessionFromContext(c); ok {
		entry.Actor = claims.Email
	}
	h.activity.Record(entry)
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or not numeric. Range clamping happens in the service.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/showcase-judging/internal/admin"
	"github.com/Spok95/showcase-judging/internal/validate"
)

func (h *handler) listUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := h.Admin.ListUsers(c.Request.Context(), page, size, c.Query("search"))
	if err != nil {
		h.fail(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) createUser(c *gin.Context) {
	var in admin.CreateUserInput
	if !h.bind(c, &in) {
		return
	}
	p, err := h.Admin.CreateUser(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handler) updateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in admin.UpdateUserInput
	if !h.bind(c, &in) {
		return
	}
	p, err := h.Admin.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, "update user", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) deleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor, _ := viewer(c)
	if err := h.Admin.DeleteUser(c.Request.Context(), actor, id); err != nil {
		h.fail(c, "delete user", err)
		return
	}
	// вместе с профилем каскадно ушли его оценки
	h.invalidateAll(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func checkBulkSize(n int) error {
	if n == 0 {
		return validate.Invalid("no items")
	}
	if n > admin.MaxBulkItems {
		return validate.Invalid("at most %d items per request, got %d", admin.MaxBulkItems, n)
	}
	return nil
}

func (h *handler) bulkImport(c *gin.Context) {
	var req struct {
		Users []admin.CreateUserInput `json:"users"`
	}
	if !h.bind(c, &req) {
		return
	}
	if err := checkBulkSize(len(req.Users)); err != nil {
		h.fail(c, "bulk import", err)
		return
	}
	c.JSON(http.StatusOK, h.Admin.BulkImport(c.Request.Context(), req.Users))
}

func (h *handler) bulkUpdate(c *gin.Context) {
	var req struct {
		Users []admin.BulkUpdateItem `json:"users"`
	}
	if !h.bind(c, &req) {
		return
	}
	if err := checkBulkSize(len(req.Users)); err != nil {
		h.fail(c, "bulk update", err)
		return
	}
	c.JSON(http.StatusOK, h.Admin.BulkUpdate(c.Request.Context(), req.Users))
}

// assignRole берёт id из пути; user_id в теле необязателен, но должен совпадать.
func (h *handler) assignRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in admin.RoleAssignment
	if !h.bind(c, &in) {
		return
	}
	if in.UserID != "" && in.UserID != id {
		h.fail(c, "assign role", validate.Invalid("user_id %q does not match path", in.UserID))
		return
	}
	in.UserID = id
	if err := h.Admin.AssignRole(c.Request.Context(), in); err != nil {
		h.fail(c, "assign role", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "role": in.Role})
}

func (h *handler) cleanupStorage(c *gin.Context) {
	dryRun := true
	if v := c.Query("dry_run"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.fail(c, "storage cleanup", validate.Invalid("dry_run must be a boolean"))
			return
		}
		dryRun = b
	}
	rep, err := h.Admin.CleanupOrphans(c.Request.Context(), dryRun)
	if err != nil {
		h.fail(c, "storage cleanup", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *handler) health(c *gin.Context) {
	rep := h.Admin.Health(c.Request.Context())
	code := http.StatusOK
	if rep.Status == admin.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, rep)
}

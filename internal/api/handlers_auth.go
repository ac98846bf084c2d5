package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/auth"
	"github.com/Spok95/showcase-judging/internal/db"
	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/validate"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=200"`
}

// register: самостоятельная регистрация, всегда с ролью user.
func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if !h.bind(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validate.Struct(req); err != nil {
		h.fail(c, "register", err)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(c, "register", validate.Invalid("%v", err))
		return
	}
	p, err := h.Store.CreateProfile(c.Request.Context(), models.Profile{
		Email: req.Email, PasswordHash: hash, FullName: req.FullName, Role: models.RoleUser,
	})
	if err != nil {
		h.fail(c, "register", err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, p)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}
	p, err := h.Store.GetProfileByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, db.ErrNotFound) {
		h.fail(c, "login", auth.ErrInvalidCredentials)
		return
	}
	if err != nil {
		h.fail(c, "login", err)
		return
	}
	if err := auth.CheckPassword(p.PasswordHash, req.Password); err != nil {
		h.log.Info("login rejected", zap.String("profile_id", p.ID))
		h.fail(c, "login", err)
		return
	}
	h.respondWithToken(c, http.StatusOK, p)
}

func (h *handler) respondWithToken(c *gin.Context, code int, p *models.Profile) {
	tok, err := h.Tokens.Issue(p.ID, p.Role)
	if err != nil {
		h.fail(c, "issue token", err)
		return
	}
	c.JSON(code, gin.H{"token": tok, "profile": p})
}

func (h *handler) me(c *gin.Context) {
	id, _ := viewer(c)
	p, err := h.Store.GetProfileByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

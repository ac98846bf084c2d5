package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/db"
	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/validate"
)

// idParam returns a path uuid; malformed ids are answered with 404 right away.
func idParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": db.ErrNotFound.Error()})
		return "", false
	}
	return id, true
}

type productInput struct {
	Name         string   `json:"name" validate:"required,min=1,max=120"`
	Tagline      string   `json:"tagline" validate:"max=200"`
	Description  string   `json:"description" validate:"max=10000"`
	WebsiteURL   *string  `json:"website_url" validate:"omitempty,link"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,link"`
	Categories   []string `json:"categories" validate:"max=10,dive,min=1,max=50"`
	Technologies []string `json:"technologies" validate:"max=30,dive,min=1,max=50"`
	Status       string   `json:"status" validate:"omitempty,oneof=draft pending"`
	Screenshots  []string `json:"screenshots" validate:"max=10,dive,link"`
}

type productPatch struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=120"`
	Tagline      *string  `json:"tagline" validate:"omitempty,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=10000"`
	WebsiteURL   *string  `json:"website_url" validate:"omitempty,link"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,link"`
	Categories   []string `json:"categories" validate:"omitempty,max=10,dive,min=1,max=50"`
	Technologies []string `json:"technologies" validate:"omitempty,max=30,dive,min=1,max=50"`
}

func (h *handler) listProducts(c *gin.Context) {
	_, role := viewer(c)
	f := models.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	f.Limit, _ = strconv.Atoi(c.Query("limit"))
	f.Offset, _ = strconv.Atoi(c.Query("offset"))

	approved := models.StatusApproved
	f.Status = &approved
	if role == models.RoleAdmin {
		f.Status = nil
		if s := models.ProductStatus(c.Query("status")); s != "" {
			if !s.Valid() {
				h.fail(c, "list products", validate.Invalid("unknown status %q", s))
				return
			}
			f.Status = &s
		}
	}
	list, err := h.Store.ListProducts(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "list products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

func (h *handler) createProduct(c *gin.Context) {
	var in productInput
	if !h.bind(c, &in) {
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		h.fail(c, "create product", err)
		return
	}
	status := models.ProductStatus(in.Status)
	if status == "" {
		status = models.StatusDraft
	}
	uid, _ := viewer(c)
	ctx := c.Request.Context()
	p, err := h.Store.CreateProduct(ctx, models.Product{
		Name:         in.Name,
		Tagline:      strings.TrimSpace(in.Tagline),
		Description:  in.Description,
		WebsiteURL:   in.WebsiteURL,
		ImageURL:     in.ImageURL,
		Categories:   nonNil(in.Categories),
		Technologies: nonNil(in.Technologies),
		Status:       status,
		CreatedBy:    uid,
	})
	if err != nil {
		h.fail(c, "create product", err)
		return
	}

	// Скриншоты пишутся после продукта; сбой не откатывает продукт, а попадает в warnings.
	shots := []models.Screenshot{}
	warnings := []string{}
	for i, u := range in.Screenshots {
		s, err := h.Store.AddScreenshot(ctx, p.ID, u, i)
		if err != nil {
			h.log.Warn("screenshot not saved", zap.String("product_id", p.ID), zap.Int("position", i), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("screenshot %d not saved", i))
			continue
		}
		shots = append(shots, *s)
	}

	if p.Status == models.StatusPending {
		h.notifyPending(ctx, p)
	}
	c.JSON(http.StatusCreated, gin.H{"product": p, "screenshots": shots, "warnings": warnings})
}

func (h *handler) notifyPending(ctx context.Context, p *models.Product) {
	h.Notify.NotifyAdmins(context.WithoutCancel(ctx),
		fmt.Sprintf("🆕 Product awaiting moderation: %s\nid: %s", p.Name, p.ID))
}

// visibleProduct загружает продукт; неодобренные видны только мейкерам и админам.
func (h *handler) visibleProduct(c *gin.Context, id string) (*models.Product, bool) {
	ctx := c.Request.Context()
	p, err := h.Store.GetProduct(ctx, id)
	if err != nil {
		h.fail(c, "get product", err)
		return nil, false
	}
	if p.Status == models.StatusApproved {
		return p, true
	}
	uid, role := viewer(c)
	if role == models.RoleAdmin || (uid != "" && uid == p.CreatedBy) {
		return p, true
	}
	if role == models.RoleJudge {
		if ok, err := h.Store.IsJudgeAssigned(ctx, uid, id); err == nil && ok {
			return p, true
		}
	}
	if uid != "" {
		if ok, err := h.Store.IsMaker(ctx, id, uid); err == nil && ok {
			return p, true
		}
	}
	h.fail(c, "get product", db.ErrNotFound)
	return nil, false
}

func (h *handler) getProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, ok := h.visibleProduct(c, id)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	makers, err := h.Store.ListMakers(ctx, id)
	if err != nil {
		h.fail(c, "list makers", err)
		return
	}
	shots, err := h.Store.ListScreenshots(ctx, id)
	if err != nil {
		h.fail(c, "list screenshots", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p, "makers": makers, "screenshots": shots})
}

// editableProduct: менять продукт может его создатель или админ.
func (h *handler) editableProduct(c *gin.Context, op string) (*models.Product, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	p, err := h.Store.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.fail(c, op, err)
		return nil, false
	}
	uid, role := viewer(c)
	if role != models.RoleAdmin && uid != p.CreatedBy {
		h.fail(c, op, errForbidden)
		return nil, false
	}
	return p, true
}

func (h *handler) updateProduct(c *gin.Context) {
	p, ok := h.editableProduct(c, "update product")
	if !ok {
		return
	}
	var in productPatch
	if !h.bind(c, &in) {
		return
	}
	if err := validate.Struct(in); err != nil {
		h.fail(c, "update product", err)
		return
	}
	out, err := h.Store.UpdateProduct(c.Request.Context(), p.ID, db.ProductUpdate{
		Name:         in.Name,
		Tagline:      in.Tagline,
		Description:  in.Description,
		WebsiteURL:   in.WebsiteURL,
		ImageURL:     in.ImageURL,
		Categories:   in.Categories,
		Technologies: in.Technologies,
	})
	if err != nil {
		h.fail(c, "update product", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) deleteProduct(c *gin.Context) {
	p, ok := h.editableProduct(c, "delete product")
	if !ok {
		return
	}
	if err := h.Store.DeleteProduct(c.Request.Context(), p.ID); err != nil {
		h.fail(c, "delete product", err)
		return
	}
	h.invalidate(c.Request.Context(), p.ID)
	c.Status(http.StatusNoContent)
}

func (h *handler) addMaker(c *gin.Context) {
	p, ok := h.editableProduct(c, "add maker")
	if !ok {
		return
	}
	var req struct {
		ProfileID string `json:"profile_id" binding:"required"`
	}
	if !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if _, err := uuid.Parse(req.ProfileID); err != nil {
		h.fail(c, "add maker", validate.Invalid("profile_id must be a UUID"))
		return
	}
	if _, err := h.Store.GetProfileByID(ctx, req.ProfileID); err != nil {
		h.fail(c, "add maker", err)
		return
	}
	if err := h.Store.AddMaker(ctx, p.ID, req.ProfileID); err != nil {
		h.fail(c, "add maker", err)
		return
	}
	makers, err := h.Store.ListMakers(ctx, p.ID)
	if err != nil {
		h.fail(c, "list makers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"makers": makers})
}

func (h *handler) removeMaker(c *gin.Context) {
	p, ok := h.editableProduct(c, "remove maker")
	if !ok {
		return
	}
	profileID, ok := idParam(c, "profileId")
	if !ok {
		return
	}
	if err := h.Store.RemoveMaker(c.Request.Context(), p.ID, profileID); err != nil {
		h.fail(c, "remove maker", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) upvote(on bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if _, ok := h.visibleProduct(c, id); !ok {
			return
		}
		uid, _ := viewer(c)
		n, err := h.Store.SetUpvote(c.Request.Context(), id, uid, on)
		if err != nil {
			h.fail(c, "upvote", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"upvotes": n})
	}
}

// moderationTargets: статусы, в которые админ может перевести продукт.
var moderationTargets = map[models.ProductStatus]bool{
	models.StatusApproved: true,
	models.StatusRejected: true,
	models.StatusDraft:    true,
}

func (h *handler) setStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.ProductStatus `json:"status" binding:"required"`
	}
	if !h.bind(c, &req) {
		return
	}
	if !moderationTargets[req.Status] {
		h.fail(c, "set status", validate.Invalid("status must be one of approved, rejected, draft"))
		return
	}
	p, err := h.Store.SetProductStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.fail(c, "set status", err)
		return
	}
	h.log.Info("product moderated", zap.String("product_id", id), zap.String("status", string(p.Status)))
	c.JSON(http.StatusOK, p)
}

func (h *handler) invalidate(ctx context.Context, productID string) {
	if h.Cache != nil {
		h.Cache.Invalidate(ctx, productID)
	}
}

// invalidateAll: критерии и судьи входят в сводку каждого продукта.
func (h *handler) invalidateAll(ctx context.Context) {
	if h.Cache != nil {
		h.Cache.InvalidateAll(ctx)
	}
}

func nonNil(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

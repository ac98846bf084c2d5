package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/scoring"
	"github.com/Spok95/showcase-judging/internal/validate"
)

func (h *handler) evaluation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, ok := h.visibleProduct(c, id); !ok {
		return
	}
	ev, err := h.Evaluations.Evaluation(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "evaluation", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *handler) listCriteria(c *gin.Context) {
	list, err := h.Store.ListCriteria(c.Request.Context())
	if err != nil {
		h.fail(c, "list criteria", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"criteria": list})
}

type criteriaInput struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Type        *models.CriteriaType `json:"type"`
	Weight      *float64             `json:"weight"`
	MinValue    *int                 `json:"min_value"`
	MaxValue    *int                 `json:"max_value"`
	Position    *int                 `json:"position"`
}

// apply накладывает заданные поля на c; для не-rating границы сбрасываются.
func (in criteriaInput) apply(c models.JudgingCriteria) models.JudgingCriteria {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
	if in.Weight != nil {
		c.Weight = *in.Weight
	}
	if in.MinValue != nil {
		c.MinValue = in.MinValue
	}
	if in.MaxValue != nil {
		c.MaxValue = in.MaxValue
	}
	if in.Position != nil {
		c.Position = *in.Position
	}
	if c.Type != models.CriteriaRating {
		c.MinValue, c.MaxValue = nil, nil
	}
	return c
}

func (h *handler) createCriteria(c *gin.Context) {
	var in criteriaInput
	if !h.bind(c, &in) {
		return
	}
	cr := in.apply(models.JudgingCriteria{})
	if err := scoring.ValidateCriterion(cr); err != nil {
		h.fail(c, "create criteria", err)
		return
	}
	out, err := h.Store.CreateCriteria(c.Request.Context(), cr)
	if err != nil {
		h.fail(c, "create criteria", err)
		return
	}
	h.invalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, out)
}

func (h *handler) updateCriteria(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in criteriaInput
	if !h.bind(c, &in) {
		return
	}
	ctx := c.Request.Context()
	cur, err := h.Store.GetCriteria(ctx, id)
	if err != nil {
		h.fail(c, "update criteria", err)
		return
	}
	cr := in.apply(*cur)
	if err := scoring.ValidateCriterion(cr); err != nil {
		h.fail(c, "update criteria", err)
		return
	}
	out, err := h.Store.UpdateCriteria(ctx, cr)
	if err != nil {
		h.fail(c, "update criteria", err)
		return
	}
	h.invalidateAll(ctx)
	c.JSON(http.StatusOK, out)
}

func (h *handler) deleteCriteria(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteCriteria(c.Request.Context(), id); err != nil {
		h.fail(c, "delete criteria", err)
		return
	}
	h.invalidateAll(c.Request.Context())
	c.Status(http.StatusNoContent)
}

type assignmentRequest struct {
	JudgeID   string `json:"judge_id" validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required,uuid"`
}

func (h *handler) assignJudge(c *gin.Context) {
	var req assignmentRequest
	if !h.bind(c, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		h.fail(c, "assign judge", err)
		return
	}
	ctx := c.Request.Context()
	p, err := h.Store.GetProfileByID(ctx, req.JudgeID)
	if err != nil {
		h.fail(c, "assign judge", err)
		return
	}
	if p.Role != models.RoleJudge {
		h.fail(c, "assign judge", validate.Invalid("profile %s is not a judge", p.ID))
		return
	}
	if _, err := h.Store.GetProduct(ctx, req.ProductID); err != nil {
		h.fail(c, "assign judge", err)
		return
	}
	if err := h.Store.AssignJudge(ctx, req.JudgeID, req.ProductID); err != nil {
		h.fail(c, "assign judge", err)
		return
	}
	h.log.Info("judge assigned", zap.String("judge_id", req.JudgeID), zap.String("product_id", req.ProductID))
	c.Status(http.StatusNoContent)
}

func (h *handler) unassignJudge(c *gin.Context) {
	var req assignmentRequest
	if !h.bind(c, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		h.fail(c, "unassign judge", err)
		return
	}
	if err := h.Store.UnassignJudge(c.Request.Context(), req.JudgeID, req.ProductID); err != nil {
		h.fail(c, "unassign judge", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// assignedProduct пропускает только судью, назначенного на продукт.
func (h *handler) assignedProduct(c *gin.Context, op string) (productID, judgeID string, ok bool) {
	productID, ok = idParam(c, "id")
	if !ok {
		return "", "", false
	}
	judgeID, _ = viewer(c)
	assigned, err := h.Store.IsJudgeAssigned(c.Request.Context(), judgeID, productID)
	if err != nil {
		h.fail(c, op, err)
		return "", "", false
	}
	if !assigned {
		h.fail(c, op, errNotJudge)
		return "", "", false
	}
	return productID, judgeID, true
}

type submissionInput struct {
	CriteriaID   string   `json:"criteria_id"`
	RatingValue  *float64 `json:"rating_value"`
	BooleanValue *bool    `json:"boolean_value"`
	TextValue    *string  `json:"text_value"`
}

// putSubmissions сначала проверяет все значения, затем сохраняет их по одному.
func (h *handler) putSubmissions(c *gin.Context) {
	productID, judgeID, ok := h.assignedProduct(c, "put submissions")
	if !ok {
		return
	}
	var req struct {
		Submissions []submissionInput `json:"submissions" binding:"required"`
	}
	if !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	criteria, err := h.Store.ListCriteria(ctx)
	if err != nil {
		h.fail(c, "put submissions", err)
		return
	}
	byID := make(map[string]models.JudgingCriteria, len(criteria))
	for _, cr := range criteria {
		byID[cr.ID] = cr
	}

	subs := make([]models.JudgingSubmission, 0, len(req.Submissions))
	for _, in := range req.Submissions {
		cr, found := byID[in.CriteriaID]
		if !found {
			h.fail(c, "put submissions", validate.Invalid("unknown criteria_id %q", in.CriteriaID))
			return
		}
		s := models.JudgingSubmission{
			JudgeID:      judgeID,
			ProductID:    productID,
			CriteriaID:   in.CriteriaID,
			RatingValue:  in.RatingValue,
			BooleanValue: in.BooleanValue,
			TextValue:    in.TextValue,
		}
		if err := scoring.ValidateSubmission(cr, s); err != nil {
			h.fail(c, "put submissions", err)
			return
		}
		subs = append(subs, s)
	}
	for _, s := range subs {
		if err := h.Store.UpsertSubmission(ctx, s); err != nil {
			h.invalidate(ctx, productID)
			h.fail(c, "put submissions", err)
			return
		}
	}
	h.invalidate(ctx, productID)
	c.JSON(http.StatusOK, gin.H{"saved": len(subs)})
}

func (h *handler) putNotes(c *gin.Context) {
	productID, judgeID, ok := h.assignedProduct(c, "put notes")
	if !ok {
		return
	}
	var req struct {
		Notes string `json:"notes" validate:"max=20000"`
	}
	if !h.bind(c, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		h.fail(c, "put notes", err)
		return
	}
	if err := h.Store.UpsertNote(c.Request.Context(), models.JudgingNote{
		JudgeID: judgeID, ProductID: productID, Notes: req.Notes,
	}); err != nil {
		h.fail(c, "put notes", err)
		return
	}
	c.Status(http.StatusNoContent)
}

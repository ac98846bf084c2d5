package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/models"
)

const MaxBulkItems = 500

type BulkUpdateItem struct {
	UserID string `json:"user_id" validate:"required"`
	UpdateUserInput
}

type BulkFailure struct {
	Index  int    `json:"index"`
	Email  string `json:"email,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Error  string `json:"error"`
}

// BulkResult: каждый элемент обрабатывается независимо, ошибка одного не прерывает остальные.
type BulkResult struct {
	Succeeded []models.Profile `json:"succeeded"`
	Failed    []BulkFailure    `json:"failed"`
}

func newBulkResult() *BulkResult {
	return &BulkResult{Succeeded: []models.Profile{}, Failed: []BulkFailure{}}
}

func (s *Service) BulkImport(ctx context.Context, items []CreateUserInput) *BulkResult {
	res := newBulkResult()
	for i, in := range items {
		if ctx.Err() != nil {
			res.Failed = append(res.Failed, BulkFailure{Index: i, Email: in.Email, Error: ctx.Err().Error()})
			continue
		}
		p, err := s.CreateUser(ctx, in)
		if err != nil {
			res.Failed = append(res.Failed, BulkFailure{Index: i, Email: in.Email, Error: err.Error()})
			continue
		}
		res.Succeeded = append(res.Succeeded, *p)
	}
	s.log.Info("bulk import finished", zap.Int("succeeded", len(res.Succeeded)), zap.Int("failed", len(res.Failed)))
	return res
}

func (s *Service) BulkUpdate(ctx context.Context, items []BulkUpdateItem) *BulkResult {
	res := newBulkResult()
	for i, it := range items {
		if ctx.Err() != nil {
			res.Failed = append(res.Failed, BulkFailure{Index: i, UserID: it.UserID, Error: ctx.Err().Error()})
			continue
		}
		if it.UserID == "" {
			res.Failed = append(res.Failed, BulkFailure{Index: i, Error: "user_id is required"})
			continue
		}
		p, err := s.UpdateUser(ctx, it.UserID, it.UpdateUserInput)
		if err != nil {
			res.Failed = append(res.Failed, BulkFailure{Index: i, UserID: it.UserID, Error: err.Error()})
			continue
		}
		res.Succeeded = append(res.Succeeded, *p)
	}
	s.log.Info("bulk update finished", zap.Int("succeeded", len(res.Succeeded)), zap.Int("failed", len(res.Failed)))
	return res
}

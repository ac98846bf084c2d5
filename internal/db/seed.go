package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/scoring"
)

//go:embed criteria.yaml
var defaultCriteriaYAML []byte

type criteriaFile struct {
	Criteria []models.JudgingCriteria `yaml:"criteria"`
}

func ParseCriteria(raw []byte) ([]models.JudgingCriteria, error) {
	var f criteriaFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse criteria: %w", err)
	}
	for i, c := range f.Criteria {
		if err := scoring.ValidateCriterion(c); err != nil {
			return nil, fmt.Errorf("criteria #%d: %w", i+1, err)
		}
	}
	return f.Criteria, nil
}

// SeedCriteria добавляет стандартные критерии, которых ещё нет в БД.
func SeedCriteria(ctx context.Context, database *sql.DB, log *zap.Logger) error {
	list, err := ParseCriteria(defaultCriteriaYAML)
	if err != nil {
		return err
	}
	added := 0
	for _, c := range list {
		ok, err := UpsertCriteriaByName(ctx, database, c)
		if err != nil {
			return fmt.Errorf("seed %q: %w", c.Name, err)
		}
		if ok {
			added++
		}
	}
	log.Info("judging criteria seeded", zap.Int("added", added), zap.Int("total", len(list)))
	return nil
}

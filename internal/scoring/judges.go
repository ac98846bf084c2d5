package scoring

import (
	"sort"
	"strings"

	"github.com/Spok95/showcase-judging/internal/models"
)

const CertificateJudges = 2

func judgePriority(j models.Judge) int {
	p := 0
	if nonEmpty(j.AvatarURL) {
		p += 2
	}
	if nonEmpty(j.LinkedInURL) {
		p++
	}
	return p
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// SelectDisplayJudges orders judges by 2×avatar + 1×LinkedIn (ties keep input
// order) and returns at most limit of them. The input slice is left untouched.
func SelectDisplayJudges(judges []models.Judge, limit int) []models.Judge {
	if limit <= 0 || len(judges) == 0 {
		return nil
	}
	out := make([]models.Judge, len(judges))
	copy(out, judges)
	sort.SliceStable(out, func(i, j int) bool {
		return judgePriority(out[i]) > judgePriority(out[j])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

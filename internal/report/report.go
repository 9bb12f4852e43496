// Package report derives assessment scores from recorded answers and renders
// the read-only report view.
package report

import (
	"math"

	"github.com/riordanpawley/vantage/internal/domain"
)

// Category thresholds, in percent
const (
	StrengthThreshold = 70.0
	WeaknessThreshold = 40.0
)

// Compute scores each category as the share of the best achievable answers.
// Options are ordered weakest to strongest; unanswered questions score zero.
// The health score is the mean of the category percentages.
func Compute(categories []domain.Category, answers map[string]domain.Answer) domain.AssessmentReport {
	var r domain.AssessmentReport
	if len(categories) == 0 {
		return r
	}

	var sum float64
	for _, c := range categories {
		cs := domain.CategoryScore{Key: c.Key, Name: c.Name, Total: len(c.Questions)}
		var points float64
		for _, q := range c.Questions {
			a, ok := answers[q.ID]
			if !ok || a.OptionIndex < 0 || a.OptionIndex >= len(q.Options) {
				continue
			}
			cs.Answered++
			if len(q.Options) > 1 {
				points += float64(a.OptionIndex) / float64(len(q.Options)-1)
			}
		}
		if cs.Total > 0 {
			cs.Percent = round1(points / float64(cs.Total) * 100)
		}
		sum += cs.Percent

		switch {
		case cs.Percent >= StrengthThreshold:
			r.Strengths = append(r.Strengths, c.Name)
		case cs.Percent < WeaknessThreshold:
			r.Weaknesses = append(r.Weaknesses, c.Name)
		}
		r.Categories = append(r.Categories, cs)
	}
	r.HealthScore = round1(sum / float64(len(categories)))
	return r
}

// Merge overlays a server-computed report on a locally derived one. Server
// values win wherever the server provided them.
func Merge(local, server domain.AssessmentReport) domain.AssessmentReport {
	out := local
	if server.AssessmentID != "" {
		out.AssessmentID = server.AssessmentID
	}
	if server.HealthScore > 0 {
		out.HealthScore = server.HealthScore
	}
	if len(server.Categories) > 0 {
		out.Categories = server.Categories
	}
	if len(server.Strengths) > 0 {
		out.Strengths = server.Strengths
	}
	if len(server.Weaknesses) > 0 {
		out.Weaknesses = server.Weaknesses
	}
	return out
}

// Grade maps a health score to a short verdict
func Grade(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= StrengthThreshold:
		return "Healthy"
	case score >= WeaknessThreshold:
		return "Needs attention"
	default:
		return "At risk"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/models"
)

// Aggregation is read-time only: every report recomputes from the stored
// records, nothing is cached or maintained incrementally.

// NoAnswersSummary is the distinct summary written when an interview
// completes with zero answered questions
const NoAnswersSummary = "No questions were answered during this interview."

// improvementThreshold flags skills averaging below this score
const improvementThreshold = 70

// maxImprovementAreas caps the flagged-skill list
const maxImprovementAreas = 5

// trendLength caps the dashboard performance trend
const trendLength = 10

// ComputeOverallFeedback reduces the question entries to the aggregate
// feedback block. Means cover answered entries only; unanswered entries
// are excluded, not zero-filled. Zero answered entries yield zeroed
// scores with the distinct no-answers summary.
func ComputeOverallFeedback(entries []models.QuestionEntry) *models.OverallFeedback {
	var answered []models.QuestionEntry
	for _, entry := range entries {
		if entry.Answered() {
			answered = append(answered, entry)
		}
	}

	if len(answered) == 0 {
		return &models.OverallFeedback{
			Summary: NoAnswersSummary,
		}
	}

	var score, technical, communication, confidence int
	var strengths, improvements []string
	for _, entry := range answered {
		score += entry.Feedback.Score
		technical += entry.Feedback.TechnicalAccuracy
		communication += entry.Feedback.Communication
		confidence += entry.Feedback.Confidence
		strengths = append(strengths, entry.Feedback.Strengths...)
		improvements = append(improvements, entry.Feedback.Improvements...)
	}

	n := len(answered)
	total := roundedMean(score, n)
	feedback := &models.OverallFeedback{
		TotalScore:         total,
		TechnicalScore:     roundedMean(technical, n),
		CommunicationScore: roundedMean(communication, n),
		ConfidenceScore:    roundedMean(confidence, n),
		Strengths:          dedupe(strengths, maxImprovementAreas),
		Improvements:       dedupe(improvements, maxImprovementAreas),
		Recommendations:    recommendationsFor(total),
		Summary:            fmt.Sprintf("Answered %d of %d questions with an average score of %d.", n, len(entries), total),
		AnsweredCount:      n,
	}
	return feedback
}

// TrendPoint is one entry in the dashboard performance trend
type TrendPoint struct {
	Date    time.Time `json:"date"`
	Score   int       `json:"score"`
	JobRole string    `json:"job_role"`
}

// DashboardStats is the per-user rollup over completed interviews
type DashboardStats struct {
	CompletedInterviews int `json:"completed_interviews"`
	AverageScore        int `json:"average_score"`
}

// ComputeDashboard rolls up a user's completed interviews: count and
// rounded average over those with a defined total score, plus a
// reverse-chronological trend of the most recent ten. The input is
// expected newest first.
func ComputeDashboard(completed []models.Interview) (DashboardStats, []TrendPoint) {
	var stats DashboardStats
	var sum int
	trend := make([]TrendPoint, 0, trendLength)

	for _, interview := range completed {
		if interview.OverallFeedback == nil {
			continue
		}
		stats.CompletedInterviews++
		sum += interview.OverallFeedback.TotalScore

		if len(trend) < trendLength {
			date := interview.CreatedAt
			if interview.EndTime != nil {
				date = *interview.EndTime
			}
			trend = append(trend, TrendPoint{
				Date:    date,
				Score:   interview.OverallFeedback.TotalScore,
				JobRole: interview.JobRole,
			})
		}
	}

	if stats.CompletedInterviews > 0 {
		stats.AverageScore = roundedMean(sum, stats.CompletedInterviews)
	}
	return stats, trend
}

// SkillScore is one skill's average across the interviews that assessed it
type SkillScore struct {
	Skill        string `json:"skill"`
	AverageScore int    `json:"average_score"`
	Interviews   int    `json:"interviews"`
}

// StatisticsReport is the per-skill and per-type statistics view
type StatisticsReport struct {
	SkillAverages    []SkillScore   `json:"skill_averages"`
	TypeAverages     map[string]int `json:"type_averages"`
	ImprovementAreas []SkillScore   `json:"improvement_areas"`
}

// ComputeStatistics groups assessed skills across completed interviews,
// averaging the owning interview's total score per skill, and averages
// scores per interview type. Skills averaging below 70 are flagged as
// improvement areas, ascending by score, capped to five.
func ComputeStatistics(completed []models.Interview) StatisticsReport {
	type bucket struct {
		sum   int
		count int
	}
	skills := make(map[string]*bucket)
	types := make(map[string]*bucket)

	for _, interview := range completed {
		if interview.OverallFeedback == nil {
			continue
		}
		score := interview.OverallFeedback.TotalScore

		for _, skill := range interview.SkillsAssessed {
			b := skills[skill]
			if b == nil {
				b = &bucket{}
				skills[skill] = b
			}
			b.sum += score
			b.count++
		}

		b := types[interview.Type]
		if b == nil {
			b = &bucket{}
			types[interview.Type] = b
		}
		b.sum += score
		b.count++
	}

	report := StatisticsReport{
		SkillAverages: make([]SkillScore, 0, len(skills)),
		TypeAverages:  make(map[string]int, len(types)),
	}
	for skill, b := range skills {
		report.SkillAverages = append(report.SkillAverages, SkillScore{
			Skill:        skill,
			AverageScore: roundedMean(b.sum, b.count),
			Interviews:   b.count,
		})
	}
	sort.Slice(report.SkillAverages, func(i, j int) bool {
		a, b := report.SkillAverages[i], report.SkillAverages[j]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return a.Skill < b.Skill
	})

	for typ, b := range types {
		report.TypeAverages[typ] = roundedMean(b.sum, b.count)
	}

	for _, s := range report.SkillAverages {
		if s.AverageScore < improvementThreshold {
			report.ImprovementAreas = append(report.ImprovementAreas, s)
		}
	}
	sort.Slice(report.ImprovementAreas, func(i, j int) bool {
		a, b := report.ImprovementAreas[i], report.ImprovementAreas[j]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore < b.AverageScore
		}
		return a.Skill < b.Skill
	})
	if len(report.ImprovementAreas) > maxImprovementAreas {
		report.ImprovementAreas = report.ImprovementAreas[:maxImprovementAreas]
	}

	return report
}

func roundedMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

func recommendationsFor(totalScore int) []string {
	switch {
	case totalScore >= 85:
		return []string{
			"Keep practicing advanced questions to maintain your edge",
			"Consider mock interviews for more senior roles",
		}
	case totalScore >= 70:
		return []string{
			"Review the flagged improvement areas before your next session",
			"Practice structuring answers with concrete examples",
		}
	default:
		return []string{
			"Schedule regular practice sessions focusing on your weakest categories",
			"Review fundamental concepts for your target role",
			"Practice answering out loud to build confidence",
		}
	}
}

func dedupe(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}

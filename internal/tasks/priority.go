package tasks

import (
	"math"
	"regexp"
	"time"

	"productivity-assistant/internal/intent"
)

const (
	baseScore       = 50
	highThreshold   = 80
	mediumThreshold = 60
	importanceBonus = 20
)

var categoryWeights = map[intent.Category]int{
	intent.CategoryWork:     25,
	intent.CategoryPersonal: 15,
	intent.CategoryLearning: 20,
	intent.CategoryFitness:  10,
	intent.CategoryGeneral:  5,
}

var importanceKeywords = regexp.MustCompile(`(?i)urgent|important|critical|deadline|meeting|client|boss`)

// Scorer assigns a priority and a confidence score to a task draft.
type Scorer struct {
	now  func() time.Time
	rand Rand
}

func NewScorer(now func() time.Time, rng Rand) *Scorer {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = SharedRand{}
	}
	return &Scorer{now: now, rand: rng}
}

// Score returns the priority bucket and the confidence for a draft.
func (s *Scorer) Score(d intent.TaskDraft) (Priority, int) {
	return PriorityFor(s.Points(d)), s.Confidence(d)
}

// Points is the additive priority score: base 50, due-date urgency, category
// weight and an importance keyword bonus.
func (s *Scorer) Points(d intent.TaskDraft) int {
	score := baseScore

	if d.DueDate != nil {
		// fractional days, deliberately not floored
		days := d.DueDate.Sub(s.now()).Hours() / 24
		switch {
		case days <= 1:
			score += 30
		case days <= 3:
			score += 20
		case days <= 7:
			score += 10
		}
	}

	if w, ok := categoryWeights[d.Category]; ok {
		score += w
	} else {
		score += categoryWeights[intent.CategoryGeneral]
	}

	if importanceKeywords.MatchString(d.Title) {
		score += importanceBonus
	}
	return score
}

func PriorityFor(points int) Priority {
	switch {
	case points >= highThreshold:
		return PriorityHigh
	case points >= mediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Confidence is a cosmetic score in [70, 98]: uniform [70, 90), +5 with a due
// date, +3 outside the general category, rounded and capped at 100.
func (s *Scorer) Confidence(d intent.TaskDraft) int {
	score := 70 + s.rand.Float64()*20
	if d.DueDate != nil {
		score += 5
	}
	if d.Category != intent.CategoryGeneral {
		score += 3
	}
	return min(int(math.Round(score)), 100)
}

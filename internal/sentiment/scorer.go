package sentiment

import (
	"math"
	"strings"
	"unicode"

	"deal-pulse/internal/domain"
)

const (
	// Raw lexicon sums are divided by this and clamped to [-1, 1]. Tuned to the
	// lexicon's typical output range, not shared with trigger thresholds.
	normalizeDivisor = 5.0

	positiveThreshold = 0.3
	negativeThreshold = -0.3
)

type Result struct {
	Score     float64
	Magnitude float64
	Category  domain.Category
}

// Scorer assigns a lexical polarity score to free text. It is pure; persistence
// is the caller's job.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Analyze scores arbitrary text. Empty or unscoreable text yields a zero score
// and a NEUTRAL category. The returned Score is always within [-1, 1];
// Magnitude is the absolute pre-normalization sum and may exceed 1.
func (s *Scorer) Analyze(text string) Result {
	raw := rawScore(text)
	score := clamp(raw/normalizeDivisor, -1, 1)
	return Result{
		Score:     score,
		Magnitude: math.Abs(raw),
		Category:  Categorize(score),
	}
}

// Categorize applies the three-way categorization contract to a normalized score.
func Categorize(score float64) domain.Category {
	switch {
	case score > positiveThreshold:
		return domain.CategoryPositive
	case score < negativeThreshold:
		return domain.CategoryNegative
	default:
		return domain.CategoryNeutral
	}
}

func rawScore(text string) float64 {
	var sum float64
	for _, token := range tokenize(text) {
		sum += lexicon[token]
	}
	return sum
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

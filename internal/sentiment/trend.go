package sentiment

import (
	"math"
	"sort"

	"deal-pulse/internal/domain"
)

const (
	directionThreshold  = 0.1
	predictionThreshold = 0.5
	maxConfidence       = 0.9
	stableConfidence    = 0.5
)

// Aggregate buckets records into UTC calendar days and derives momentum
// metrics plus a deterministic prediction. It is pure: calling it twice on the
// same records yields the same report.
func Aggregate(period string, records []domain.SentimentRecord) domain.TrendReport {
	points := bucketByDay(records)
	trends := trendMetrics(points)
	return domain.TrendReport{
		Period:     period,
		DataPoints: points,
		Trends:     trends,
		Prediction: predict(trends),
	}
}

// MeanScore returns the arithmetic mean score across records, 0 when empty.
func MeanScore(records []domain.SentimentRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Score
	}
	return sum / float64(len(records))
}

func bucketByDay(records []domain.SentimentRecord) []domain.TrendPoint {
	grouped := make(map[string]*domain.TrendPoint)
	for _, r := range records {
		date := r.AnalyzedAt.UTC().Format("2006-01-02")
		point, ok := grouped[date]
		if !ok {
			point = &domain.TrendPoint{Date: date}
			grouped[date] = point
		}
		point.Scores = append(point.Scores, r.Score)
		point.Count++
	}

	points := make([]domain.TrendPoint, 0, len(grouped))
	for _, point := range grouped {
		point.AvgScore = mean(point.Scores)
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

func trendMetrics(points []domain.TrendPoint) domain.TrendMetrics {
	if len(points) < 2 {
		return domain.TrendMetrics{Direction: domain.TrendNeutral, Strength: 0}
	}

	mid := len(points) / 2
	firstAvg := meanAvgScore(points[:mid])
	secondAvg := meanAvgScore(points[mid:])

	change := secondAvg - firstAvg
	direction := domain.TrendNeutral
	if change > directionThreshold {
		direction = domain.TrendPositive
	} else if change < -directionThreshold {
		direction = domain.TrendNegative
	}

	return domain.TrendMetrics{
		Direction: direction,
		Strength:  math.Abs(change),
		Change:    change,
	}
}

func predict(trends domain.TrendMetrics) domain.TrendPrediction {
	if trends.Strength > predictionThreshold {
		prediction := domain.PredictionDeclining
		if trends.Direction == domain.TrendPositive {
			prediction = domain.PredictionImproving
		}
		return domain.TrendPrediction{
			Prediction: prediction,
			Confidence: math.Min(trends.Strength, maxConfidence),
		}
	}
	return domain.TrendPrediction{Prediction: domain.PredictionStable, Confidence: stableConfidence}
}

func meanAvgScore(points []domain.TrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.AvgScore
	}
	return sum / float64(len(points))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

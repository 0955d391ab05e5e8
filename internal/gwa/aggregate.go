// Package gwa computes the grade-weighted average of a transcript and
// classifies it against the Latin honor thresholds.
package gwa

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/transcript-gwa/internal/models"
)

// AveragePlaces is the rounding precision of the reported average.
const AveragePlaces = 4

// Aggregate sums units and units×grade over the records and derives the
// average. With zero total units the result is marked invalid instead of
// dividing.
func Aggregate(records []models.CourseRecord) models.Aggregate {
	totalUnits := decimal.Zero
	totalWeighted := decimal.Zero

	for _, r := range records {
		units := decimal.NewFromFloat(r.Units)
		grade := decimal.NewFromFloat(r.Grade)
		totalUnits = totalUnits.Add(units)
		totalWeighted = totalWeighted.Add(units.Mul(grade))
	}

	agg := models.Aggregate{
		TotalUnits:    totalUnits,
		TotalWeighted: totalWeighted,
	}
	if totalUnits.IsZero() {
		return agg
	}

	agg.Average = totalWeighted.DivRound(totalUnits, AveragePlaces)
	agg.Valid = true
	return agg
}

// MaxGrade returns the highest (worst) grade among the records, or zero.
func MaxGrade(records []models.CourseRecord) float64 {
	var worst float64
	for i, r := range records {
		if i == 0 || r.Grade > worst {
			worst = r.Grade
		}
	}
	return worst
}

// Compute aggregates the records and classifies the result.
func Compute(header models.TranscriptHeader, records []models.CourseRecord, stats models.ParseStats) *models.Computation {
	agg := Aggregate(records)
	return &models.Computation{
		Header:    header,
		Records:   records,
		Aggregate: agg,
		Honor:     Classify(agg, records),
		Stats:     stats,
	}
}

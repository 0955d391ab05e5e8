package gwa

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/transcript-gwa/internal/models"
)

// HonorRule awards Tier when the average lies in [MinAverage, MaxAverage]
// and, if GradeCeiling is set, no course grade exceeds it.
type HonorRule struct {
	Tier         models.HonorTier
	MinAverage   decimal.Decimal
	MaxAverage   decimal.Decimal
	GradeCeiling *decimal.Decimal
}

func (r HonorRule) matches(avg, maxGrade decimal.Decimal) bool {
	if avg.LessThan(r.MinAverage) || avg.GreaterThan(r.MaxAverage) {
		return false
	}
	return r.GradeCeiling == nil || maxGrade.LessThanOrEqual(*r.GradeCeiling)
}

func ceiling(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// HonorRules are evaluated top to bottom; the first match wins. The
// average ranges overlap, so the order is the precedence.
var HonorRules = []HonorRule{
	{Tier: models.HonorSumma, MinAverage: decimal.RequireFromString("1.00"), MaxAverage: decimal.RequireFromString("1.25"), GradeCeiling: ceiling("1.50")},
	{Tier: models.HonorMagna, MinAverage: decimal.RequireFromString("1.00"), MaxAverage: decimal.RequireFromString("1.50"), GradeCeiling: ceiling("2.00")},
	{Tier: models.HonorCum, MinAverage: decimal.RequireFromString("1.00"), MaxAverage: decimal.RequireFromString("1.75"), GradeCeiling: ceiling("2.50")},
	{Tier: models.HonorDistinction, MinAverage: decimal.RequireFromString("1.00"), MaxAverage: decimal.RequireFromString("1.75")},
}

// Classify maps an aggregate and its records to a Latin honor tier.
func Classify(agg models.Aggregate, records []models.CourseRecord) models.HonorTier {
	if !agg.Valid || len(records) == 0 {
		return models.HonorNone
	}
	return ClassifyAverage(agg.Average, decimal.NewFromFloat(MaxGrade(records)))
}

// ClassifyAverage applies HonorRules to an average and the worst grade.
func ClassifyAverage(avg, maxGrade decimal.Decimal) models.HonorTier {
	for _, rule := range HonorRules {
		if rule.matches(avg, maxGrade) {
			return rule.Tier
		}
	}
	return models.HonorNone
}

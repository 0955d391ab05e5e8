package gwa

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/transcript-gwa/internal/models"
	"github.com/insightdelivered/transcript-gwa/internal/parser"
)

func TestAggregate(t *testing.T) {
	t.Run("weighted average rounded to four places", func(t *testing.T) {
		records := []models.CourseRecord{
			{Code: "IT 101", Units: 3, Grade: 1.25},
			{Code: "IT 102", Units: 3, Grade: 1.50},
			{Code: "MATH 11", Units: 5, Grade: 2.00},
		}

		agg := Aggregate(records)

		require.True(t, agg.Valid)
		assert.True(t, agg.TotalUnits.Equal(decimal.NewFromInt(11)))
		assert.True(t, agg.TotalWeighted.Equal(decimal.RequireFromString("18.25")))
		// 18.25 / 11 = 1.659090...
		assert.Equal(t, "1.6591", agg.Average.String())
		assert.Equal(t, "1.6591", agg.AverageText())
	})

	t.Run("zero units is no valid data", func(t *testing.T) {
		agg := Aggregate(nil)

		assert.False(t, agg.Valid)
		assert.True(t, agg.TotalUnits.IsZero())
		assert.Equal(t, models.NoValidData, agg.AverageText())
	})

	t.Run("zero unit records do not divide by zero", func(t *testing.T) {
		agg := Aggregate([]models.CourseRecord{{Code: "IT 1", Units: 0, Grade: 1.0}})

		assert.False(t, agg.Valid)
		assert.Equal(t, models.NoValidData, agg.AverageText())
	})

	t.Run("average matches ratio", func(t *testing.T) {
		records := []models.CourseRecord{
			{Units: 3, Grade: 1.75},
			{Units: 2, Grade: 2.25},
			{Units: 1.5, Grade: 1.00},
		}

		agg := Aggregate(records)

		want := agg.TotalWeighted.DivRound(agg.TotalUnits, AveragePlaces)
		assert.True(t, agg.Average.Equal(want))
	})
}

func TestMaxGrade(t *testing.T) {
	assert.Equal(t, 0.0, MaxGrade(nil))
	assert.Equal(t, 2.5, MaxGrade([]models.CourseRecord{{Grade: 1.0}, {Grade: 2.5}, {Grade: 1.75}}))
}

func TestClassifyAverage(t *testing.T) {
	tests := []struct {
		name     string
		average  string
		maxGrade string
		want     models.HonorTier
	}{
		{"summa", "1.20", "1.50", models.HonorSumma},
		{"summa lower bound", "1.00", "1.00", models.HonorSumma},
		{"summa range but grade ceiling missed", "1.20", "1.75", models.HonorMagna},
		{"magna", "1.45", "2.00", models.HonorMagna},
		{"cum laude", "1.60", "2.50", models.HonorCum},
		{"cum laude from summa range with low grade", "1.10", "2.25", models.HonorCum},
		{"distinction", "1.70", "3.00", models.HonorDistinction},
		{"distinction upper bound", "1.75", "5.00", models.HonorDistinction},
		{"no honor above range", "1.80", "1.00", models.HonorNone},
		{"no honor below range", "0.99", "1.00", models.HonorNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyAverage(decimal.RequireFromString(tt.average), decimal.RequireFromString(tt.maxGrade))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_InvalidAggregate(t *testing.T) {
	assert.Equal(t, models.HonorNone, Classify(models.Aggregate{}, nil))
}

func TestCompute_EndToEnd(t *testing.T) {
	p := parser.New(parser.DefaultOptions())
	tr := p.Parse([]string{"1.00 IT 101 Intro to Computing 3 1.00\n2.75 PE 1 Physical Education 2 2.75"})

	c := Compute(tr.Header, p.Filter().Apply(tr.Records), tr.Stats)

	require.Len(t, c.Records, 1)
	assert.Equal(t, "IT 101", c.Records[0].Code)
	assert.True(t, c.Aggregate.TotalUnits.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "3.00", c.Aggregate.TotalWeighted.StringFixed(2))
	assert.True(t, c.Aggregate.Average.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, models.HonorSumma, c.Honor)
}

package models

import "github.com/shopspring/decimal"

// NoValidData is shown in place of the average when there are no units.
const NoValidData = "No valid data"

// HonorTier is a Latin honor label.
type HonorTier string

const (
	HonorSumma       HonorTier = "Summa Cum Laude"
	HonorMagna       HonorTier = "Magna Cum Laude"
	HonorCum         HonorTier = "Cum Laude"
	HonorDistinction HonorTier = "With Distinction"
	HonorNone        HonorTier = "No Latin Honor"
)

// Aggregate holds the GWA totals for a record set. Average is only
// meaningful when Valid is true.
type Aggregate struct {
	TotalUnits    decimal.Decimal
	TotalWeighted decimal.Decimal
	Average       decimal.Decimal
	Valid         bool
}

// AverageText renders the average, or NoValidData when there are no units.
func (a Aggregate) AverageText() string {
	if !a.Valid {
		return NoValidData
	}
	return a.Average.String()
}

// Computation is a parsed and aggregated transcript, as kept in a session.
type Computation struct {
	Header    TranscriptHeader
	Records   []CourseRecord
	Aggregate Aggregate
	Honor     HonorTier
	Stats     ParseStats
}

// Empty reports whether there is nothing to render.
func (c *Computation) Empty() bool {
	return c == nil || len(c.Records) == 0
}

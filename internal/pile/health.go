// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package pile

import "time"

// HealthRecord is one measurement snapshot of a compost pile.
//
// Temperature is degrees Celsius, moisture and the nutrient contents are
// percentages. Any reading may be absent; the score and status are computed
// server-side from whatever readings are present.
type HealthRecord struct {
	RecordID        int64     `json:"record_id"`
	PileID          int64     `json:"pile_id"`
	Temperature     *float64  `json:"temperature"`
	Moisture        *float64  `json:"moisture"`
	NitrogenContent *float64  `json:"nitrogen_content"`
	CarbonContent   *float64  `json:"carbon_content"`
	HealthScore     int16     `json:"health_score"`
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
}

// # Scoring Model

// Ideal operating bands for an actively decomposing pile. Values inside a
// band score 100 for that metric; outside, the score falls off linearly and
// reaches 0 at the falloff distance.
const (
	tempIdealLow  = 40.0 // °C, below this decomposition slows
	tempIdealHigh = 65.0 // °C, above this beneficial microbes die off
	tempFalloff   = 25.0

	moistureIdealLow  = 40.0 // %
	moistureIdealHigh = 60.0 // %
	moistureFalloff   = 30.0

	cnIdealLow  = 25.0 // carbon-to-nitrogen ratio
	cnIdealHigh = 35.0
	cnFalloff   = 20.0
)

// Status labels derived from the composite score.
const (
	StatusHealthy   = "healthy"
	StatusAttention = "needs attention"
	StatusCritical  = "critical"
	StatusUnknown   = "unknown"
)

// ComputeHealth derives a 0–100 composite score and a status label from the
// readings of a record. Metrics without a reading are excluded from the
// average rather than counted against the pile.
//
// The carbon-to-nitrogen subscore needs both nutrient readings; a zero or
// negative nitrogen reading makes the ratio meaningless and is skipped.
func ComputeHealth(record *HealthRecord) (int16, string) {
	var total float64
	var metrics int

	if record.Temperature != nil {
		total += bandScore(*record.Temperature, tempIdealLow, tempIdealHigh, tempFalloff)
		metrics++
	}

	if record.Moisture != nil {
		total += bandScore(*record.Moisture, moistureIdealLow, moistureIdealHigh, moistureFalloff)
		metrics++
	}

	if record.CarbonContent != nil && record.NitrogenContent != nil && *record.NitrogenContent > 0 {
		ratio := *record.CarbonContent / *record.NitrogenContent
		total += bandScore(ratio, cnIdealLow, cnIdealHigh, cnFalloff)
		metrics++
	}

	if metrics == 0 {
		// Nothing measured: neutral score, explicit unknown status.
		return 50, StatusUnknown
	}

	score := int16(total/float64(metrics) + 0.5)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score, statusFor(score)
}

// bandScore returns 100 inside [low, high] and decays linearly to 0 at
// falloff distance outside the band.
func bandScore(value, low, high, falloff float64) float64 {
	var distance float64
	switch {
	case value < low:
		distance = low - value
	case value > high:
		distance = value - high
	default:
		return 100
	}

	if distance >= falloff {
		return 0
	}
	return 100 * (1 - distance/falloff)
}

func statusFor(score int16) string {
	switch {
	case score >= 75:
		return StatusHealthy
	case score >= 45:
		return StatusAttention
	default:
		return StatusCritical
	}
}

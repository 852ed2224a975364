// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package pile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rowanfield/compostly/pkg/pointer"
)

func TestComputeHealth(t *testing.T) {
	t.Run("ideal readings score 100 and healthy", func(t *testing.T) {
		score, status := ComputeHealth(&HealthRecord{
			Temperature:     pointer.To(55.0),
			Moisture:        pointer.To(50.0),
			NitrogenContent: pointer.To(2.0),
			CarbonContent:   pointer.To(60.0), // C:N ratio 30
		})

		assert.Equal(t, int16(100), score)
		assert.Equal(t, StatusHealthy, status)
	})

	t.Run("no readings is a neutral unknown", func(t *testing.T) {
		score, status := ComputeHealth(&HealthRecord{})

		assert.Equal(t, int16(50), score)
		assert.Equal(t, StatusUnknown, status)
	})

	t.Run("missing metrics are excluded, not penalized", func(t *testing.T) {
		score, status := ComputeHealth(&HealthRecord{
			Temperature: pointer.To(55.0),
		})

		assert.Equal(t, int16(100), score)
		assert.Equal(t, StatusHealthy, status)
	})

	t.Run("cold dry pile is critical", func(t *testing.T) {
		score, status := ComputeHealth(&HealthRecord{
			Temperature: pointer.To(5.0),
			Moisture:    pointer.To(8.0),
		})

		assert.Less(t, score, int16(45))
		assert.Equal(t, StatusCritical, status)
	})

	t.Run("zero nitrogen skips the ratio metric", func(t *testing.T) {
		score, status := ComputeHealth(&HealthRecord{
			NitrogenContent: pointer.To(0.0),
			CarbonContent:   pointer.To(60.0),
		})

		// Only unusable readings were supplied.
		assert.Equal(t, int16(50), score)
		assert.Equal(t, StatusUnknown, status)
	})

	t.Run("score stays within 0 and 100 for extreme readings", func(t *testing.T) {
		extremes := []*HealthRecord{
			{Temperature: pointer.To(-500.0)},
			{Temperature: pointer.To(500.0)},
			{Moisture: pointer.To(-1000.0)},
			{NitrogenContent: pointer.To(0.001), CarbonContent: pointer.To(10000.0)},
		}

		for _, record := range extremes {
			score, _ := ComputeHealth(record)
			assert.GreaterOrEqual(t, score, int16(0))
			assert.LessOrEqual(t, score, int16(100))
		}
	})

	t.Run("mid-band distance degrades the score linearly", func(t *testing.T) {
		// 12.5 °C above the upper band with a 25 °C falloff: half credit.
		score, status := ComputeHealth(&HealthRecord{
			Temperature: pointer.To(77.5),
		})

		assert.Equal(t, int16(50), score)
		assert.Equal(t, StatusAttention, status)
	})
}

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToday(t *testing.T) {
	t.Run("drops the time of day", func(t *testing.T) {
		clk := NewMockClock(time.Date(2025, 3, 14, 17, 45, 10, 0, time.UTC))

		assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), Today(clk))
	})

	t.Run("keeps the local calendar day", func(t *testing.T) {
		berlin := time.FixedZone("CET", 3600)
		clk := NewMockClock(time.Date(2025, 3, 14, 0, 30, 0, 0, berlin))

		assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), Today(clk))
	})
}

func TestMockClock_AdvanceDays(t *testing.T) {
	clk := NewMockClock(time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC))
	clk.AdvanceDays(1)

	assert.Equal(t, time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC), clk.Now())
}

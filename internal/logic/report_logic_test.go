package logic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfWeek(t *testing.T) {
	// Wednesday 2026-03-04 -> Monday 2026-03-02.
	wed := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), startOfWeek(wed))

	// Monday maps to itself at midnight.
	mon := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), startOfWeek(mon))

	// Sunday belongs to the week that started the previous Monday.
	sun := time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), startOfWeek(sun))
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckFreshness(t *testing.T) {
	tests := []struct {
		name  string
		age   time.Duration
		fresh bool
	}{
		{"just refreshed", 0, true},
		{"59 minutes old", 59 * time.Minute, true},
		{"exactly at limit", time.Hour, true},
		{"61 minutes old", 61 * time.Minute, false},
		{"updated in the future", -5 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age, fresh := CheckFreshness(testNow.Add(-tt.age), testNow, time.Hour)
			assert.Equal(t, tt.age, age)
			assert.Equal(t, tt.fresh, fresh)
			assert.Equal(t, tt.fresh, IsFresh(testNow.Add(-tt.age), testNow, time.Hour))
		})
	}
}

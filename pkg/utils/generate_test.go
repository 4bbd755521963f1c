package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBookingReference(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		ref := GenerateBookingReference(now)
		assert.Regexp(t, `^BKG-20260310-100000-[0-9A-F]{8}$`, ref)
		seen[ref] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

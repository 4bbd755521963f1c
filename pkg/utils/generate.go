package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBookingReference builds the human-facing booking number. The suffix
// carries 32 random bits so references created in the same second stay unique.
func GenerateBookingReference(now time.Time) string {
	// Format: BKG-YYYYMMDD-HHMMSS-XXXXXXXX
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	return fmt.Sprintf("BKG-%s-%s-%s", datePart, timePart, randomPart)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleOccupant struct {
	Type string `validate:"required,oneof=ADL CHD INF"`
}

type sampleDraft struct {
	PackageID string           `validate:"required,uuid4"`
	Date      string           `validate:"omitempty,datetime=2006-01-02"`
	Occupants []sampleOccupant `validate:"required,min=1,dive"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sampleDraft{
		PackageID: "not-a-uuid",
		Date:      "10/03/2026",
		Occupants: []sampleOccupant{{Type: "ADL"}, {Type: "SNR"}},
	})

	assert.Equal(t, "Must be a valid UUID", errs["PackageID"])
	assert.Equal(t, "Must be a date formatted as 2006-01-02", errs["Date"])
	assert.Equal(t, "Must be one of: ADL, CHD, INF", errs["Occupants[1].Type"])
	assert.Len(t, errs, 3)
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(sampleDraft{
		PackageID: "6f1c1f0e-6a38-4d0f-9a4e-0d2b6a0c9b11",
		Occupants: []sampleOccupant{{Type: "INF"}},
	})
	assert.Nil(t, errs)
}

func TestFormatValidationErrors_Sorted(t *testing.T) {
	got := FormatValidationErrors(map[string]string{
		"Rooms":     "This field is required",
		"PackageID": "Must be a valid UUID",
	})
	assert.Equal(t, "PackageID: Must be a valid UUID; Rooms: This field is required", got)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, ParseInt("3", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 10, ParseInt("abc", 10))
	assert.Equal(t, 10, ParseInt("-4", 10))
}

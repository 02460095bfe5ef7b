package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/antonkh/eventory/internal/pkg/apperrors"
)

func TestValidateEventDate(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateEventDate(now.Add(2*time.Hour), now))
	assert.NoError(t, ValidateEventDate(now.Add(48*time.Hour), now))

	err := ValidateEventDate(now.Add(time.Hour), now)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	err = ValidateEventDate(time.Time{}, now)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestValidateEventDateForPublish(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateEventDateForPublish(now.Add(time.Hour), now))

	err := ValidateEventDateForPublish(now.Add(30*time.Minute), now)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	err = ValidateEventDateForPublish(time.Time{}, now)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestValidateEventDateForAdminUpdate(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	published := now.Add(-30 * time.Minute)

	assert.NoError(t, ValidateEventDateForAdminUpdate(now.Add(2*time.Hour), &published, now))
	assert.NoError(t, ValidateEventDateForAdminUpdate(now.Add(2*time.Hour), nil, now))

	err := ValidateEventDateForAdminUpdate(now.Add(-time.Hour), nil, now)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	// In the future but under an hour past publication.
	err = ValidateEventDateForAdminUpdate(now.Add(15*time.Minute), &published, now)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestValidateStringLength(t *testing.T) {
	assert.NoError(t, ValidateStringLength("a perfectly fine value", "annotation", AnnotationMinLength, AnnotationMaxLength))

	err := ValidateStringLength("short", "annotation", AnnotationMinLength, AnnotationMaxLength)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	err = ValidateStringLength(strings.Repeat("x", AnnotationMaxLength+1), "annotation", AnnotationMinLength, AnnotationMaxLength)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	// Rune count, not byte count.
	assert.NoError(t, ValidateStringLength(strings.Repeat("я", AnnotationMaxLength), "annotation", AnnotationMinLength, AnnotationMaxLength))
}

func TestValidateEventDateForAdminUpdate_Past(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	published := now.Add(-2 * time.Hour)

	// A past date fails before the publication check applies.
	err := ValidateEventDateForAdminUpdate(now.Add(-time.Minute), &published, now)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

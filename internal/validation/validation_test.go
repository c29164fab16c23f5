package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fasika-cms/internal/models"
)

func TestTranslateUsesJSONFieldNames(t *testing.T) {
	Init()

	req := models.CreateTourRequest{Data: &models.TourRequestData{
		Name:      "  ",
		Email:     "not-an-email",
		Phone:     "123",
		Time:      "09:00",
		Programme: "weekend",
		Age:       3,
		Source:    "friend",
		Center:    "bole daycare",
	}}

	err := binding.Validator.ValidateStruct(req)
	require.Error(t, err)

	message, fields, ok := Translate(err)
	require.True(t, ok)
	assert.NotEmpty(t, message)
	assert.Equal(t, "name cannot be blank", fields["data.name"])
	assert.Equal(t, "email must be a valid email address", fields["data.email"])
	assert.Contains(t, fields, "data.phone")
	assert.Contains(t, fields, "data.programme")
	assert.NotContains(t, fields, "data.age")
}

func TestTrimmedEmailAcceptsSurroundingWhitespace(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(models.SubscribeRequest{
		Data: &models.SubscribeData{Email: "  parent@example.com "},
	})
	assert.NoError(t, err)
}

func TestTranslateIgnoresOtherErrors(t *testing.T) {
	_, _, ok := Translate(errors.New("unexpected EOF"))
	assert.False(t, ok)
}

func TestOnlyMalformedEmail(t *testing.T) {
	Init()

	malformed := binding.Validator.ValidateStruct(models.SubscribeRequest{
		Data: &models.SubscribeData{Email: "parent-at-example"},
	})
	require.Error(t, malformed)
	assert.True(t, OnlyMalformedEmail(malformed))

	missing := binding.Validator.ValidateStruct(models.SubscribeRequest{Data: &models.SubscribeData{}})
	require.Error(t, missing)
	assert.False(t, OnlyMalformedEmail(missing))

	assert.False(t, OnlyMalformedEmail(errors.New("unexpected EOF")))
}

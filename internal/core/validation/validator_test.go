package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

func validProject() ports.CreateProjectInput {
	return ports.CreateProjectInput{
		Title:        "Site vitrine",
		Description:  "Refonte complète du site vitrine",
		Technologies: []string{"React", "Go"},
		Client:       "Boulangerie Martin",
		Duration:     "3 mois",
		Status:       "TERMINE",
		Date:         "2024-03-01",
	}
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, New().Struct(validProject()))
}

func TestStruct_ReportsEveryViolation(t *testing.T) {
	in := validProject()
	in.Title = ""
	in.Status = "BOGUS"
	in.Date = "yesterday"
	in.Technologies = []string{"Go", ""}

	err := New().Struct(in)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]string{}
	for _, v := range ve.Violations {
		fields[v.Field] = v.Message
	}
	assert.Len(t, fields, 4)
	assert.Equal(t, "title is required", fields["title"])
	assert.Contains(t, fields["status"], "must be one of")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "technologies[1]")
}

func TestStruct_PartialUpdateSkipsNilFields(t *testing.T) {
	require.NoError(t, New().Struct(ports.UpdateProjectInput{}))

	bogus := "BOGUS"
	err := New().Struct(ports.UpdateProjectInput{Status: &bogus})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "status", ve.Violations[0].Field)
}

func TestStruct_PartialUpdateURL(t *testing.T) {
	empty := ""
	require.NoError(t, New().Struct(ports.UpdateProjectInput{URL: &empty}))

	bad := "not a url"
	err := New().Struct(ports.UpdateProjectInput{URL: &bad})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Violations, 1)
	assert.Equal(t, "url must be a valid URL", ve.Violations[0].Message)
}

func TestStruct_ContactMessageTooShort(t *testing.T) {
	err := New().Struct(ports.SubmitContactInput{
		Name:    "Jane",
		Email:   "not-an-email",
		Subject: "Devis",
		Message: "court",
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Violations, 2)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = ParseDate("2024-03-01T10:00:00+02:00")
	require.NoError(t, err)

	_, err = ParseDate("01/03/2024")
	assert.Error(t, err)
}

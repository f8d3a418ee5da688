package templates

import (
	"testing"

	"abletech/services/careers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	vars := Vars{VarCandidateName: "Ayesha", VarJobTitle: "Designer"}

	tests := map[string]string{
		"Hi {{candidateName}}":                 "Hi Ayesha",
		"{{ jobTitle }} for {{candidateName}}": "Designer for Ayesha",
		"Keep {{unknown}} as is":               "Keep {{unknown}} as is",
		"No placeholders":                      "No placeholders",
		"{{candidateName}}{{candidateName}}":   "AyeshaAyesha",
		"Broken {{candidateName":               "Broken {{candidateName",
	}
	for in, want := range tests {
		assert.Equal(t, want, Expand(in, vars), in)
	}
}

func TestRenderForApplication(t *testing.T) {
	app := &models.Application{CandidateName: "Omar", JobTitle: "Data Analyst", Status: models.ApplicationApproved}
	var offer models.EmailTemplate
	for _, tpl := range Defaults() {
		if tpl.ID == "offer" {
			offer = tpl
		}
	}
	require.NotEmpty(t, offer.ID)

	log := Render(offer, ForApplication(app, ""))
	assert.Equal(t, "offer", log.TemplateID)
	assert.Equal(t, "Offer for Data Analyst", log.Subject)
	assert.Contains(t, log.Body, "Dear Omar,")
	assert.Contains(t, log.Body, "status is now Approved")
	assert.Contains(t, log.Body, "The Hiring Team")
	assert.NotContains(t, log.Body, "{{")
}

func TestDefaultsHaveUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, tpl := range Defaults() {
		assert.False(t, seen[tpl.ID], tpl.ID)
		seen[tpl.ID] = true
		assert.NotEmpty(t, tpl.Subject)
	}
}

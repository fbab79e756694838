package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type document struct {
	Paths map[string]map[string]struct {
		Responses map[string]any `json:"responses"`
	} `json:"paths"`
}

func TestDocRendersAsJSON(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	for _, path := range []string{
		"/api/admin/login",
		"/api/admin/logout",
		"/api/projects",
		"/api/contact",
		"/api/categories/{id}/projects",
		"/api/upload/images",
		"/health/ready",
	} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.Contains(t, doc.Paths["/api/admin/logout"]["post"].Responses, "500")
}

package mockserver_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-aspectmodel/pkg/mockserver"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/openapi"
	"github.com/goliatone/go-aspectmodel/pkg/testsupport"
)

func TestStubsFromOpenAPI(t *testing.T) {
	ctx := context.Background()
	model, aspect := testsupport.LoadModel(t, testsupport.PartAsPlannedURN)

	raw, err := openapi.New().Render(ctx, aspect, render.Options{Model: model, Seed: 3, Format: openapi.FormatYAML})
	require.NoError(t, err)
	doc, err := mockserver.LoadOpenAPI(ctx, raw)
	require.NoError(t, err)

	stubs, err := mockserver.StubsFromOpenAPI(doc)
	require.NoError(t, err)
	require.Len(t, stubs, 1)
	assert.Equal(t, "getPartAsPlanned", stubs[0].Name)
	assert.Equal(t, "/part-as-planned", stubs[0].Path)
	assert.Equal(t, http.MethodGet, stubs[0].Method)
	assert.Contains(t, string(stubs[0].Response.Body), `"catenaXId": "580d3adf-1981-44a0-a214-13d6ceed9379"`)

	srv := startServer(t)
	srv.StubFor(stubs[0])
	resp, body := get(t, srv.BaseURL()+"/part-as-planned", map[string]string{"Accept": "application/json"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "partTypeInformation")
}

func TestLoadOpenAPIRejectsEmpty(t *testing.T) {
	_, err := mockserver.LoadOpenAPI(context.Background(), nil)
	assert.Error(t, err)

	_, err = mockserver.StubsFromOpenAPI(nil)
	assert.Error(t, err)
}

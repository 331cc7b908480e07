package export

import (
	"bytes"
	"testing"

	"sqlscope/backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestRenderCSV(t *testing.T) {
	payload := &model.QueryPayload{
		Columns: []string{"id", "name", "note"},
		Rows: []map[string]any{
			{"id": 1, "name": "Alice", "note": "has, comma"},
			{"id": 2, "name": "Bob", "note": nil},
		},
		RowCount: 2,
	}

	var buf bytes.Buffer
	err := RenderCSV(&buf, payload)

	assert.NoError(t, err)
	assert.Equal(t, "id,name,note\n1,Alice,\"has, comma\"\n2,Bob,\n", buf.String())
}

func TestRenderCSVNoRows(t *testing.T) {
	payload := &model.QueryPayload{Columns: []string{"a", "b"}}

	var buf bytes.Buffer
	err := RenderCSV(&buf, payload)

	assert.NoError(t, err)
	assert.Equal(t, "a,b\n", buf.String())
}

package bmjson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bimcloud/internal/model"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleModel = `{
	"name": "office",
	"elements": [
		{"id": 1, "type": "Wall", "mesh": {
			"vertices": [[0,0,0],[1,0,0],[0,1,0]],
			"faces": [[0,1,2]]
		}},
		{"id": 2, "type": "Space"},
		{"id": 3, "type": "Door", "mesh": {
			"vertices": [[0,0,0],[2,0,0],[0,2,0]],
			"faces": [[0,1,2]],
			"transform": [1,0,0,10, 0,1,0,20, 0,0,1,30, 0,0,0,1]
		}}
	]
}`

func TestOpen(t *testing.T) {
	store, err := Open(writeFile(t, sampleModel))
	require.NoError(t, err)
	defer store.Close()

	elements := store.Elements()
	require.Len(t, elements, 3)
	assert.Equal(t, model.Element{ID: 1, Type: "Wall", HasRepresentation: true}, elements[0])
	assert.Equal(t, model.Element{ID: 2, Type: "Space", HasRepresentation: false}, elements[1])

	el, ok := store.Element(3)
	require.True(t, ok)
	assert.Equal(t, "Door", el.Type)

	_, ok = store.Element(99)
	assert.False(t, ok)
}

func TestOpenDuplicateID(t *testing.T) {
	_, err := Open(writeFile(t, `{"elements":[{"id":1,"type":"Wall"},{"id":1,"type":"Door"}]}`))
	assert.ErrorContains(t, err, "duplicate element id 1")
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestOpenMalformedJSON(t *testing.T) {
	_, err := Open(writeFile(t, `{"elements": [`))
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	store, err := Open(writeFile(t, sampleModel))
	require.NoError(t, err)
	defer store.Close()

	t.Run("identity when no transform", func(t *testing.T) {
		g, err := store.Extract(1)
		require.NoError(t, err)
		require.Len(t, g.Vertices, 3)
		assert.Equal(t, 1.0, g.Vertices[1].X())
		assert.Equal(t, [][3]int{{0, 1, 2}}, g.Faces)
	})

	t.Run("applies row-major transform", func(t *testing.T) {
		g, err := store.Extract(3)
		require.NoError(t, err)
		require.Len(t, g.Vertices, 3)
		assert.Equal(t, 10.0, g.Vertices[0].X())
		assert.Equal(t, 20.0, g.Vertices[0].Y())
		assert.Equal(t, 30.0, g.Vertices[0].Z())
		assert.Equal(t, 12.0, g.Vertices[1].X())
	})

	t.Run("unknown element", func(t *testing.T) {
		_, err := store.Extract(99)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("no representation", func(t *testing.T) {
		_, err := store.Extract(2)
		assert.ErrorIs(t, err, model.ErrNoRepresentation)
	})
}

func TestExtractValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "truncated transform",
			content: `{"elements":[{"id":1,"type":"Wall","mesh":{
				"vertices":[[0,0,0],[1,0,0],[0,1,0]],
				"faces":[[0,1,2]],
				"transform":[1,0,0]
			}}]}`,
			wantErr: "transform has 3 entries",
		},
		{
			name: "face index out of range",
			content: `{"elements":[{"id":1,"type":"Wall","mesh":{
				"vertices":[[0,0,0],[1,0,0],[0,1,0]],
				"faces":[[0,1,3]]
			}}]}`,
			wantErr: "face index 3 out of range",
		},
		{
			name: "negative face index",
			content: `{"elements":[{"id":1,"type":"Wall","mesh":{
				"vertices":[[0,0,0],[1,0,0],[0,1,0]],
				"faces":[[0,-1,2]]
			}}]}`,
			wantErr: "face index -1 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(writeFile(t, tt.content))
			require.NoError(t, err)
			defer store.Close()

			_, err = store.Extract(1)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCandidateIDs(t *testing.T) {
	store, err := Open(writeFile(t, sampleModel))
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, []int64{1, 3}, model.CandidateIDs(store))
}

package seed_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/item-manager/internal/seed"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	content := `[
		{
			"title": "First",
			"source": {"name": "Campus Times"},
			"publishedAt": "2025-03-01T09:00:00Z",
			"url": "https://example.edu/1",
			"summary": "",
			"tags": ["a", "b"]
		},
		{
			"title": "Second",
			"source": {"name": "Student Life"},
			"publishedAt": "2025-03-02T09:00:00Z",
			"url": "https://example.edu/2",
			"summary": "s",
			"tags": []
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	inputs, err := seed.Load(path)
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	assert.Equal(t, "First", inputs[0].Title)
	require.NotNil(t, inputs[0].Source)
	assert.Equal(t, "Campus Times", inputs[0].Source.Name)
	assert.Equal(t, []string{"a", "b"}, []string(inputs[0].Tags))
	assert.Empty(t, inputs[1].Tags)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := seed.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0644))

	_, err := seed.Load(path)
	assert.Error(t, err)
}

package locale

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalCatalog = `
language: en
default_color: slate
messages:
  analysis_complete: "Analysis complete"
  analysis_failed: "Analysis failed, please retry."
colors:
  vegan: green
tables:
  food:
    "Pizza": "Pizza"
`

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, "tr", c.Language)
	assert.Equal(t, CategoryTip, c.Fallbacks[CategorySummary])
	assert.NoError(t, c.Validate())
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalog), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	r, err := NewResolver(c)
	require.NoError(t, err)
	assert.Equal(t, "en", r.Language())
	assert.Equal(t, "slate", r.TagColor("keto"))
	assert.Equal(t, "Analysis complete", r.Summary(emptySummary).Primary)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDecodeRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		errText string
	}{
		{
			name:    "no language",
			catalog: strings.Replace(minimalCatalog, "language: en", "language: \"\"", 1),
			errText: "no language",
		},
		{
			name:    "no default color",
			catalog: strings.Replace(minimalCatalog, "default_color: slate", "", 1),
			errText: "default_color",
		},
		{
			name:    "missing failure message",
			catalog: strings.Replace(minimalCatalog, `analysis_failed: "Analysis failed, please retry."`, "", 1),
			errText: "analysis_failed",
		},
		{
			name:    "empty target",
			catalog: minimalCatalog + "    \"Rice\": \"\"\n",
			errText: "empty string",
		},
		{
			name:    "double translation",
			catalog: minimalCatalog + "    \"Rice\": \"Pilav\"\n    \"Pilav\": \"Rice Pilaf\"\n",
			errText: "resolves again",
		},
		{
			name:    "double translation through fallback",
			catalog: minimalCatalog + "  tip:\n    \"Eat less\": \"Az ye\"\n  summary:\n    \"Az ye\": \"Eat less\"\nfallbacks:\n  summary: tip\n",
			errText: "resolves again",
		},
		{
			name:    "unknown fallback table",
			catalog: minimalCatalog + "fallbacks:\n  summary: tip\n",
			errText: "unknown table",
		},
		{
			name:    "unknown field",
			catalog: minimalCatalog + "translations: {}\n",
			errText: "translations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.catalog))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestFallbackCycleTerminates(t *testing.T) {
	c, err := Decode(strings.NewReader(minimalCatalog + "  tip:\n    \"a\": \"b\"\nfallbacks:\n  food: tip\n  tip: food\n"))
	require.NoError(t, err)

	r, err := NewResolver(c)
	require.NoError(t, err)
	assert.Equal(t, "b", r.Resolve(CategoryFood, "a"))
	assert.Equal(t, "Pizza", r.Resolve(CategoryTip, "Pizza"))
	assert.Equal(t, "zzz", r.Resolve(CategoryTip, "zzz"))
}

package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruxstack/find-my-rep-go/internal/types"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name         string
		template     string
		placeholders map[string]string
		expected     string
	}{
		{
			name:     "replaces both tokens",
			template: "Dear {{representative_name}}, You are the {{representative_title}}.",
			placeholders: map[string]string{
				NameToken:  "John Smith",
				TitleToken: "Member of Parliament",
			},
			expected: "Dear John Smith, You are the Member of Parliament.",
		},
		{
			name:         "missing title defaults to empty",
			template:     "Dear {{representative_name}}, {{representative_title}}",
			placeholders: map[string]string{NameToken: "John Smith"},
			expected:     "Dear John Smith, ",
		},
		{
			name:         "repeated token replaced identically",
			template:     "{{representative_name}} and {{representative_name}}",
			placeholders: map[string]string{NameToken: "X"},
			expected:     "X and X",
		},
		{
			name:         "unknown token untouched",
			template:     "Hi {{unknown}}",
			placeholders: map[string]string{},
			expected:     "Hi {{unknown}}",
		},
		{
			name:         "nil map resolves recognized tokens",
			template:     "[{{representative_name}}|{{representative_title}}]",
			placeholders: nil,
			expected:     "[|]",
		},
		{
			name:     "values are not re-scanned",
			template: "{{representative_name}} / {{representative_title}}",
			placeholders: map[string]string{
				NameToken:  "{{representative_title}}",
				TitleToken: "Mayor",
			},
			expected: "{{representative_title}} / Mayor",
		},
		{
			name:         "custom token supplied by caller",
			template:     "From {{sender_name}} to {{representative_name}}",
			placeholders: map[string]string{"{{sender_name}}": "Ann", NameToken: "Bob"},
			expected:     "From Ann to Bob",
		},
		{
			name:         "longest key wins on shared prefix",
			template:     "{{a}}{{a}}x",
			placeholders: map[string]string{"{{a}}": "1", "{{a}}x": "2"},
			expected:     "12",
		},
		{
			name:         "no tokens",
			template:     "plain text",
			placeholders: map[string]string{NameToken: "ignored"},
			expected:     "plain text",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Render(tc.template, tc.placeholders))
		})
	}
}

func TestPlaceholdersFor(t *testing.T) {
	rep := types.Representative{Name: "Jane Doe", Email: "jane@example.com", Title: "Councillor"}

	got := Render(DefaultLetterTemplate, PlaceholdersFor(rep))

	assert.Contains(t, got, "Dear Jane Doe,")
	assert.Contains(t, got, "as my Councillor about")
	assert.NotContains(t, got, "{{")
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns default", func(t *testing.T) {
		got, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultLetterTemplate, got)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "letter.txt")
		require.NoError(t, os.WriteFile(path, []byte("Hello {{representative_name}}"), 0o600))

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Hello {{representative_name}}", got)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}

package templates

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/cruxstack/find-my-rep-go/internal/types"
)

const (
	NameToken  = "{{representative_name}}"
	TitleToken = "{{representative_title}}"
)

const DefaultLetterTemplate = `Dear {{representative_name}},

I am writing to you as my {{representative_title}} about an issue that matters to me.

Yours sincerely,
`

// Render replaces every placeholder key found in tmpl with its value. The
// recognized tokens always resolve, falling back to an empty string.
// Replacement happens in a single pass so substituted values are never
// re-scanned for tokens.
func Render(tmpl string, placeholders map[string]string) string {
	merged := map[string]string{
		NameToken:  "",
		TitleToken: "",
	}
	for k, v := range placeholders {
		merged[k] = v
	}

	// longest key wins when keys share a prefix
	keys := make([]string, 0, len(merged))
	for k := range merged {
		if k != "" {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	oldnew := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		oldnew = append(oldnew, k, merged[k])
	}

	return strings.NewReplacer(oldnew...).Replace(tmpl)
}

// PlaceholdersFor builds the placeholder map for a representative.
func PlaceholdersFor(rep types.Representative) map[string]string {
	return map[string]string{
		NameToken:  rep.Name,
		TitleToken: rep.Title,
	}
}

// Load reads a letter template from disk. An empty path yields the default.
func Load(path string) (string, error) {
	if path == "" {
		return DefaultLetterTemplate, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read letter template: %w", err)
	}

	return string(b), nil
}

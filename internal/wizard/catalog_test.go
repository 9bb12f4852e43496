package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	require.Len(t, cats, 5)

	keys := make([]string, len(cats))
	for i, c := range cats {
		keys[i] = c.Key
		assert.NotEmpty(t, c.Questions, "category %s", c.Key)
	}
	assert.Equal(t, []string{"strategy", "finance", "operations", "sales", "people"}, keys)

	margins := cats[1].Questions[2]
	assert.Equal(t, "finance.margins", margins.ID)
	assert.Equal(t, "For all, reviewed regularly", margins.Options[3])
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "categories: []", "questionnaire has no categories"},
		{"malformed", "categories: [", "parse questionnaire"},
		{"missing key", "categories:\n  - name: X\n", `category "X" has no key`},
		{"duplicate key", "categories:\n  - key: a\n  - key: a\n", `duplicate category key "a"`},
		{"duplicate question", `categories:
  - key: a
    questions:
      - {id: q, options: [x, y]}
  - key: b
    questions:
      - {id: q, options: [x, y]}
`, `duplicate question id "q"`},
		{"one option", `categories:
  - key: a
    questions:
      - {id: q, options: [only]}
`, `question "q" needs at least two options`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

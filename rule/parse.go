package rule

import (
	"strings"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/parser"
	"github.com/mendelt/reval/value"
)

// ParseText parses the rule-source-file grammar: a run of
// leading `// ...` comment lines, whose first line is the rule name and
// whose remaining lines accumulate as the `description` metadata,
// followed by a single text-grammar expression body. Leading/trailing
// whitespace in the name is trimmed.
func ParseText(src string) (Rule, error) {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")
	meta := NewMetadata()
	name := ""
	haveName := false
	var descLines []string
	bodyStart := len(lines)

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "//") {
			bodyStart = i
			break
		}
		content := strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
		if !haveName {
			name = content
			haveName = true
			continue
		}
		descLines = append(descLines, content)
		bodyStart = i + 1
	}

	if !haveName {
		return Rule{}, &errs.ParseError{Detail: "rule source is missing a leading \"// name\" comment line"}
	}
	if len(descLines) > 0 {
		meta = meta.With("description", value.NewString(strings.Join(descLines, "\n")))
	}

	body := strings.Join(lines[bodyStart:], "\n")
	e, err := parser.ParseText(body)
	if err != nil {
		return Rule{}, err
	}
	return New(name, meta, e), nil
}

package markup

import (
	"context"
	"errors"
	"fmt"
	"unicode"
)

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found by Validate.
type Issue struct {
	Severity Severity `json:"severity"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Tag      string   `json:"tag,omitempty"`
	Message  string   `json:"message"`
}

// Report is the outcome of Validate.
type Report struct {
	Valid    bool    `json:"valid"`
	Elements int     `json:"elements"`
	Issues   []Issue `json:"issues"`
}

// Validate checks src without mounting anything. Parse failures and
// capitalized tags with no registered definition are errors; a name used
// twice on the same tag is a warning. Lowercase tags are native elements.
func (e *Engine) Validate(ctx context.Context, src string) Report {
	report := Report{Issues: []Issue{}}

	nodes, err := e.Parse(ctx, src)
	if err != nil {
		issue := Issue{Severity: SeverityError, Message: err.Error()}
		var perr *ParseError
		if errors.As(err, &perr) {
			issue.Line, issue.Column = perr.Line, perr.Column
			issue.Message = perr.Err.Error()
		}
		report.Issues = append(report.Issues, issue)
		return report
	}

	seen := make(map[elementKey]*Node)
	for _, root := range nodes {
		root.Walk(func(n *Node) bool {
			if n.IsText() {
				return true
			}
			report.Elements++

			if isComponentTag(n.Tag) && !e.reg.HasComponent(n.Tag) {
				report.Issues = append(report.Issues, Issue{
					Severity: SeverityError,
					Line:     n.Line,
					Column:   n.Column,
					Tag:      n.Tag,
					Message:  fmt.Sprintf("unknown component <%s>", n.Tag),
				})
			}

			if name := n.Name(); name != "" {
				key := elementKey{n.Tag, name}
				if first, dup := seen[key]; dup {
					report.Issues = append(report.Issues, Issue{
						Severity: SeverityWarning,
						Line:     n.Line,
						Column:   n.Column,
						Tag:      n.Tag,
						Message:  fmt.Sprintf("name %q already used on line %d", name, first.Line),
					})
				} else {
					seen[key] = n
				}
			}
			return true
		})
	}

	report.Valid = true
	for _, issue := range report.Issues {
		if issue.Severity == SeverityError {
			report.Valid = false
			break
		}
	}
	return report
}

func isComponentTag(tag string) bool {
	for _, r := range tag {
		return unicode.IsUpper(r)
	}
	return false
}

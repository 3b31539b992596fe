package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/paths"
	"github.com/zjrosen/htx/internal/registry"
	"github.com/zjrosen/htx/internal/widgets"
)

// readMarkup resolves arg to a markup file and returns its path and content.
func readMarkup(arg string) (string, string, error) {
	path, err := paths.ResolveMarkup(arg)
	if err != nil {
		return "", "", err
	}
	src, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied markup path
	if err != nil {
		return "", "", fmt.Errorf("reading markup: %w", err)
	}
	return path, string(src), nil
}

// readData loads task data from a YAML or JSON file. Scalar values are used
// as-is; nested values are substituted as their JSON encoding.
func readData(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied data path
	if err != nil {
		return nil, fmt.Errorf("reading task data: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing task data %s: %w", path, err)
	}

	data := make(map[string]string, len(doc))
	for k, v := range doc {
		switch v := v.(type) {
		case nil:
			data[k] = ""
		case string:
			data[k] = v
		case int, int64, float64, bool:
			data[k] = fmt.Sprint(v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("task data field %q: %w", k, err)
			}
			data[k] = string(b)
		}
	}
	return data, nil
}

// readPriors loads export records previously written by 'htx render --json'
// or 'htx answers show' and turns them into prior values.
func readPriors(path string) (map[string]attr.Props, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied answers path
	if err != nil {
		return nil, fmt.Errorf("reading prior answers: %w", err)
	}

	var records []registry.ExportRecord
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		// A full 'render --json' document carries the records next to the tree.
		var doc struct {
			Records []registry.ExportRecord `json:"records"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing prior answers %s: %w", path, err)
		}
		records = doc.Records
	} else if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing prior answers %s: %w", path, err)
	}
	return widgets.OverlayFromRecords(records), nil
}

// terminalWidth returns the width to render at: the flag, then the config,
// then the terminal, then the renderer default.
func terminalWidth(flagWidth int) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if cfg.Render.Width > 0 {
		return cfg.Render.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 0
}

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseConfig loads a chart document from disk, validates it, and returns the resulting model.
func ParseConfig(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, crosserrors.NewParseError(path, 0, err)
	}
	return ParseDocument(data, path)
}

// ParseDocument decodes and validates a chart document held in memory. path is
// only used to label errors.
func ParseDocument(data []byte, path string) (*Document, error) {
	doc := Document{Interaction: DefaultInteraction()}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, crosserrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidateDocument(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}

package importers

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RawCard is one deck row before validation.
type RawCard struct {
	Question   string `json:"question" yaml:"question"`
	Answer     string `json:"answer" yaml:"answer"`
	Category   string `json:"category" yaml:"category"`
	Difficulty string `json:"difficulty" yaml:"difficulty"`
}

// Parser reads a deck in one file format.
type Parser interface {
	Parse(r io.Reader) ([]RawCard, error)
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the deck format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported deck format: %q", filepath.Ext(path))
	}
}

// ParserFor returns the parser for a format.
func ParserFor(format Format) (Parser, error) {
	switch format {
	case FormatJSON:
		return JSONParser{}, nil
	case FormatYAML:
		return YAMLParser{}, nil
	case FormatCSV:
		return CSVParser{}, nil
	case FormatXLSX:
		return XLSXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported deck format: %q", format)
	}
}

type JSONParser struct{}

func (JSONParser) Parse(r io.Reader) ([]RawCard, error) {
	var cards []RawCard
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return nil, fmt.Errorf("failed to decode JSON deck: %w", err)
	}
	return cards, nil
}

type YAMLParser struct{}

// Parse accepts either a top-level list or a mapping with a cards key.
func (YAMLParser) Parse(r io.Reader) ([]RawCard, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML deck: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to decode YAML deck: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	var cards []RawCard
	switch root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&cards)
	case yaml.MappingNode:
		var doc struct {
			Cards []RawCard `yaml:"cards"`
		}
		err = root.Decode(&doc)
		cards = doc.Cards
	default:
		return nil, fmt.Errorf("failed to decode YAML deck: expected a list of cards")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode YAML deck: %w", err)
	}
	return cards, nil
}

package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/mckp/core/model"
)

// Document is the YAML/JSON representation of an instance.
type Document struct {
	Budget   int          `json:"budget"`
	Channels [][]TermSpec `json:"channels"`
}

// TermSpec is one (power, rate) pair in a document.
type TermSpec struct {
	Power int `json:"power"`
	Rate  int `json:"rate"`
}

// Instance converts the document into a validated instance.
func (d Document) Instance() (*model.Instance, error) {
	chans := make([]model.Channel, len(d.Channels))
	for i, specs := range d.Channels {
		chans[i] = make(model.Channel, len(specs))
		for j, s := range specs {
			chans[i][j] = model.Term{Power: s.Power, Rate: s.Rate}
		}
	}
	return model.New(d.Budget, chans)
}

// LoadDocument reads a YAML or JSON instance document.
func LoadDocument(path string) (Document, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return Document{}, fmt.Errorf("%w: unsupported document format %s", ErrFormat, filepath.Ext(path))
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return doc, nil
}

// Load reads an instance from path, selecting the format by extension.
// Anything that is not YAML or JSON is parsed as the text format.
func Load(path string) (*model.Instance, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, err
		}
		inst, err := doc.Instance()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return inst, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	inst, err := ParseText(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// Name returns the display name of an instance file.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

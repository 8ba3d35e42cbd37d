// Package content holds the static texts the bot serves outside the FAQ:
// welcome and help messages, the main menu, informational topics and the
// rotating "¿Sabías que…?" facts.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is the full set of static texts.
type Catalog struct {
	Welcome string   `yaml:"welcome"`
	Help    string   `yaml:"help"`
	Source  Link     `yaml:"source"`
	Menu    []Button `yaml:"menu"`
	Topics  []Topic  `yaml:"topics"`
	Facts   []string `yaml:"facts"`
}

// Link is a labelled URL appended to fact messages.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Button is a main-menu entry; Data is the callback payload it sends.
type Button struct {
	Label string `yaml:"label"`
	Data  string `yaml:"data"`
}

// Topic is an informational block reachable by command and by menu button.
type Topic struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content yaml: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Topics))
	for i, t := range c.Topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("topic %d: name is required", i)
		}
		if strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("topic %q: text is required", name)
		}
		if seen[name] {
			return fmt.Errorf("topic %q: duplicate name", name)
		}
		seen[name] = true
	}
	for i, b := range c.Menu {
		if b.Label == "" || b.Data == "" {
			return fmt.Errorf("menu button %d: label and data are required", i)
		}
	}
	return nil
}

// Topic looks up a topic by name.
func (c *Catalog) Topic(name string) (Topic, bool) {
	for _, t := range c.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}

// FactMessage renders a fact followed by the source link.
func (c *Catalog) FactMessage(fact string) string {
	if c.Source.URL == "" {
		return fact
	}
	label := c.Source.Label
	if label == "" {
		label = "Fuente"
	}
	return fmt.Sprintf("%s\n\n🔗 %s: %s", fact, label, c.Source.URL)
}

package locale

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Category selects the lookup table a free-text field is resolved through.
type Category string

const (
	CategoryFood    Category = "food"
	CategoryDiet    Category = "diet"
	CategoryNote    Category = "note"
	CategoryTip     Category = "tip"
	CategorySummary Category = "summary"
)

// Message keys every catalog has to define.
const (
	MsgAnalysisComplete  = "analysis_complete"
	MsgAnalysisFailed    = "analysis_failed"
	MsgTransportFailed   = "transport_failed"
	MsgMalformedResponse = "malformed_response"
	MsgNoResult          = "no_result"
)

var requiredMessages = []string{MsgAnalysisComplete, MsgAnalysisFailed}

//go:embed catalogs/tr.yaml
var defaultCatalog []byte

// Catalog is the on-disk form of a display language: one table per category
// keyed by the analysis service's source strings, the diet tag color table,
// and the fixed UI messages.
type Catalog struct {
	Language     string                         `yaml:"language"`
	DefaultColor string                         `yaml:"default_color"`
	Fallbacks    map[Category]Category          `yaml:"fallbacks"`
	Messages     map[string]string              `yaml:"messages"`
	Colors       map[string]string              `yaml:"colors"`
	Tables       map[Category]map[string]string `yaml:"tables"`
}

// DefaultCatalog returns the embedded Turkish catalog.
func DefaultCatalog() (*Catalog, error) {
	return Decode(bytes.NewReader(defaultCatalog))
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a YAML catalog and validates it.
func Decode(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects catalogs that would blank a field or translate a
// translation a second time.
func (c *Catalog) Validate() error {
	if c.Language == "" {
		return fmt.Errorf("catalog has no language")
	}
	if c.DefaultColor == "" {
		return fmt.Errorf("catalog %s has no default_color", c.Language)
	}
	for _, key := range requiredMessages {
		if c.Messages[key] == "" {
			return fmt.Errorf("catalog %s is missing message %q", c.Language, key)
		}
	}
	for tag, color := range c.Colors {
		if color == "" {
			return fmt.Errorf("catalog %s: empty color for tag %q", c.Language, tag)
		}
	}
	for from, to := range c.Fallbacks {
		if _, ok := c.Tables[to]; !ok {
			return fmt.Errorf("catalog %s: fallback %s -> %s names an unknown table", c.Language, from, to)
		}
	}

	for _, cat := range c.categories() {
		chain := c.chain(cat)
		for _, table := range chain {
			for _, src := range sortedKeys(c.Tables[table]) {
				dst := c.Tables[table][src]
				if dst == "" {
					return fmt.Errorf("catalog %s: %s entry %q translates to an empty string", c.Language, table, src)
				}
				got := c.lookup(cat, src)
				if again := c.lookup(cat, got); again != got {
					return fmt.Errorf("catalog %s: %s entry %q resolves to %q which resolves again to %q", c.Language, cat, src, got, again)
				}
			}
		}
	}
	return nil
}

// chain lists the tables consulted for a category, in order.
func (c *Catalog) chain(cat Category) []Category {
	chain := []Category{cat}
	seen := map[Category]bool{cat: true}
	for next, ok := c.Fallbacks[cat]; ok && !seen[next]; next, ok = c.Fallbacks[next] {
		chain = append(chain, next)
		seen[next] = true
	}
	return chain
}

func (c *Catalog) lookup(cat Category, s string) string {
	for _, table := range c.chain(cat) {
		if v, ok := c.Tables[table][s]; ok {
			return v
		}
	}
	return s
}

func (c *Catalog) categories() []Category {
	set := make(map[Category]struct{})
	for cat := range c.Tables {
		set[cat] = struct{}{}
	}
	for cat := range c.Fallbacks {
		set[cat] = struct{}{}
	}
	cats := make([]Category, 0, len(set))
	for cat := range set {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package locale

import (
	"maps"
	"sort"

	"github.com/Rarebox/kalorify-ai/internal/analysis"
)

// Resolver turns analysis results into display text for one language.
// It holds a private copy of its catalog and never changes it, so a single
// Resolver is safe to share between goroutines.
type Resolver struct {
	catalog Catalog
}

func NewResolver(c *Catalog) (*Resolver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cp := Catalog{
		Language:     c.Language,
		DefaultColor: c.DefaultColor,
		Fallbacks:    maps.Clone(c.Fallbacks),
		Messages:     maps.Clone(c.Messages),
		Colors:       maps.Clone(c.Colors),
		Tables:       make(map[Category]map[string]string, len(c.Tables)),
	}
	for cat, table := range c.Tables {
		cp.Tables[cat] = maps.Clone(table)
	}

	return &Resolver{catalog: cp}, nil
}

// DefaultResolver builds a Resolver over the embedded catalog.
func DefaultResolver() (*Resolver, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return NewResolver(c)
}

func (r *Resolver) Language() string {
	return r.catalog.Language
}

// Resolve returns the catalog entry for s in category cat, or s itself when
// there is none. Matching is exact and case-sensitive.
func (r *Resolver) Resolve(cat Category, s string) string {
	return r.catalog.lookup(cat, s)
}

// TagColor returns the color class for a diet tag, or the catalog's default.
func (r *Resolver) TagColor(tag string) string {
	if color, ok := r.catalog.Colors[tag]; ok {
		return color
	}
	return r.catalog.DefaultColor
}

func (r *Resolver) Tag(tag string) Tag {
	return Tag{
		Source: tag,
		Label:  r.Resolve(CategoryDiet, tag),
		Color:  r.TagColor(tag),
	}
}

// Message returns a fixed UI message; unknown keys come back as the key.
func (r *Resolver) Message(key string) string {
	if msg, ok := r.catalog.Messages[key]; ok && msg != "" {
		return msg
	}
	return key
}

func (r *Resolver) HasMessage(key string) bool {
	return r.catalog.Messages[key] != ""
}

// Summary picks the primary and secondary lines from whichever field pair
// the service filled in. An empty string counts as absent.
func (r *Resolver) Summary(s analysis.Summary) SummaryLines {
	primary := firstNonEmpty(s.Quality, s.Balance)
	if primary == "" {
		primary = r.Message(MsgAnalysisComplete)
	}

	lines := SummaryLines{Primary: r.Resolve(CategorySummary, primary)}
	if tip := firstNonEmpty(s.OverallTip, s.GeneralTip); tip != "" {
		lines.Secondary = r.Resolve(CategorySummary, tip)
	}
	return lines
}

// Localize builds the display report for res. A nil result, the parser's
// "nothing detected" state, yields a nil report.
func (r *Resolver) Localize(res *analysis.Result) *Report {
	if res == nil {
		return nil
	}

	items := make([]ItemView, len(res.Items))
	for i, item := range res.Items {
		tags := make([]Tag, len(item.DietFit))
		for j, tag := range item.DietFit {
			tags[j] = r.Tag(tag)
		}

		items[i] = ItemView{
			Name:         r.Resolve(CategoryFood, item.Name),
			SourceName:   item.Name,
			PortionG:     item.PortionG,
			CaloriesKcal: item.CaloriesKcal,
			ProteinG:     item.ProteinG,
			CarbsG:       item.CarbsG,
			FatG:         item.FatG,
			Method:       item.Method,
			Tags:         tags,
			Note:         r.Resolve(CategoryNote, item.Note),
			Tip:          r.Resolve(CategoryTip, item.Tip),
		}
	}

	return &Report{
		Language: r.catalog.Language,
		Items:    items,
		Totals:   res.Totals,
		Summary:  r.Summary(res.Summary),
	}
}

// Info describes the loaded catalog.
func (r *Resolver) Info() CatalogInfo {
	info := CatalogInfo{
		Language:     r.catalog.Language,
		DefaultColor: r.catalog.DefaultColor,
		Colors:       maps.Clone(r.catalog.Colors),
		Entries:      make(map[Category]int, len(r.catalog.Tables)),
	}
	for cat, table := range r.catalog.Tables {
		info.Entries[cat] = len(table)
	}
	for from, to := range r.catalog.Fallbacks {
		info.Fallbacks = append(info.Fallbacks, string(from)+" -> "+string(to))
	}
	sort.Strings(info.Fallbacks)
	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package locale

import "github.com/Rarebox/kalorify-ai/internal/analysis"

// Report is an analysis result with every text field in the display language.
type Report struct {
	Language string          `json:"language"`
	Items    []ItemView      `json:"items"`
	Totals   analysis.Totals `json:"totals"`
	Summary  SummaryLines    `json:"summary"`
}

type ItemView struct {
	Name         string  `json:"name"`
	SourceName   string  `json:"sourceName"`
	PortionG     float64 `json:"portion_g"`
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
	Method       string  `json:"method"`
	Tags         []Tag   `json:"tags"`
	Note         string  `json:"note,omitempty"`
	Tip          string  `json:"tip,omitempty"`
}

// Tag is a diet tag with its translated label and color class. The two are
// looked up independently.
type Tag struct {
	Source string `json:"source"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// SummaryLines is the two-line assessment. Secondary is empty when the
// service sent no tip, and is then not shown at all.
type SummaryLines struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

func (s SummaryLines) HasSecondary() bool {
	return s.Secondary != ""
}

type CatalogInfo struct {
	Language     string            `json:"language"`
	DefaultColor string            `json:"defaultColor"`
	Entries      map[Category]int  `json:"entries"`
	Fallbacks    []string          `json:"fallbacks,omitempty"`
	Colors       map[string]string `json:"colors"`
}

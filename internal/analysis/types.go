package analysis

// Envelope is one element of the array returned by the analysis service.
type Envelope struct {
	Output *Output `json:"output"`
}

type Output struct {
	Items   []Item  `json:"items"`
	Totals  Totals  `json:"totals"`
	Summary Summary `json:"summary"`
}

// Item is a single detected food. Numeric fields are taken as reported by the
// analysis service; nothing here checks ranges or recomputes them.
type Item struct {
	Name         string   `json:"name"`
	PortionG     float64  `json:"portion_g"`
	CaloriesKcal float64  `json:"calories_kcal"`
	ProteinG     float64  `json:"protein_g"`
	CarbsG       float64  `json:"carbs_g"`
	FatG         float64  `json:"fat_g"`
	Method       string   `json:"method"`
	DietFit      []string `json:"dietFit"`
	Note         string   `json:"note,omitempty"`
	Tip          string   `json:"tip,omitempty"`
}

// Totals is the service's own aggregate. It is expected to roughly match the
// item sums but is never validated against them.
type Totals struct {
	PortionG     float64 `json:"portion_g"`
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
}

// Summary carries one of two field pairs depending on the service prompt
// version: quality/overallTip or balance/general_tip.
type Summary struct {
	Quality    string `json:"quality,omitempty"`
	OverallTip string `json:"overallTip,omitempty"`
	Balance    string `json:"balance,omitempty"`
	GeneralTip string `json:"general_tip,omitempty"`
}

// Result is the parsed record for one submitted image.
type Result struct {
	Items   []Item  `json:"items"`
	Totals  Totals  `json:"totals"`
	Summary Summary `json:"summary"`
}

// Image is an uploaded photo on its way to a backend.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

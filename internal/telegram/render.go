package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rarebox/kalorify-ai/apimodels"
	"github.com/Rarebox/kalorify-ai/internal/locale"
)

// Render formats an analysis response as a plain-text chat message.
func Render(resp *apimodels.AnalysisResponse, r *locale.Resolver) string {
	if resp.Status != apimodels.StatusOK || resp.Report == nil {
		return resp.Message
	}

	report := resp.Report
	var sb strings.Builder

	fmt.Fprintf(&sb, "🔥 %s: %s kcal\n", r.Message("calories"), num(report.Totals.CaloriesKcal))
	fmt.Fprintf(&sb, "💪 %s: %s g\n", r.Message("protein"), num(report.Totals.ProteinG))
	fmt.Fprintf(&sb, "🌾 %s: %s g\n", r.Message("carbs"), num(report.Totals.CarbsG))
	fmt.Fprintf(&sb, "🥑 %s: %s g\n", r.Message("fat"), num(report.Totals.FatG))

	fmt.Fprintf(&sb, "\n%s\n%s\n", r.Message("assessment"), report.Summary.Primary)
	if report.Summary.HasSecondary() {
		fmt.Fprintf(&sb, "✅ %s\n", report.Summary.Secondary)
	}

	if len(report.Items) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", r.Message("detected_foods"))
	}
	for _, item := range report.Items {
		fmt.Fprintf(&sb, "\n• %s (%sg)\n", item.Name, num(item.PortionG))
		fmt.Fprintf(&sb, "  %s kcal · %s %sg · %s %sg · %s %sg\n",
			num(item.CaloriesKcal),
			r.Message("protein"), num(item.ProteinG),
			r.Message("carbs"), num(item.CarbsG),
			r.Message("fat"), num(item.FatG),
		)
		if len(item.Tags) > 0 {
			labels := make([]string, len(item.Tags))
			for i, tag := range item.Tags {
				labels[i] = "#" + strings.ReplaceAll(tag.Label, " ", "_")
			}
			fmt.Fprintf(&sb, "  %s\n", strings.Join(labels, " "))
		}
		if item.Note != "" {
			fmt.Fprintf(&sb, "  ℹ️ %s\n", item.Note)
		}
		if item.Tip != "" {
			fmt.Fprintf(&sb, "  ✅ %s\n", item.Tip)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

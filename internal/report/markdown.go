// Package report turns an analysis report into text: the Markdown shown in the
// report panel, its terminal rendering, and the files written on export.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/treykane/carbon-blueprint/internal/analysis"
)

// EmissionUnit is appended to every emission figure.
const EmissionUnit = "kg CO₂e"

// NoRecommendationsMessage is shown when the report carries no
// recommendations.
const NoRecommendationsMessage = "No specific recommendations at this time."

// Section headings, in display order.
const (
	HeadingTitle           = "Carbon Footprint Report"
	HeadingTotal           = "Total Emissions"
	HeadingMaterials       = "Materials Breakdown"
	HeadingRecommendations = "Recommendations"
	HeadingRooms           = "Blueprint Rooms"
)

// TotalLine formats the total emissions to two decimals.
func TotalLine(r analysis.Report) string {
	return fmt.Sprintf("%.2f %s", r.CarbonAnalysis.TotalEmissions, EmissionUnit)
}

// MaterialLine formats one breakdown row as
// "{material}: {quantity} {unit} → {emission} kg CO₂e".
func MaterialLine(m analysis.Material) string {
	return fmt.Sprintf("%s: %s %s → %.2f %s", m.Material, formatQuantity(m.Quantity), m.Unit, m.Emission, EmissionUnit)
}

// Markdown returns the report as a Markdown document. A nil report renders as
// the empty string.
func Markdown(r *analysis.Report) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("# " + HeadingTitle + "\n\n")

	b.WriteString("## " + HeadingTotal + "\n\n")
	b.WriteString("**" + escape(TotalLine(*r)) + "**\n\n")

	b.WriteString("## " + HeadingMaterials + "\n\n")
	if len(r.CarbonAnalysis.Materials) == 0 {
		b.WriteString("_No materials were reported._\n\n")
	} else {
		for _, m := range r.CarbonAnalysis.Materials {
			b.WriteString("- " + escape(MaterialLine(m)) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## " + HeadingRecommendations + "\n\n")
	if len(r.Recommendations) == 0 {
		b.WriteString(NoRecommendationsMessage + "\n")
	} else {
		for _, rec := range r.Recommendations {
			if title, ok := sectionTitle(rec); ok {
				b.WriteString("- **" + escape(title) + "**\n")
				continue
			}
			b.WriteString("- " + escape(strings.TrimSpace(rec)) + "\n")
		}
	}

	if r.BlueprintData != nil && len(r.BlueprintData.Rooms) > 0 {
		b.WriteString("\n## " + HeadingRooms + "\n\n")
		b.WriteString("| Room | Area | Material |\n")
		b.WriteString("| --- | ---: | --- |\n")
		for _, room := range r.BlueprintData.Rooms {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(room.Name), formatQuantity(room.Area), escapeCell(room.Material))
		}
	}
	return b.String()
}

// sectionTitle recognizes the "--- Title ---" dividers the service mixes into
// its recommendation list.
func sectionTitle(rec string) (string, bool) {
	rec = strings.TrimSpace(rec)
	if !strings.HasPrefix(rec, "---") || !strings.HasSuffix(rec, "---") || len(rec) < 7 {
		return "", false
	}
	title := strings.TrimSpace(strings.Trim(rec, "-"))
	if title == "" {
		return "", false
	}
	return title, true
}

// formatQuantity prints the shortest decimal form of q, switching to
// exponent notation (1e+21, 1.5e-7) at 1e21 and below 1e-6.
func formatQuantity(q float64) string {
	if q == 0 {
		return "0"
	}
	switch {
	case math.IsNaN(q):
		return "NaN"
	case math.IsInf(q, 1):
		return "Infinity"
	case math.IsInf(q, -1):
		return "-Infinity"
	}
	abs := math.Abs(q)
	if abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(q, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(q, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
)

// escape keeps service-provided text from being read as Markdown markup.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escape(s), "|", `\|`)
}

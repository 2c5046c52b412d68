package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DisplayVisit is the read-time projection of a ScheduledVisit with the
// optional-field fallback chain applied. It is computed on demand and never
// stored, so the canonical entity stays normalized.
type DisplayVisit struct {
	ScheduledVisit
	DisplayTitle    string
	DisplayLocation string
	DisplayColor    string
}

// Display resolves the display overrides of a visit:
// title and location fall back to the site title, the label color to
// DefaultLabelColor. Whitespace-only overrides count as absent.
func (v ScheduledVisit) Display() DisplayVisit {
	d := DisplayVisit{
		ScheduledVisit:  v,
		DisplayTitle:    strings.TrimSpace(v.Title),
		DisplayLocation: strings.TrimSpace(v.Location),
		DisplayColor:    strings.TrimSpace(v.LabelColor),
	}
	if d.DisplayTitle == "" {
		d.DisplayTitle = v.SiteTitle
	}
	if d.DisplayLocation == "" {
		d.DisplayLocation = v.SiteTitle
	}
	if d.DisplayColor == "" {
		d.DisplayColor = DefaultLabelColor
	}
	return d
}

// RGBAFromHex converts a "#rgb" or "#rrggbb" color to a CSS rgba() string
// with the given alpha. Returns "" for anything it cannot parse; the caller
// is expected to fall back to its own default tint.
func RGBAFromHex(hex string, alpha float64) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(normalized) == 3 {
		var b strings.Builder
		for _, c := range normalized {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		normalized = b.String()
	}
	if len(normalized) != 6 {
		return ""
	}
	r, errR := strconv.ParseUint(normalized[0:2], 16, 8)
	g, errG := strconv.ParseUint(normalized[2:4], 16, 8)
	b, errB := strconv.ParseUint(normalized[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return ""
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'g', -1, 64))
}

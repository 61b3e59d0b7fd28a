// Package analyze produces the deterministic, offline assessment used when
// the LLM path is disabled or fails.
package analyze

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pji114/jusik/internal/model"
)

const (
	RiskVeryHigh = "very high"
	RiskHigh     = "high"
	RiskModerate = "moderate"
	RiskLow      = "low"
)

type Assessment struct {
	RiskLevel  string
	Momentum   string
	VolumeNote string
}

var (
	threshold20 = decimal.NewFromInt(20)
	threshold10 = decimal.NewFromInt(10)
	threshold5  = decimal.NewFromInt(5)
)

// Assess classifies a record purely from its numeric fields. The same
// thresholds apply to falling movers via the absolute change.
func Assess(record model.StockRecord) Assessment {
	var a Assessment

	change := record.ChangePercent.Abs()
	falling := record.ChangePercent.IsNegative()

	switch {
	case change.GreaterThanOrEqual(threshold20):
		a.RiskLevel = RiskVeryHigh
		if falling {
			a.Momentum = "sharp decline approaching the daily limit; extreme caution advised"
		} else {
			a.Momentum = "surge approaching the daily limit; extreme caution advised"
		}
	case change.GreaterThanOrEqual(threshold10):
		a.RiskLevel = RiskHigh
		if falling {
			a.Momentum = "significant decline showing high volatility"
		} else {
			a.Momentum = "significant rally showing high volatility"
		}
	case change.GreaterThanOrEqual(threshold5):
		a.RiskLevel = RiskModerate
		if falling {
			a.Momentum = "steady decline worth monitoring"
		} else {
			a.Momentum = "steady climb worth monitoring"
		}
	default:
		a.RiskLevel = RiskLow
		if falling {
			a.Momentum = "gradual decline within normal range"
		} else {
			a.Momentum = "gradual rise within normal range"
		}
	}

	switch {
	case record.Volume > 1_000_000:
		a.VolumeNote = "trading volume is very active, indicating strong market attention"
	case record.Volume > 100_000:
		a.VolumeNote = "trading volume is elevated above typical levels"
	default:
		a.VolumeNote = "trading volume is at typical levels"
	}

	return a
}

// FallbackSummary builds the templated analysis text. It is a pure function
// of its inputs: identical input yields byte-identical output.
func FallbackSummary(record model.StockRecord, news []model.NewsItem) string {
	a := Assess(record)

	var b strings.Builder
	fmt.Fprintf(&b, "### Basic analysis\n\n")
	fmt.Fprintf(&b, "**%s** is at %s with a change of %s%% on volume of %s shares.\n\n",
		record.Name, record.Price.StringFixed(0), record.ChangePercent.StringFixed(2), FormatVolume(record.Volume))
	fmt.Fprintf(&b, "- Momentum: %s\n", a.Momentum)
	fmt.Fprintf(&b, "- Volume: %s\n", a.VolumeNote)
	fmt.Fprintf(&b, "- Risk level: %s\n", a.RiskLevel)

	if len(news) > 0 {
		fmt.Fprintf(&b, "\n### Recent headlines\n\n")
		for _, item := range news {
			fmt.Fprintf(&b, "- %s\n", item.Headline)
		}
	}

	fmt.Fprintf(&b, "\n### Investor notes\n\n")
	fmt.Fprintf(&b, "- Fast movers carry high volatility; decide with care\n")
	fmt.Fprintf(&b, "- Weigh earnings, news and overall market conditions together\n")
	fmt.Fprintf(&b, "- Diversify to manage downside risk\n")

	return b.String()
}

// FormatVolume renders a share count with thousands separators.
func FormatVolume(v int64) string {
	s := fmt.Sprintf("%d", v)
	if v < 0 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

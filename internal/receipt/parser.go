package receipt

import (
	"regexp"
	"strconv"
	"strings"
)

// Item is a candidate line item extracted from receipt text. Selected defaults
// to true and is user-toggleable before categorization begins.
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Selected bool    `json:"selected"`
}

// The REWE-style receipt layout prints one item per line: a product name, a
// comma-decimal price, and a single-letter tax category (A or B). OCR output
// is noisy and inconsistently spaced, so matching runs as a cascade from
// strict to loose, and the first rule with at least one match across the
// whole document wins. Tiers are never mixed: merging them risks duplicate
// matches on the same line.
var (
	strictLine = regexp.MustCompile(`^([A-ZÄÖÜa-zäöü\s\.\-]+?)\s+(\d+,\d{2})\s+[AB]\s*$`)
	looseLine  = regexp.MustCompile(`^([A-ZÄÖÜa-zäöü\s\.\-]{3,}?)\s+(\d+,\d{2})(?:\s+[AB])?\s*$`)
	anyPrice   = regexp.MustCompile(`([A-ZÄÖÜa-zäöü][A-ZÄÖÜa-zäöü\s\.\-]{2,}?)\s*(\d+,\d{2})`)
)

// lineRule is a single matcher in the cascade. Returning ok=false means the
// line is not an item under this rule.
type lineRule struct {
	name  string
	match func(line string) (name, price string, ok bool)
}

var itemRules = []lineRule{
	{name: "strict", match: matchStrict},
	{name: "loose", match: matchLoose},
	{name: "fallback", match: matchFallback},
}

// markerNames reject candidates whose name is a deposit, tax, or subtotal
// marker rather than a product (PFAND is the bottle deposit line).
var markerNames = []string{"PFAND", "SUMME", "EURO", "STEUER", "NETTO", "MWST", "RABATT"}

// noiseLines exclude whole lines from the fallback rule: store header,
// totals, currency labels, and date/terminal/tax-system metadata.
var noiseLines = []string{"REWE", "SUMME", "EUR", "DATUM", "TERMINAL", "TSE", "UST-ID", "BON-NR", "UHRZEIT"}

// ParseItems extracts candidate items from raw receipt text, preserving
// source order. It is a pure function: malformed input never raises, it just
// yields an empty (non-nil) result, which callers surface as "no items found"
// rather than as an error.
func ParseItems(text string) []Item {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	for _, rule := range itemRules {
		if items := applyRule(rule, lines); len(items) > 0 {
			return items
		}
	}
	return []Item{}
}

func applyRule(rule lineRule, lines []string) []Item {
	items := make([]Item, 0)
	for _, line := range lines {
		if line == "" {
			continue
		}
		name, priceToken, ok := rule.match(line)
		if !ok {
			continue
		}

		cleanName := strings.TrimSpace(name)
		price := parsePrice(priceToken)
		if !keepItem(cleanName, price) {
			continue
		}

		items = append(items, Item{Name: cleanName, Price: price, Selected: true})
	}
	return items
}

func matchStrict(line string) (string, string, bool) {
	m := strictLine.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func matchLoose(line string) (string, string, bool) {
	m := looseLine.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func matchFallback(line string) (string, string, bool) {
	upper := strings.ToUpper(line)
	for _, marker := range noiseLines {
		if strings.Contains(upper, marker) {
			return "", "", false
		}
	}
	m := anyPrice.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// parsePrice converts a comma-decimal price token ("3,49") to a float (3.49)
func parsePrice(token string) float64 {
	price, err := strconv.ParseFloat(strings.Replace(token, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return price
}

// keepItem filters candidates regardless of which rule matched them
func keepItem(name string, price float64) bool {
	if len([]rune(name)) <= 2 || price <= 0 {
		return false
	}
	upper := strings.ToUpper(name)
	for _, marker := range markerNames {
		if strings.Contains(upper, marker) {
			return false
		}
	}
	return true
}

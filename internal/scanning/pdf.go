package scanning

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// lineThreshold is the vertical distance (in PDF units) beyond which two text
// fragments belong to different lines
const lineThreshold = 2.0

// textFragment is a positioned piece of text from a PDF page. PDF coordinates
// grow upward, so larger y means closer to the top of the page.
type textFragment struct {
	x, y float64
	text string
}

// extractPDFText reads the text layer of a PDF and reconstructs reading order.
// Receipt PDFs store text as independently positioned fragments; fragments are
// grouped into lines by vertical proximity and joined left to right.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		var fragments []textFragment
		for _, t := range page.Content().Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			fragments = append(fragments, textFragment{x: t.X, y: t.Y, text: t.S})
		}

		lines := assembleLines(fragments)
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}

	return strings.Join(pages, "\n"), nil
}

// assembleLines groups fragments into lines top to bottom. A new line begins
// when the vertical position shifts by more than lineThreshold; within a line
// fragments are ordered by horizontal position and joined with single spaces.
func assembleLines(fragments []textFragment) []string {
	if len(fragments) == 0 {
		return nil
	}

	sorted := append([]textFragment(nil), fragments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].y > sorted[j].y
	})

	var groups [][]textFragment
	current := []textFragment{sorted[0]}
	lastY := sorted[0].y
	for _, f := range sorted[1:] {
		if math.Abs(f.y-lastY) > lineThreshold {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, f)
		lastY = f.y
	}
	groups = append(groups, current)

	lines := make([]string, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].x < group[j].x
		})
		parts := make([]string, 0, len(group))
		for _, f := range group {
			parts = append(parts, strings.TrimSpace(f.text))
		}
		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

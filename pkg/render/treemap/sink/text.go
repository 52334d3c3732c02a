package sink

import "github.com/matzehuels/zoomtree/pkg/render/treemap/scene"

const (
	// HeaderSpace is the band above the tiles reserved for the header strip.
	HeaderSpace = 50

	labelX      = 20.0
	nameY       = 30.0
	countY      = 50.0
	charWidth   = 6.0
	minLabelW   = labelX + 3*charWidth
	minCountH   = countY + 4
	minNameH    = nameY + 4
	headerTextY = 20.0
)

type labelLine struct {
	text string
	x, y float64
}

// labelLines returns the label lines that fit inside e, positioned relative
// to the element's top-left corner.
func labelLines(e scene.Element) []labelLine {
	a := e.Attrs
	if a.W < minLabelW {
		return nil
	}
	maxChars := int((a.W - labelX) / charWidth)

	if e.Header {
		text := e.Name
		if e.Label != "" {
			text += " (" + e.Label + ")"
		}
		return []labelLine{{truncate(text, maxChars), labelX, headerTextY}}
	}

	var lines []labelLine
	if a.H >= minNameH {
		lines = append(lines, labelLine{truncate(e.Name, maxChars), labelX, nameY})
	}
	if a.H >= minCountH && e.Label != "" {
		lines = append(lines, labelLine{truncate(e.Label, maxChars), labelX, countY})
	}
	return lines
}

func truncate(s string, maxChars int) string {
	r := []rune(s)
	if maxChars < 3 {
		maxChars = 3
	}
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

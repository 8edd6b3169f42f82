package gauge

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrUnsupportedRowCount is returned for bar heights without a border table entry.
	ErrUnsupportedRowCount = errors.New("unsupported bar row count")
	// ErrInvalidWidth is returned for a non-positive bar width.
	ErrInvalidWidth = errors.New("bar width must be positive")
)

const (
	// DefaultDrawChar is the glyph used for the filled part of the bar.
	DefaultDrawChar = '░'

	outlineChar = "─"
	// percentLineWidth keeps "Charge: 5%" and "Charge: 100%" the same width.
	// It counts runes, not terminal columns: the wide ⚡ glyph takes two
	// columns on most terminals, so the line is one column wider on screen.
	percentLineWidth = 20
)

// Style controls how DrawBar renders.
type Style struct {
	DrawChar    rune
	UseOutline  bool
	ShowPercent bool
}

// DefaultStyle returns the style used when nothing is configured.
func DefaultStyle() Style {
	return Style{
		DrawChar:    DefaultDrawChar,
		UseOutline:  true,
		ShowPercent: true,
	}
}

// RowCount returns the number of bar rows the style draws.
func (s Style) RowCount() int {
	if s.UseOutline {
		return 5
	}
	return 3
}

type borderPair struct {
	left, right string
}

var (
	topBorder    = borderPair{" ┌", "┐ "}
	sideBorder   = borderPair{" │", "│ "}
	bottomBorder = borderPair{" └", "┘ "}
)

// borders maps a row count to the border glyphs of each row.
var borders = map[int][]borderPair{
	2: {topBorder, bottomBorder},
	3: {topBorder, sideBorder, bottomBorder},
	4: {topBorder, sideBorder, sideBorder, bottomBorder},
	5: {topBorder, sideBorder, sideBorder, sideBorder, bottomBorder},
}

// BarLength returns round(percentage / 100 * width), limited to [0, width].
func BarLength(percentage, width int) int {
	n := int(math.Round(float64(percentage) / 100 * float64(width)))
	return clamp(n, 0, width)
}

// DrawBar renders a bar for percentage as fixed-width rows. Every row has
// the same width whatever the percentage, so a frame fully overwrites the
// previous one. When style.ShowPercent is set a blank line and a charge
// line follow the bar.
func DrawBar(percentage, totalWidth int, style Style) ([]string, error) {
	rows, err := drawRows(percentage, totalWidth, style.RowCount(), style)
	if err != nil {
		return nil, err
	}

	if style.ShowPercent {
		rows = append(rows, "", padRight(fmt.Sprintf("  ⚡ Charge: %d%%", percentage), percentLineWidth))
	}

	return rows, nil
}

func drawRows(percentage, width, rowCount int, style Style) ([]string, error) {
	if width <= 0 {
		return nil, ErrInvalidWidth
	}
	table, ok := borders[rowCount]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedRowCount, rowCount)
	}

	drawChar := style.DrawChar
	if drawChar == 0 {
		drawChar = DefaultDrawChar
	}

	filled := BarLength(percentage, width)
	fill := strings.Repeat(string(drawChar), filled) + spaces(width-filled)
	outline := strings.Repeat(outlineChar, width)

	rows := make([]string, 0, rowCount)
	for i, b := range table {
		body := fill
		if style.UseOutline && (i == 0 || i == rowCount-1) {
			body = outline
		}
		rows = append(rows, b.left+body+b.right)
	}

	return rows, nil
}

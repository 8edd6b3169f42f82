package gauge

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDrawBarOutline(t *testing.T) {
	rows, err := DrawBar(50, 35, Style{DrawChar: '#', UseOutline: true})
	if err != nil {
		t.Fatalf("DrawBar() error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}

	wantFill := " │" + strings.Repeat("#", 18) + strings.Repeat(" ", 17) + "│ "
	for i := 1; i <= 3; i++ {
		if rows[i] != wantFill {
			t.Errorf("rows[%d] = %q, want %q", i, rows[i], wantFill)
		}
	}
	if want := " ┌" + strings.Repeat("─", 35) + "┐ "; rows[0] != want {
		t.Errorf("rows[0] = %q, want %q", rows[0], want)
	}
	if want := " └" + strings.Repeat("─", 35) + "┘ "; rows[4] != want {
		t.Errorf("rows[4] = %q, want %q", rows[4], want)
	}
}

func TestDrawBarNoOutline(t *testing.T) {
	rows, err := DrawBar(100, 10, Style{DrawChar: '#'})
	if err != nil {
		t.Fatalf("DrawBar() error = %v", err)
	}
	want := []string{
		" ┌##########┐ ",
		" │##########│ ",
		" └##########┘ ",
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("DrawBar() = %q, want %q", rows, want)
	}
}

func TestDrawBarShowPercent(t *testing.T) {
	rows, err := DrawBar(7, 20, Style{ShowPercent: true})
	if err != nil {
		t.Fatalf("DrawBar() error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}
	if rows[3] != "" {
		t.Errorf("rows[3] = %q, want empty", rows[3])
	}
	if !strings.HasPrefix(rows[4], "  ⚡ Charge: 7%") {
		t.Errorf("rows[4] = %q", rows[4])
	}
	// The default glyph is used when none is set.
	if !strings.Contains(rows[1], string(DefaultDrawChar)) {
		t.Errorf("rows[1] = %q, want default glyph", rows[1])
	}
}

func TestDrawBarStableWidth(t *testing.T) {
	style := DefaultStyle()
	var widths []int
	for _, pct := range []int{0, 1, 5, 49, 50, 99, 100, 142, -3} {
		rows, err := DrawBar(pct, 35, style)
		if err != nil {
			t.Fatalf("DrawBar(%d) error = %v", pct, err)
		}
		for i, r := range rows {
			if i >= style.RowCount() {
				continue
			}
			widths = append(widths, utf8.RuneCountInString(r))
		}
		if n := utf8.RuneCountInString(rows[len(rows)-1]); n != percentLineWidth {
			t.Errorf("DrawBar(%d) percent line width = %d, want %d", pct, n, percentLineWidth)
		}
	}
	for _, w := range widths {
		if w != widths[0] {
			t.Fatalf("row widths differ: %v", widths)
		}
	}
}

func TestDrawBarIdempotent(t *testing.T) {
	a, err := DrawBar(63, 35, DefaultStyle())
	if err != nil {
		t.Fatalf("DrawBar() error = %v", err)
	}
	b, _ := DrawBar(63, 35, DefaultStyle())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("DrawBar() not idempotent: %q != %q", a, b)
	}
}

func TestDrawRowsBorderTable(t *testing.T) {
	tests := []struct {
		rowCount int
		wantErr  error
		first    string
		last     string
	}{
		{rowCount: 2, first: " ┌", last: " └"},
		{rowCount: 3, first: " ┌", last: " └"},
		{rowCount: 4, first: " ┌", last: " └"},
		{rowCount: 5, first: " ┌", last: " └"},
		{rowCount: 1, wantErr: ErrUnsupportedRowCount},
		{rowCount: 6, wantErr: ErrUnsupportedRowCount},
	}
	for _, tt := range tests {
		rows, err := drawRows(50, 4, tt.rowCount, Style{DrawChar: '#'})
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("drawRows(rowCount=%d) error = %v, want %v", tt.rowCount, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("drawRows(rowCount=%d) error = %v", tt.rowCount, err)
		}
		if len(rows) != tt.rowCount {
			t.Errorf("drawRows(rowCount=%d) len = %d", tt.rowCount, len(rows))
		}
		if !strings.HasPrefix(rows[0], tt.first) || !strings.HasPrefix(rows[len(rows)-1], tt.last) {
			t.Errorf("drawRows(rowCount=%d) = %q", tt.rowCount, rows)
		}
		for _, r := range rows[1 : len(rows)-1] {
			if !strings.HasPrefix(r, " │") || !strings.HasSuffix(r, "│ ") {
				t.Errorf("drawRows(rowCount=%d) interior row = %q", tt.rowCount, r)
			}
		}
	}
}

func TestDrawBarInvalidWidth(t *testing.T) {
	if _, err := DrawBar(50, 0, DefaultStyle()); !errors.Is(err, ErrInvalidWidth) {
		t.Errorf("DrawBar() error = %v, want %v", err, ErrInvalidWidth)
	}
}

func TestFormatMilliwatts(t *testing.T) {
	v := func(i int) *int { return &i }
	tests := []struct {
		in   *int
		want string
	}{
		{in: nil, want: "0 W"},
		{in: v(500), want: "500.00 mW"},
		{in: v(-17000), want: "17.00 W"},
		{in: v(1500000), want: "1.50 KW"},
	}
	for _, tt := range tests {
		if got := FormatMilliwatts(tt.in); got != tt.want {
			t.Errorf("FormatMilliwatts() = %v, want %v", got, tt.want)
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	if got := FormatRemaining(30); got != "0 hours & 30 minutes" {
		t.Errorf("FormatRemaining(30) = %q", got)
	}
	if got := FormatRemaining(135); got != "2 hours & 15 minutes" {
		t.Errorf("FormatRemaining(135) = %q", got)
	}
}

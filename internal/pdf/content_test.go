package pdf

import (
	"testing"
)

func TestFindTextPosition(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		needle   string
		wantX    float64
		wantY    float64
		wantSize float64
		wantOK   bool
	}{
		{
			name:     "Tm positioned Tj",
			content:  "BT /F1 12 Tf 1 0 0 1 100 200 Tm (Hello world) Tj ET",
			needle:   "Hello",
			wantX:    100,
			wantY:    200,
			wantSize: 12,
			wantOK:   true,
		},
		{
			name:     "Td offsets accumulate",
			content:  "BT /F1 10 Tf 50 700 Td 20 -15 Td (Invoice total) Tj ET",
			needle:   "Invoice total",
			wantX:    70,
			wantY:    685,
			wantSize: 10,
			wantOK:   true,
		},
		{
			name:     "TD sets leading and T* advances",
			content:  "BT /F1 9 Tf 72 720 Td 0 -14 TD (first line) Tj T* (second line) Tj ET",
			needle:   "second line",
			wantX:    72,
			wantY:    692,
			wantSize: 9,
			wantOK:   true,
		},
		{
			name:     "TJ array with kerning",
			content:  "BT /F1 14 Tf 1 0 0 1 30 40 Tm [(Con) -20 (fid) 15 (ential)] TJ ET",
			needle:   "Confidential",
			wantX:    30,
			wantY:    40,
			wantSize: 14,
			wantOK:   true,
		},
		{
			name:     "hex string",
			content:  "BT /F1 12 Tf 1 0 0 1 10 20 Tm <48656C6C6F> Tj ET",
			needle:   "Hello",
			wantX:    10,
			wantY:    20,
			wantSize: 12,
			wantOK:   true,
		},
		{
			name:     "escaped parentheses in literal",
			content:  `BT /F1 12 Tf 1 0 0 1 5 6 Tm (a \(b\) c) Tj ET`,
			needle:   "(b)",
			wantX:    5,
			wantY:    6,
			wantSize: 12,
			wantOK:   true,
		},
		{
			name:    "needle absent",
			content: "BT /F1 12 Tf 1 0 0 1 100 200 Tm (Hello) Tj ET",
			needle:  "Goodbye",
			wantOK:  false,
		},
		{
			name:    "empty needle never matches",
			content: "BT (anything) Tj ET",
			needle:  "",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, size, ok := FindTextPosition([]byte(tt.content), tt.needle)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if pos.X != tt.wantX || pos.Y != tt.wantY {
				t.Errorf("position = (%v, %v), want (%v, %v)", pos.X, pos.Y, tt.wantX, tt.wantY)
			}
			if size != tt.wantSize {
				t.Errorf("font size = %v, want %v", size, tt.wantSize)
			}
		})
	}
}

func TestFindTextPosition_QuoteOperators(t *testing.T) {
	// ' moves to the next line and shows; position tracking for the
	// string itself still uses the current text position.
	content := "BT /F1 11 Tf 40 500 Td (ignored) Tj (target text) ' ET"
	pos, size, ok := FindTextPosition([]byte(content), "target text")
	if !ok {
		t.Fatalf("expected a match")
	}
	if pos.X != 40 || pos.Y != 500 {
		t.Errorf("position = (%v, %v), want (40, 500)", pos.X, pos.Y)
	}
	if size != 11 {
		t.Errorf("font size = %v, want 11", size)
	}
}

func TestContentScanner_StringEscapes(t *testing.T) {
	s := newContentScanner([]byte(`(line\nbreak \101 tab\there)`))
	tok, ok := s.next()
	if !ok || tok.kind != tokString {
		t.Fatalf("expected a string token")
	}
	want := "line\nbreak A tab\there"
	if tok.text != want {
		t.Errorf("decoded %q, want %q", tok.text, want)
	}
}

func TestContentScanner_SkipsComments(t *testing.T) {
	s := newContentScanner([]byte("% a comment\n42"))
	tok, ok := s.next()
	if !ok || tok.kind != tokNumber || tok.number != 42 {
		t.Errorf("expected the number after the comment, got %+v", tok)
	}
}

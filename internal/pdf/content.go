package pdf

import (
	"strconv"
)

// Point is a position in PDF user space (bottom-left origin).
type Point struct {
	X float64
	Y float64
}

// FindTextPosition scans a decoded page content stream for the first
// show-text operator whose string contains needle and returns the
// current text position and font size. The tracker follows Tm, Td, TD
// and T* only, which is enough for the straightforward text layout the
// overlay editor targets; kerning and rise are ignored.
func FindTextPosition(content []byte, needle string) (Point, float64, bool) {
	s := newContentScanner(content)

	var (
		pos      Point
		leading  float64
		fontSize float64 = 12
		operands []operand
	)

	push := func(op operand) {
		// Show-text operators take at most six numeric operands (Tm).
		if len(operands) >= 8 {
			operands = operands[1:]
		}
		operands = append(operands, op)
	}

	numbers := func(n int) ([]float64, bool) {
		if len(operands) < n {
			return nil, false
		}
		out := make([]float64, 0, n)
		for _, op := range operands[len(operands)-n:] {
			if !op.isNumber {
				return nil, false
			}
			out = append(out, op.number)
		}
		return out, true
	}

	for {
		tok, ok := s.next()
		if !ok {
			return Point{}, 0, false
		}

		switch tok.kind {
		case tokString, tokNumber, tokName:
			push(operand{
				isNumber: tok.kind == tokNumber,
				number:   tok.number,
				text:     tok.text,
			})
			continue
		case tokArrayStart, tokArrayEnd:
			// TJ arrays are flattened: string elements stay on the
			// operand stack, kern numbers are ignored below.
			continue
		}

		// Operator.
		switch tok.text {
		case "Tf":
			if nums, ok := numbers(1); ok {
				fontSize = nums[0]
			}
		case "Tm":
			if nums, ok := numbers(6); ok {
				pos = Point{X: nums[4], Y: nums[5]}
			}
		case "Td":
			if nums, ok := numbers(2); ok {
				pos.X += nums[0]
				pos.Y += nums[1]
			}
		case "TD":
			if nums, ok := numbers(2); ok {
				pos.X += nums[0]
				pos.Y += nums[1]
				leading = -nums[1]
			}
		case "TL":
			if nums, ok := numbers(1); ok {
				leading = nums[0]
			}
		case "T*":
			pos.Y -= leading
		case "BT":
			pos = Point{}
		case "Tj", "'", "\"":
			if shown, ok := lastString(operands); ok && containsText(shown, needle) {
				return pos, fontSize, true
			}
		case "TJ":
			if containsText(joinStrings(operands), needle) {
				return pos, fontSize, true
			}
		}
		operands = operands[:0]
	}
}

type operand struct {
	isNumber bool
	number   float64
	text     string
}

func lastString(ops []operand) (string, bool) {
	for i := len(ops) - 1; i >= 0; i-- {
		if !ops[i].isNumber && ops[i].text != "" {
			return ops[i].text, true
		}
	}
	return "", false
}

func joinStrings(ops []operand) string {
	var out []byte
	for _, op := range ops {
		if !op.isNumber {
			out = append(out, op.text...)
		}
	}
	return string(out)
}

func containsText(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// --- content stream tokenizer ---

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokName
	tokArrayStart
	tokArrayEnd
	tokOperator
)

type token struct {
	kind   tokenKind
	number float64
	text   string
}

type contentScanner struct {
	data []byte
	pos  int
}

func newContentScanner(data []byte) *contentScanner {
	return &contentScanner{data: data}
}

func (s *contentScanner) next() (token, bool) {
	s.skipWhitespaceAndComments()
	if s.pos >= len(s.data) {
		return token{}, false
	}

	c := s.data[s.pos]
	switch {
	case c == '(':
		return s.scanLiteralString()
	case c == '<':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			s.pos += 2
			return token{kind: tokOperator, text: "<<"}, true
		}
		return s.scanHexString()
	case c == '>':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '>' {
			s.pos += 2
			return token{kind: tokOperator, text: ">>"}, true
		}
		s.pos++
		return token{kind: tokOperator, text: ">"}, true
	case c == '[':
		s.pos++
		return token{kind: tokArrayStart, text: "["}, true
	case c == ']':
		s.pos++
		return token{kind: tokArrayEnd, text: "]"}, true
	case c == '/':
		return s.scanName()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return s.scanNumber()
	default:
		return s.scanOperator()
	}
}

func (s *contentScanner) skipWhitespaceAndComments() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0 {
			s.pos++
			continue
		}
		if c == '%' {
			for s.pos < len(s.data) && s.data[s.pos] != '\n' {
				s.pos++
			}
			continue
		}
		return
	}
}

func (s *contentScanner) scanLiteralString() (token, bool) {
	s.pos++ // consume '('
	var out []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch c {
		case '\\':
			s.pos++
			if s.pos >= len(s.data) {
				break
			}
			e := s.data[s.pos]
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b', 'f':
				// Ignored control escapes.
			case '\n':
				// Line continuation.
			default:
				if e >= '0' && e <= '7' {
					// Octal escape, up to three digits.
					v := int(e - '0')
					for n := 0; n < 2 && s.pos+1 < len(s.data); n++ {
						d := s.data[s.pos+1]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
			s.pos++
		case '(':
			depth++
			out = append(out, c)
			s.pos++
		case ')':
			depth--
			s.pos++
			if depth == 0 {
				return token{kind: tokString, text: string(out)}, true
			}
			out = append(out, c)
		default:
			out = append(out, c)
			s.pos++
		}
	}
	return token{kind: tokString, text: string(out)}, true
}

func (s *contentScanner) scanHexString() (token, bool) {
	s.pos++ // consume '<'
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		c := s.data[s.pos]
		if isHexDigit(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	if s.pos < len(s.data) {
		s.pos++ // consume '>'
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		hi := hexVal(digits[i])
		lo := hexVal(digits[i+1])
		out = append(out, byte(hi<<4|lo))
	}
	return token{kind: tokString, text: string(out)}, true
}

func (s *contentScanner) scanName() (token, bool) {
	s.pos++ // consume '/'
	start := s.pos
	for s.pos < len(s.data) && isRegular(s.data[s.pos]) {
		s.pos++
	}
	return token{kind: tokName, text: string(s.data[start:s.pos])}, true
}

func (s *contentScanner) scanNumber() (token, bool) {
	start := s.pos
	s.pos++
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			s.pos++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(string(s.data[start:s.pos]), 64)
	if err != nil {
		return token{kind: tokOperator, text: string(s.data[start:s.pos])}, true
	}
	return token{kind: tokNumber, number: v}, true
}

func (s *contentScanner) scanOperator() (token, bool) {
	start := s.pos
	for s.pos < len(s.data) && isRegular(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		// Lone delimiter such as ' or " used as an operator.
		s.pos++
	}
	return token{kind: tokOperator, text: string(s.data[start:s.pos])}, true
}

func isRegular(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0, '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

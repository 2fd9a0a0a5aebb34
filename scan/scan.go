// Package scan provides balanced-text scanning over host-expression source:
// finding the end of a bracketed span, splitting expression lists on
// top-level commas and keywords, and classifying string/comment segments so
// keyword matching and placeholder numbering never look inside them.
package scan

import "fmt"

// SegmentKind classifies a contiguous span of source text.
type SegmentKind int

const (
	SegCode SegmentKind = iota
	SegString
	SegComment
)

// Segment is a half-open byte range [Start, End) of one kind.
type Segment struct {
	Kind  SegmentKind
	Start int
	End   int
}

// Segments splits src into code, string and comment spans. Unterminated
// strings and block comments extend to the end of input.
func Segments(src string) []Segment {
	var segs []Segment
	emit := func(kind SegmentKind, start, end int) {
		if end > start {
			segs = append(segs, Segment{Kind: kind, Start: start, End: end})
		}
	}
	codeStart := 0
	i := 0
	for i < len(src) {
		switch {
		case src[i] == '"':
			emit(SegCode, codeStart, i)
			end, _ := stringEnd(src, i)
			emit(SegString, i, end)
			i, codeStart = end, end
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '/':
			emit(SegCode, codeStart, i)
			end := lineCommentEnd(src, i)
			emit(SegComment, i, end)
			i, codeStart = end, end
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '*':
			emit(SegCode, codeStart, i)
			end, _ := blockCommentEnd(src, i)
			emit(SegComment, i, end)
			i, codeStart = end, end
		default:
			i++
		}
	}
	emit(SegCode, codeStart, len(src))
	return segs
}

// stringEnd returns the offset just past the string literal opening at
// src[open]. Backslash escapes the following byte. ok is false when the
// literal is unterminated, in which case end is len(src).
func stringEnd(src string, open int) (end int, ok bool) {
	i := open + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1, true
		default:
			i++
		}
	}
	return len(src), false
}

func lineCommentEnd(src string, open int) int {
	for i := open + 2; i < len(src); i++ {
		if src[i] == '\n' {
			return i
		}
	}
	return len(src)
}

func blockCommentEnd(src string, open int) (end int, ok bool) {
	for i := open + 2; i+1 < len(src); i++ {
		if src[i] == '*' && src[i+1] == '/' {
			return i + 2, true
		}
	}
	return len(src), false
}

// Balanced returns the offset just past the bracketed span opening at
// src[open], skipping nested brackets, string literals and comments.
func Balanced(src string, open int) (int, error) {
	var stack []byte
	i := open
	for i < len(src) {
		switch c := src[i]; c {
		case '"':
			end, ok := stringEnd(src, i)
			if !ok {
				return 0, fmt.Errorf("unterminated string literal")
			}
			i = end
		case '/':
			i = skipComment(src, i)
		case '(':
			stack = append(stack, ')')
			i++
		case '[':
			stack = append(stack, ']')
			i++
		case '{':
			stack = append(stack, '}')
			i++
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, fmt.Errorf("unbalanced %q", c)
			}
			stack = stack[:len(stack)-1]
			i++
			if len(stack) == 0 {
				return i, nil
			}
		default:
			i++
		}
	}
	return 0, fmt.Errorf("unterminated %q span", src[open])
}

func skipComment(src string, i int) int {
	if i+1 >= len(src) {
		return i + 1
	}
	switch src[i+1] {
	case '/':
		return lineCommentEnd(src, i)
	case '*':
		end, _ := blockCommentEnd(src, i)
		return end
	default:
		return i + 1
	}
}

// TermKind identifies what terminated an expression item.
type TermKind int

const (
	TermEOF TermKind = iota
	TermComma
	TermWord
)

// Term describes the terminator found by ExprItem. Pos is the byte offset
// where the terminator begins; for TermEOF it equals len(src).
type Term struct {
	Kind TermKind
	Word string
	Pos  int
}

// ExprItem scans one balanced expression item starting at pos. The item ends
// at a top-level comma, at a top-level identifier for which stop reports
// true, or at end of input. It returns the offset just past the item text
// (before the terminator) and the terminator itself. Commas, keywords and
// brackets inside strings, comments or nested brackets do not terminate the
// item.
func ExprItem(src string, pos int, stop func(word string) bool) (int, Term, error) {
	i := pos
	for i < len(src) {
		c := src[i]
		switch {
		case c == '"':
			end, ok := stringEnd(src, i)
			if !ok {
				return 0, Term{}, fmt.Errorf("unterminated string literal")
			}
			i = end
		case c == '/' && i+1 < len(src) && (src[i+1] == '/' || src[i+1] == '*'):
			i = skipComment(src, i)
		case c == '(' || c == '[' || c == '{':
			end, err := Balanced(src, i)
			if err != nil {
				return 0, Term{}, err
			}
			i = end
		case c == ')' || c == ']' || c == '}':
			return 0, Term{}, fmt.Errorf("unbalanced %q", c)
		case c == ',':
			return i, Term{Kind: TermComma, Pos: i}, nil
		case IsIdentStart(c):
			word, end := Word(src, i)
			if stop != nil && stop(word) {
				return i, Term{Kind: TermWord, Word: word, Pos: i}, nil
			}
			i = end
		case c >= '0' && c <= '9':
			// A number token; letters glued to it (e.g. the exponent in
			// 1e3) are part of the token, never a keyword boundary.
			for i < len(src) && isTokenPart(src[i]) {
				i++
			}
		default:
			i++
		}
	}
	return len(src), Term{Kind: TermEOF, Pos: len(src)}, nil
}

// SkipSpace advances pos past whitespace and comments.
func SkipSpace(src string, pos int) int {
	for pos < len(src) {
		switch c := src[pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			pos++
		case c == '/' && pos+1 < len(src) && (src[pos+1] == '/' || src[pos+1] == '*'):
			pos = skipComment(src, pos)
		default:
			return pos
		}
	}
	return pos
}

// Word reads the identifier starting at pos, returning it and the offset
// just past it. If src[pos] does not start an identifier, the word is empty
// and end equals pos.
func Word(src string, pos int) (word string, end int) {
	if pos >= len(src) || !IsIdentStart(src[pos]) {
		return "", pos
	}
	end = pos + 1
	for end < len(src) && IsIdentPart(src[end]) {
		end++
	}
	return src[pos:end], end
}

// EachWord calls fn for every identifier appearing in a code segment of src,
// in source order. Identifiers inside strings and comments are skipped, as
// are letters glued to a leading digit.
func EachWord(src string, fn func(word string)) {
	for _, seg := range Segments(src) {
		if seg.Kind != SegCode {
			continue
		}
		i := seg.Start
		for i < seg.End {
			c := src[i]
			switch {
			case IsIdentStart(c):
				word, end := Word(src, i)
				fn(word)
				i = end
			case c >= '0' && c <= '9':
				for i < seg.End && isTokenPart(src[i]) {
					i++
				}
			default:
				i++
			}
		}
	}
}

// IsIdentStart reports whether b can begin an identifier.
func IsIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// IsIdentPart reports whether b can continue an identifier.
func IsIdentPart(b byte) bool {
	return IsIdentStart(b) || (b >= '0' && b <= '9')
}

func isTokenPart(b byte) bool {
	return IsIdentPart(b) || b == '.'
}

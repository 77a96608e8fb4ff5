package applescript

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tagged is a reply value printed as `<tag> "<text>"`, such as a date,
// alias, or file reference.
type Tagged struct {
	Tag  string
	Text string
}

func (t Tagged) String() string { return t.Tag + " " + strconv.Quote(t.Text) }

// Parse decodes the source-form reply osascript prints with `-s s`.
//
// Lists become []any, records map[string]any, integers int64, reals float64,
// and `missing value` Missing. Empty output decodes to nil.
func Parse(src string) (any, error) {
	p := &parser{src: strings.TrimSpace(src)}
	if p.src == "" {
		return nil, nil
	}
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input %q", p.rest(16))
	}
	return value, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("parse reply at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) rest(n int) string {
	end := min(p.pos+n, len(p.src))
	return p.src[p.pos:end]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseValue() (any, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case c == '{':
		return p.parseCollection()
	case c == '"':
		return p.parseString()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return p.parseWord()
	}
}

func (p *parser) parseCollection() (any, error) {
	p.pos++ // {
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return []any{}, nil
	}

	var list []any
	var record map[string]any
	for {
		p.skipSpace()
		if key, ok := p.tryRecordKey(); ok {
			if list != nil {
				return nil, p.errorf("record key %q inside list", key)
			}
			if record == nil {
				record = map[string]any{}
			}
			value, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			record[key] = value
		} else {
			if record != nil {
				return nil, p.errorf("list item inside record")
			}
			value, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = []any{}
			}
			list = append(list, value)
		}

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			if record != nil {
				return record, nil
			}
			return list, nil
		default:
			return nil, p.errorf("expected ',' or '}' but found %q", p.rest(8))
		}
	}
}

// tryRecordKey consumes `key:` or `|key with spaces|:` when present.
func (p *parser) tryRecordKey() (string, bool) {
	start := p.pos
	var key string
	if p.peek() == '|' {
		end := strings.IndexByte(p.src[p.pos+1:], '|')
		if end < 0 {
			return "", false
		}
		key = p.src[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
	} else {
		for p.pos < len(p.src) {
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || (r == ' ' && p.pos > start)) {
				break
			}
			p.pos += size
		}
		key = strings.TrimSpace(p.src[start:p.pos])
	}
	if key == "" || p.peek() != ':' {
		p.pos = start
		return "", false
	}
	p.pos++ // :
	return key, true
}

func (p *parser) parseString() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errorf("unterminated escape")
			}
			next := p.src[p.pos+1]
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(next)
			}
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *parser) parseNumber() (any, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	isReal := false
scan:
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c >= '0' && c <= '9':
		case c == '.':
			isReal = true
		case c == 'E' || c == 'e':
			isReal = true
			if p.pos+1 < len(p.src) && (p.src[p.pos+1] == '+' || p.src[p.pos+1] == '-') {
				p.pos++
			}
		default:
			break scan
		}
		p.pos++
	}
	text := p.src[start:p.pos]
	if !isReal {
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid number %q", text)
	}
	return f, nil
}

func (p *parser) parseWord() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !(unicode.IsLetter(r) || r == '_' || (r == ' ' && p.pos > start && p.pos+1 < len(p.src) && p.src[p.pos+1] != '"')) {
			break
		}
		p.pos += size
	}
	word := strings.TrimSpace(p.src[start:p.pos])
	switch word {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "missing value":
		return Missing{}, nil
	case "null":
		return nil, nil
	case "date", "alias", "file", "POSIX file":
		p.skipSpace()
		if p.peek() != '"' {
			return nil, p.errorf("expected string after %s", word)
		}
		text, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return Tagged{Tag: word, Text: text}, nil
	case "":
		return nil, p.errorf("unexpected character %q", p.rest(1))
	default:
		p.pos = start
		return nil, p.errorf("unsupported value %q", word)
	}
}

// Package momentfmt renders times using moment.js style format strings such
// as "YYYYMMDD_kkmmss".
//
// Escaping follows moment: "[text]" is emitted literally as long as text
// holds no "[", and a backslash emits the token (or character) after it
// literally. Runs of one to nine "S" render that many fraction-of-second
// digits. Any other character passes through unchanged.
package momentfmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// tokens is ordered longest first so that "YYYY" wins over "YY". Fraction
// runs of "S" are matched separately.
var tokens = []string{
	"GGGG", "YYYY", "MMMM", "DDDD", "dddd",
	"MMM", "DDD", "ddd",
	"YY", "MM", "Mo", "DD", "Do", "dd", "WW", "HH", "hh", "kk", "mm", "ss", "ZZ",
	"Q", "M", "D", "d", "E", "W", "H", "h", "k", "m", "s", "A", "a", "X", "x", "Z",
}

const maxFractionDigits = 9

// Format renders t according to layout. t is used as-is; callers wanting UTC
// output convert first.
func Format(t time.Time, layout string) string {
	var sb strings.Builder
	for i := 0; i < len(layout); {
		switch layout[i] {
		case '[':
			if lit, ok := bracketLiteral(layout[i:]); ok {
				sb.WriteString(lit)
				i += len(lit) + 2
				continue
			}
		case '\\':
			i++
			if i == len(layout) {
				continue
			}
			tok := matchToken(layout[i:])
			if tok == "" {
				tok = nextChar(layout[i:])
			}
			sb.WriteString(tok)
			i += len(tok)
			continue
		case 'S':
			n := fractionRun(layout[i:])
			sb.WriteString(fraction(t, n))
			i += n
			continue
		}
		tok := matchToken(layout[i:])
		if tok == "" {
			sb.WriteByte(layout[i])
			i++
			continue
		}
		sb.WriteString(render(t, tok))
		i += len(tok)
	}
	return sb.String()
}

// bracketLiteral returns the text of a leading "[...]" group. A group may
// not contain "[".
func bracketLiteral(s string) (string, bool) {
	end := strings.IndexAny(s[1:], "[]")
	if end < 0 || s[1+end] != ']' {
		return "", false
	}
	return s[1 : 1+end], true
}

func nextChar(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

func fractionRun(s string) int {
	n := 0
	for n < len(s) && n < maxFractionDigits && s[n] == 'S' {
		n++
	}
	return n
}

// fraction renders the first n digits of the fractional second, truncated.
func fraction(t time.Time, n int) string {
	return fmt.Sprintf("%09d", t.Nanosecond())[:n]
}

func matchToken(s string) string {
	for _, tok := range tokens {
		if strings.HasPrefix(s, tok) {
			return tok
		}
	}
	return ""
}

func render(t time.Time, tok string) string {
	switch tok {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "GGGG":
		y, _ := t.ISOWeek()
		return fmt.Sprintf("%04d", y)
	case "Q":
		return strconv.Itoa((int(t.Month())-1)/3 + 1)
	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "Mo":
		return ordinal(int(t.Month()))
	case "M":
		return strconv.Itoa(int(t.Month()))
	case "DDDD":
		return fmt.Sprintf("%03d", t.YearDay())
	case "DDD":
		return strconv.Itoa(t.YearDay())
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "Do":
		return ordinal(t.Day())
	case "D":
		return strconv.Itoa(t.Day())
	case "dddd":
		return t.Weekday().String()
	case "ddd":
		return t.Weekday().String()[:3]
	case "dd":
		return t.Weekday().String()[:2]
	case "d":
		return strconv.Itoa(int(t.Weekday()))
	case "E":
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return strconv.Itoa(wd)
	case "WW":
		_, w := t.ISOWeek()
		return fmt.Sprintf("%02d", w)
	case "W":
		_, w := t.ISOWeek()
		return strconv.Itoa(w)
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "H":
		return strconv.Itoa(t.Hour())
	case "hh":
		return fmt.Sprintf("%02d", hour12(t))
	case "h":
		return strconv.Itoa(hour12(t))
	case "kk":
		return fmt.Sprintf("%02d", hour24(t))
	case "k":
		return strconv.Itoa(hour24(t))
	case "mm":
		return fmt.Sprintf("%02d", t.Minute())
	case "m":
		return strconv.Itoa(t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	case "s":
		return strconv.Itoa(t.Second())
	case "A":
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case "a":
		if t.Hour() < 12 {
			return "am"
		}
		return "pm"
	case "X":
		return strconv.FormatInt(t.Unix(), 10)
	case "x":
		return strconv.FormatInt(t.UnixMilli(), 10)
	case "ZZ":
		return t.Format("-0700")
	case "Z":
		return t.Format("-07:00")
	}
	return tok
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		return 12
	}
	return h
}

// hour24 is the 1-24 clock: midnight is 24.
func hour24(t time.Time) int {
	if t.Hour() == 0 {
		return 24
	}
	return t.Hour()
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

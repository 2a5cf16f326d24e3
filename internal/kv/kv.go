// Package kv prints key/value data in the output styles selected on the
// command line.
package kv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Style selects how pairs are rendered.
type Style int

const (
	// StyleValue prints values only: value1 | value2
	StyleValue Style = iota
	// StylePair prints key1="value1" key2="value2"
	StylePair
	// StyleLong prints one padded key per line: key | value
	StyleLong
	// StyleSingle prints the raw value of one selected key.
	StyleSingle
)

const longKeyWidth = 20

var styleNames = [...]string{
	StyleValue:  "value",
	StylePair:   "pair",
	StyleLong:   "long",
	StyleSingle: "single",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("style(%d)", int(s))
	}
	return styleNames[s]
}

var (
	ErrInvalidStyle = errors.New("invalid output style")
	ErrKeyNotFound  = errors.New("key not found")
)

// ParseStyle resolves a style name.
func ParseStyle(value string) (Style, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return StyleValue, nil
	}
	for s, candidate := range styleNames {
		if candidate == name {
			return Style(s), nil
		}
	}
	return StyleValue, fmt.Errorf("%w: %q", ErrInvalidStyle, value)
}

// Pair is one key/value datum.
type Pair struct {
	Key   string
	Value string
}

// P builds a Pair.
func P(key, value string) Pair { return Pair{Key: key, Value: value} }

// Pf builds a Pair with a formatted value.
func Pf(key, format string, args ...any) Pair {
	return Pair{Key: key, Value: fmt.Sprintf(format, args...)}
}

// Int builds a Pair from an integer.
func Int(key string, value int) Pair {
	return Pair{Key: key, Value: strconv.Itoa(value)}
}

// Printer renders pairs in one style.
type Printer struct {
	Style Style
	// SingleKey is the key printed by StyleSingle.
	SingleKey string
	Out       io.Writer
}

func (p *Printer) out() io.Writer {
	if p == nil || p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

// Print renders one record.
func (p *Printer) Print(pairs ...Pair) error {
	w := p.out()
	var b strings.Builder
	switch p.Style {
	case StyleValue:
		for i, pair := range pairs {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(pair.Value)
		}
		b.WriteByte('\n')
	case StylePair:
		for i, pair := range pairs {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%q", pair.Key, pair.Value)
		}
		b.WriteByte('\n')
	case StyleLong:
		for _, pair := range pairs {
			fmt.Fprintf(&b, "%s | %s\n", text.Pad(pair.Key, longKeyWidth, ' '), pair.Value)
		}
	case StyleSingle:
		value, ok := lookup(pairs, p.SingleKey)
		if !ok {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, p.SingleKey)
		}
		b.WriteString(value)
		b.WriteByte('\n')
	default:
		return fmt.Errorf("%w: %v", ErrInvalidStyle, p.Style)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PrintRecords renders several records of the same shape. The long style
// renders them as one table keyed by the first record's keys.
func (p *Printer) PrintRecords(records [][]Pair) error {
	if len(records) == 0 {
		return nil
	}
	if p.Style == StyleLong {
		headers := make([]string, len(records[0]))
		for i, pair := range records[0] {
			headers[i] = pair.Key
		}
		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			row := make([]string, len(headers))
			for i, key := range headers {
				row[i], _ = lookup(rec, key)
			}
			rows = append(rows, row)
		}
		_, err := io.WriteString(p.out(), renderTable(headers, rows)+"\n")
		return err
	}
	for _, rec := range records {
		if err := p.Print(rec...); err != nil {
			return err
		}
	}
	return nil
}

func lookup(pairs []Pair, key string) (string, bool) {
	for _, pair := range pairs {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

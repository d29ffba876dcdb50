// Package normalize turns loosely typed section state into the backend's
// request shapes. Every function here is total: any input produces a value.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
)

var numberPattern = regexp.MustCompile(`[-+]?(?:\d+(?:\.\d*)?|\.\d+)`)

// ParseNumber returns the first decimal number embedded in text, or 0.
// "6.0 - 9.0 mg/L" yields 6.
func ParseNumber(text string) float64 {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseYesNo reads a yes/no answer. ok is false when the text is non-blank
// but matches neither; the value is then false.
func ParseYesNo(text string) (value bool, ok bool) {
	switch fold(text) {
	case "yes", "y", "true", "1":
		return true, true
	case "", "no", "n", "false", "0", "na", "n/a":
		return false, true
	default:
		return false, false
	}
}

// ParseComplied reads a "Complied" / "Not Complied" status. Unrecognized
// non-blank text yields false/false with ok unset.
func ParseComplied(text string) (complied, notComplied, ok bool) {
	switch strings.NewReplacer(" ", "", "-", "", "_", "").Replace(fold(text)) {
	case "complied", "compliant", "yes", "y":
		return true, false, true
	case "notcomplied", "noncomplied", "notcompliant", "noncompliant", "no", "n":
		return false, true, true
	case "", "na", "n/a":
		return false, false, true
	default:
		return false, false, false
	}
}

// SplitMembers splits a comma or newline separated list, dropping blanks.
func SplitMembers(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ';'
	})
	members := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			members = append(members, f)
		}
	}
	return members
}

func fold(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Diagnostic records a free-text answer that could not be read and was sent
// as false.
type Diagnostic struct {
	Section report.SectionName `json:"section"`
	Field   string             `json:"field"`
	Value   string             `json:"value"`
}

// Diagnostics collects advisory findings. A nil collector discards them.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) Add(section report.SectionName, field, value string) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diagnostic{Section: section, Field: field, Value: value})
}

func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	return append([]Diagnostic(nil), d.items...)
}

func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// reader binds a collector to one section so field readers can report
// what they could not parse.
type reader struct {
	diags   *Diagnostics
	section report.SectionName
}

func (r reader) yesNo(field string, text report.Text) bool {
	value, ok := ParseYesNo(text.String())
	if !ok {
		r.diags.Add(r.section, field, text.Trim())
	}
	return value
}

func (r reader) complied(field string, text report.Text) (bool, bool) {
	complied, notComplied, ok := ParseComplied(text.String())
	if !ok {
		r.diags.Add(r.section, field, text.Trim())
	}
	return complied, notComplied
}

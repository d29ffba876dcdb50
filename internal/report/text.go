package report

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a free-text form value. It decodes from any JSON scalar so that
// loosely typed screen state (numbers typed into text boxes, nulls from
// cleared inputs) never fails to load. Null decodes to the empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[':
		// objects and arrays have no sensible text form
		*t = ""
	default:
		// Numbers and booleans keep their literal spelling, except exponent
		// notation, which the number parsers downstream do not read.
		if bytes.ContainsAny(data, "eE") {
			if n, err := strconv.ParseFloat(string(data), 64); err == nil {
				*t = Text(strconv.FormatFloat(n, 'f', -1, 64))
				return nil
			}
		}
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Trim returns the value with surrounding whitespace removed.
func (t Text) Trim() string {
	return strings.TrimSpace(string(t))
}

func (t Text) IsBlank() bool {
	return t.Trim() == ""
}

// Flag is a boolean form value that also accepts the string and numeric
// spellings checkbox widgets tend to produce ("true", "yes", "1").
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "1", "on":
			*f = true
		default:
			*f = false
		}
		return nil
	}
	if b, err := strconv.ParseBool(string(data)); err == nil {
		*f = Flag(b)
		return nil
	}
	if n, err := strconv.ParseFloat(string(data), 64); err == nil {
		*f = n != 0
		return nil
	}
	*f = false
	return nil
}

func (f Flag) Bool() bool {
	return bool(f)
}

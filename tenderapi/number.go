package tenderapi

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a lenient numeric field. It accepts JSON/YAML numbers and numeric
// strings; anything else (booleans, null, objects, text) decodes as 0 so that a
// malformed figure never fails a request.
type Number float64

// digitReplacer maps Arabic-Indic digits and separators to ASCII and drops
// thousands separators.
var digitReplacer = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".", "٬", "", ",", "", " ", "",
)

// ParseNumber converts user-entered text to a finite float, returning 0 when
// the text is not a number.
func ParseNumber(s string) float64 {
	s = digitReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = Number(ParseNumber(s))
	case raw == "" || raw == "null" || raw == "true" || raw == "false":
		*n = 0
	case strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "["):
		*n = 0
	default:
		*n = Number(ParseNumber(raw))
	}
	return nil
}

func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!bool" || value.Tag == "!!null" {
		*n = 0
		return nil
	}
	*n = Number(ParseNumber(value.Value))
	return nil
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 { return float64(n) }

// Flag is a lenient boolean field. true, "true", "yes", "y", "1", "نعم" and
// non-zero numbers are true; everything else is false.
type Flag bool

// ParseFlag converts user-entered text to a boolean.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "نعم", "on":
		return true
	}
	return ParseNumber(s) != 0
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = false
			return nil
		}
		*f = Flag(ParseFlag(s))
		return nil
	}
	*f = Flag(ParseFlag(raw))
	return nil
}

func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		*f = false
		return nil
	}
	*f = Flag(ParseFlag(value.Value))
	return nil
}

// Bool returns the value as a bool.
func (f Flag) Bool() bool { return bool(f) }

package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexID tolerates ids sent as JSON strings or numbers.
type FlexID string

func (s *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null" || len(b) == 0:
		*s = ""
		return nil
	case len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = FlexID(strings.TrimSpace(str))
		return nil
	default:
		// number/bool -> stringify best-effort
		*s = FlexID(strings.Trim(string(b), `"`))
		return nil
	}
}

func (s FlexID) String() string { return string(s) }

// Amount is a whole-unit money value. The API sometimes serialises amounts as
// floats ("15000.0") or strings.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	raw := strings.Trim(string(b), `"`)
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*a = 0
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*a = Amount(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*a = Amount(math.Round(f))
	return nil
}

func (a Amount) Int64() int64 { return int64(a) }

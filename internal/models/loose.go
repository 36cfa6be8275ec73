// internal/models/loose.go
package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LooseFloat accepts a JSON number or a numeric string. Anything else,
// including null, decodes without error and leaves Valid false so the
// caller can apply its own default.
type LooseFloat struct {
	Value float64
	Raw   string
	Valid bool
}

// Float returns a valid LooseFloat holding v.
func Float(v float64) LooseFloat {
	return LooseFloat{Value: v, Raw: strconv.FormatFloat(v, 'g', -1, 64), Valid: true}
}

func (f *LooseFloat) UnmarshalJSON(b []byte) error {
	*f = LooseFloat{Raw: string(b)}

	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	txt := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &txt); err != nil {
			return nil
		}
		f.Raw = txt
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(txt), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

func (f LooseFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

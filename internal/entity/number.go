package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a stats value. The backend sends either a JSON number or a
// numeric string; anything else reads as zero, the way a missing value does.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			f = 0
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		f = 0
	}
	*n = Number(f)
	return nil
}

func (n Number) Float() float64 {
	return float64(n)
}

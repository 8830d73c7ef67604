package layout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Record is the persisted position of one item. Radius and height are not
// stored; they come from the item config on load.
type Record struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// recordDef mirrors Record with pointers so missing keys can be told apart
// from zeros.
type recordDef struct {
	X *float32 `json:"x"`
	Y *float32 `json:"y"`
	Z *float32 `json:"z"`
}

// Encode renders records as a JSON array of {"x":..,"y":..,"z":..} objects.
func Encode(records []Record) (string, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}
	return string(data), nil
}

// Decode parses text produced by Encode. It never fails: unusable entries are
// skipped one by one and counted. Text that is not a JSON array at all goes
// through a lenient per-record key scan, so hand-edited or truncated blobs
// still yield whatever records are intact.
func Decode(text string) (records []Record, skipped int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, 0
	}

	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return decodeLoose(text)
	}

	for _, raw := range raws {
		var def recordDef
		if err := json.Unmarshal(raw, &def); err != nil || def.X == nil || def.Y == nil || def.Z == nil {
			skipped++
			continue
		}
		r := Record{X: *def.X, Y: *def.Y, Z: *def.Z}
		if !r.finite() {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, skipped
}

func decodeLoose(text string) (records []Record, skipped int) {
	body := strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	for _, part := range strings.Split(body, "},") {
		part = strings.TrimSpace(part)
		part = strings.TrimRight(part, "}") + "}"
		if len(part) <= 2 {
			continue
		}

		x, okX := extractNumber(part, "x")
		y, okY := extractNumber(part, "y")
		z, okZ := extractNumber(part, "z")
		r := Record{X: x, Y: y, Z: z}
		if !okX || !okY || !okZ || !r.finite() {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, skipped
}

// extractNumber finds "key": in s and parses the value up to the next ',' or
// '}'.
func extractNumber(s, key string) (float32, bool) {
	marker := `"` + key + `":`
	i := strings.Index(s, marker)
	if i < 0 {
		return 0, false
	}
	rest := s[i+len(marker):]
	end := strings.IndexAny(rest, ",}")
	if end < 0 {
		end = len(rest)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rest[:end]), 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

func (r Record) finite() bool {
	for _, v := range [3]float32{r.X, r.Y, r.Z} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

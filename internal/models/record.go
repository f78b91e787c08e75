package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Record is one customer row. Column order is kept because table headers and
// CSV export are derived from the first record.
type Record struct {
	keys   []string
	values map[string]any
}

func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// RecordOf builds a record from alternating key/value arguments.
func RecordOf(kv ...any) Record {
	r := Record{values: make(map[string]any, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return r
}

// Set stores v under key. A new key is appended after the existing ones.
func (r *Record) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, nil when absent.
func (r Record) Value(key string) any {
	return r.values[key]
}

func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Record) Len() int { return len(r.keys) }

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(jsonSafe(r.values[k]))
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = Record{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	out := Record{values: make(map[string]any)}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("record: unexpected key token %v", kt)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("record: column %q: %w", key, err)
		}
		out.Set(key, normalize(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any, []any:
		// nested values are not expected in customer rows; keep their text form
		b, _ := json.Marshal(t)
		return string(b)
	default:
		return v
	}
}

// NaN and Inf have no JSON form.
func jsonSafe(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

// FormatValue renders a cell the way the dashboard prints it: integers without
// a fraction, floats in shortest form, nil as the empty string.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if math.IsNaN(t) {
			return "NaN"
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Number reports v as a float64 when it is numeric.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Truthy mirrors a JavaScript truthiness check on a cell value.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	default:
		if f, ok := Number(v); ok {
			return f != 0 && !math.IsNaN(f)
		}
		return true
	}
}

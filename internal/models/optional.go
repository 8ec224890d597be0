package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Optional records whether a key was present in a JSON payload, so that an
// update can tell "omitted" (keep the stored value) from an explicit null
// (clear it).
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the payload, null included.
// Numeric values also accept a quoted number, and "" reads as null, the way
// form inputs submit them.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if strings.TrimSpace(string(data)) == "null" {
		o.setNull()
		return nil
	}
	o.Null = false
	err := json.Unmarshal(data, &o.Value)
	if err == nil || !isNumber(reflect.ValueOf(&o.Value).Elem().Kind()) {
		return err
	}

	var s string
	if json.Unmarshal(data, &s) != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		o.setNull()
		return nil
	}
	if json.Unmarshal([]byte(s), &o.Value) != nil {
		return err
	}
	return nil
}

func (o *Optional[T]) setNull() {
	o.Null = true
	var zero T
	o.Value = zero
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Apply coalesces the value into dst.
func (o Optional[T]) Apply(dst *T) {
	if !o.Set {
		return
	}
	if o.Null {
		var zero T
		*dst = zero
		return
	}
	*dst = o.Value
}

// ApplyPtr coalesces into a pointer field; null clears it to nil.
func ApplyPtr[T any](o Optional[T], dst **T) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = nil
		return
	}
	v := o.Value
	*dst = &v
}

// Date accepts "2006-01-02", "2006-01-02T15:04" and RFC 3339 strings, the
// shapes HTML date inputs and JS Date.toISOString produce. An empty string
// decodes to the zero Date.
type Date time.Time

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("data inválida: %s", string(data))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Date(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("data inválida: %q", s)
}

// ApplyDate coalesces a date; null and the empty string clear it.
func ApplyDate(o Optional[Date], dst **time.Time) {
	if !o.Set {
		return
	}
	t := time.Time(o.Value)
	if o.Null || t.IsZero() {
		*dst = nil
		return
	}
	*dst = &t
}

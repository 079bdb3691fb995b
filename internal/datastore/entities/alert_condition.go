package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AlertCondition is a single comparison against a derived activity metric
// over a lookback window. All conditions in a rule use AND logic.
type AlertCondition struct {
	Field    string         `json:"field"`
	Operator string         `json:"operator"`
	Value    ConditionValue `json:"value"`
	// LookbackHours bounds the activity window; 0 means the default (24h).
	LookbackHours int `json:"lookback_hours,omitempty"`
	SortOrder     int `json:"sort_order,omitempty"`
}

// ValueRange is the inclusive bound pair used by the between operator.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ConditionValue is the typed payload of a condition: exactly one of a
// number, a text string, or a {min,max} range. JSON accepts a bare number,
// a string, or a range object.
type ConditionValue struct {
	Number *float64
	Text   string
	Range  *ValueRange
}

// NumberValue builds a numeric condition value.
func NumberValue(n float64) ConditionValue {
	return ConditionValue{Number: &n}
}

// TextValue builds a string condition value.
func TextValue(s string) ConditionValue {
	return ConditionValue{Text: s}
}

// RangeValue builds an inclusive range condition value.
func RangeValue(minVal, maxVal float64) ConditionValue {
	return ConditionValue{Range: &ValueRange{Min: minVal, Max: maxVal}}
}

// AsFloat returns the numeric form of the value: the number itself, or a
// text payload that parses as a number.
func (v ConditionValue) AsFloat() (float64, bool) {
	if v.Number != nil {
		return *v.Number, true
	}
	if v.Text != "" {
		if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// String returns the rendered form used for string comparisons.
func (v ConditionValue) String() string {
	switch {
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case v.Range != nil:
		return fmt.Sprintf("%v..%v", v.Range.Min, v.Range.Max)
	default:
		return v.Text
	}
}

// MarshalJSON writes the payload in its natural JSON shape.
func (v ConditionValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Range != nil:
		return json.Marshal(v.Range)
	case v.Number != nil:
		return json.Marshal(*v.Number)
	default:
		return json.Marshal(v.Text)
	}
}

// UnmarshalJSON accepts a number, a string, a {min,max} object, or null.
func (v *ConditionValue) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch value := raw.(type) {
	case float64:
		v.Number = &value
		v.Text = ""
		v.Range = nil
	case string:
		v.Number = nil
		v.Text = value
		v.Range = nil
	case map[string]any:
		var r ValueRange
		if err := json.Unmarshal(b, &r); err != nil {
			return fmt.Errorf("invalid range value: %w", err)
		}
		v.Number = nil
		v.Text = ""
		v.Range = &r
	case bool:
		// Booleans surface from loosely typed clients; keep the string form.
		v.Number = nil
		v.Text = strconv.FormatBool(value)
		v.Range = nil
	case nil:
		*v = ConditionValue{}
	default:
		return fmt.Errorf("invalid condition value: %v (type %T)", raw, raw)
	}
	return nil
}

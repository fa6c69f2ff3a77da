package figma

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValueKind tells which field of a VariableValue is populated.
type ValueKind int

// Variable value kinds.
const (
	ValueUnknown ValueKind = iota
	ValueColor
	ValueFloat
	ValueString
	ValueBool
	ValueAlias
)

const aliasType = "VARIABLE_ALIAS"

// VariableValue is the value a variable holds for one mode: a literal color, number,
// string or boolean, or an alias pointing at another variable.
// Values of any other JSON shape are kept verbatim in Raw.
type VariableValue struct {
	Kind    ValueKind
	Color   Color
	Float   float64
	String  string
	Bool    bool
	AliasID string
	Raw     json.RawMessage
}

// ColorValue returns a color literal.
func ColorValue(c Color) VariableValue { return VariableValue{Kind: ValueColor, Color: c} }

// FloatValue returns a number literal.
func FloatValue(f float64) VariableValue { return VariableValue{Kind: ValueFloat, Float: f} }

// StringValue returns a string literal.
func StringValue(s string) VariableValue { return VariableValue{Kind: ValueString, String: s} }

// BoolValue returns a boolean literal.
func BoolValue(b bool) VariableValue { return VariableValue{Kind: ValueBool, Bool: b} }

// AliasValue returns a reference to the variable with the given id.
func AliasValue(id string) VariableValue { return VariableValue{Kind: ValueAlias, AliasID: id} }

// IsAlias reports whether the value references another variable.
func (v VariableValue) IsAlias() bool { return v.Kind == ValueAlias }

// Interface returns the literal as a plain Go value, used for pass-through formatting.
func (v VariableValue) Interface() any {
	switch v.Kind {
	case ValueColor:
		return v.Color
	case ValueFloat:
		return v.Float
	case ValueString:
		return v.String
	case ValueBool:
		return v.Bool
	case ValueAlias:
		return map[string]string{"type": aliasType, "id": v.AliasID}
	default:
		if len(v.Raw) == 0 {
			return nil
		}
		return v.Raw
	}
}

// MarshalJSON encodes the value in the host's wire shape.
func (v VariableValue) MarshalJSON() ([]byte, error) {
	if v.Kind == ValueUnknown && len(v.Raw) > 0 {
		return v.Raw, nil
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any of the host's value shapes.
func (v *VariableValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty variable value")
	}

	*v = VariableValue{}
	switch data[0] {
	case '"':
		v.Kind = ValueString
		return json.Unmarshal(data, &v.String)
	case 't', 'f':
		v.Kind = ValueBool
		return json.Unmarshal(data, &v.Bool)
	case '{':
		var probe struct {
			Type string   `json:"type"`
			ID   string   `json:"id"`
			R    *float64 `json:"r"`
			G    *float64 `json:"g"`
			B    *float64 `json:"b"`
			A    *float64 `json:"a"`
		}
		if err := json.Unmarshal(data, &probe); err != nil {
			return err
		}
		if probe.Type == aliasType {
			v.Kind = ValueAlias
			v.AliasID = probe.ID
			return nil
		}
		if probe.R != nil && probe.G != nil && probe.B != nil {
			v.Kind = ValueColor
			v.Color = Color{R: *probe.R, G: *probe.G, B: *probe.B, A: 1}
			if probe.A != nil {
				v.Color.A = *probe.A
			}
			return nil
		}
	case 'n':
		v.Raw = append(json.RawMessage(nil), data...)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err == nil {
			v.Kind = ValueFloat
			v.Float = f
			return nil
		}
	}

	v.Kind = ValueUnknown
	v.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// IsMissing reports whether the value is absent or null.
func (v VariableValue) IsMissing() bool {
	return v.Kind == ValueUnknown && (len(v.Raw) == 0 || string(v.Raw) == "null")
}

package object

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"
)

// *****************************************************************************
// Conversions used by operations and native functions
// *****************************************************************************

// AsString converts a value to its string form. Nil is the empty string.
func AsString(obj Object) (string, error) {
	switch obj := obj.(type) {
	case *String:
		return obj.value, nil
	case *NilType:
		return "", nil
	case *Int:
		return obj.Inspect(), nil
	case *Float:
		return formatFloat(obj.value), nil
	case *Bool:
		return obj.Inspect(), nil
	case *Color:
		return obj.String(), nil
	case *Error:
		return "", obj.err
	default:
		return "", conversionError(obj, "string")
	}
}

// AsInt converts a value to an integer. Floats are truncated and strings are
// parsed.
func AsInt(obj Object) (int64, error) {
	switch obj := obj.(type) {
	case *Int:
		return obj.value, nil
	case *Float:
		return int64(obj.value), nil
	case *Bool:
		if obj.value {
			return 1, nil
		}
		return 0, nil
	case *NilType:
		return 0, nil
	case *String:
		s := strings.TrimSpace(obj.value)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), nil
		}
		return 0, typeErrorf("can't convert %q to int", obj.value)
	case *Error:
		return 0, obj.err
	default:
		return 0, conversionError(obj, "int")
	}
}

// AsFloat converts a value to a float.
func AsFloat(obj Object) (float64, error) {
	switch obj := obj.(type) {
	case *Float:
		return obj.value, nil
	case *Int:
		return float64(obj.value), nil
	case *Bool:
		if obj.value {
			return 1, nil
		}
		return 0, nil
	case *NilType:
		return 0, nil
	case *String:
		f, err := strconv.ParseFloat(strings.TrimSpace(obj.value), 64)
		if err != nil {
			return 0, typeErrorf("can't convert %q to real", obj.value)
		}
		return f, nil
	case *Error:
		return 0, obj.err
	default:
		return 0, conversionError(obj, "real")
	}
}

// AsBool converts a value to a boolean. Numbers are true when non-zero; the
// strings "yes" and "true" are true, "no", "false" and "" are false.
func AsBool(obj Object) (bool, error) {
	switch obj := obj.(type) {
	case *Bool:
		return obj.value, nil
	case *Int:
		return obj.value != 0, nil
	case *Float:
		return obj.value != 0, nil
	case *NilType:
		return false, nil
	case *String:
		switch obj.value {
		case "yes", "true":
			return true, nil
		case "no", "false", "":
			return false, nil
		}
		return false, typeErrorf("can't convert %q to boolean", obj.value)
	case *Error:
		return false, obj.err
	default:
		return false, conversionError(obj, "boolean")
	}
}

// AsColor converts a value to a color. Strings may use the forms rgb(r,g,b),
// rgba(r,g,b,a), #rrggbb and #rrggbbaa.
func AsColor(obj Object) (color.RGBA, error) {
	switch obj := obj.(type) {
	case *Color:
		return obj.value, nil
	case *String:
		c, ok := parseColor(strings.TrimSpace(obj.value))
		if !ok {
			return color.RGBA{}, typeErrorf("can't convert %q to color", obj.value)
		}
		return c, nil
	case *Error:
		return color.RGBA{}, obj.err
	default:
		return color.RGBA{}, conversionError(obj, "color")
	}
}

// IsNumber returns true for ints and floats.
func IsNumber(obj Object) bool {
	switch obj.(type) {
	case *Int, *Float:
		return true
	}
	return false
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseColor(s string) (color.RGBA, bool) {
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return color.RGBA{}, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, false
		}
		if len(hex) == 6 {
			v = v<<8 | 0xff
		}
		return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
	}
	var parts []string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		parts = strings.Split(s[5:len(s)-1], ",")
		if len(parts) != 4 {
			return color.RGBA{}, false
		}
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts = strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return color.RGBA{}, false
		}
		parts = append(parts, "255")
	default:
		return color.RGBA{}, false
	}
	var channels [4]int64
	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return color.RGBA{}, false
		}
		channels[i] = v
	}
	return NewColorFromInts(channels[0], channels[1], channels[2], channels[3]).value, true
}

// *****************************************************************************
// Converting Go values to objects
// *****************************************************************************

// FromGoType converts a Go value, as produced by decoding JSON or YAML, to an
// object. Maps become keyed collections with keys in sorted order.
func FromGoType(v interface{}) (Object, error) {
	switch v := v.(type) {
	case nil:
		return Nil, nil
	case Object:
		return v, nil
	case bool:
		return NewBool(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint8:
		return NewInt(int64(v)), nil
	case uint32:
		return NewInt(int64(v)), nil
	case float32:
		return NewFloat(float64(v)), nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return NewInt(int64(v)), nil
		}
		return NewFloat(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return NewFloat(f), nil
	case string:
		return NewString(v), nil
	case color.RGBA:
		return NewColor(v), nil
	case []interface{}:
		items := make([]Object, 0, len(v))
		for _, item := range v {
			obj, err := FromGoType(item)
			if err != nil {
				return nil, err
			}
			items = append(items, obj)
		}
		return NewList(items), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b := NewCollectionBuilder(len(keys))
		for _, k := range keys {
			obj, err := FromGoType(v[k])
			if err != nil {
				return nil, err
			}
			b.AddKeyed(k, obj)
		}
		return b.Build(), nil
	default:
		return nil, fmt.Errorf("type error: unsupported go type: %T", v)
	}
}

func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

package gateway

import (
	"fmt"
	"strconv"
	"time"
)

// The Firestore REST API wraps every field value in a single-key object
// naming its type ({"stringValue": "x"}, {"nullValue": null}, ...).
// This file converts between those wire values and the plain Go values
// the rest of the codebase works with.

// encodeFields converts a plain field map to its wire form.
func encodeFields(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		encoded, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", k, err)
		}
		out[k] = encoded
	}
	return out, nil
}

func encodeValue(v any) (map[string]any, error) {
	switch val := v.(type) {
	case nil:
		return map[string]any{"nullValue": nil}, nil
	case string:
		return map[string]any{"stringValue": val}, nil
	case bool:
		return map[string]any{"booleanValue": val}, nil
	case int:
		return map[string]any{"integerValue": strconv.Itoa(val)}, nil
	case int64:
		return map[string]any{"integerValue": strconv.FormatInt(val, 10)}, nil
	case float64:
		return map[string]any{"doubleValue": val}, nil
	case time.Time:
		return map[string]any{"timestampValue": val.UTC().Format(time.RFC3339Nano)}, nil
	case []any:
		values := make([]any, len(val))
		for i, elem := range val {
			encoded, err := encodeValue(elem)
			if err != nil {
				return nil, err
			}
			values[i] = encoded
		}
		return map[string]any{"arrayValue": map[string]any{"values": values}}, nil
	case map[string]any:
		encoded, err := encodeFields(val)
		if err != nil {
			return nil, err
		}
		return map[string]any{"mapValue": map[string]any{"fields": encoded}}, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// decodeFields converts a wire field map back to plain Go values.
func decodeFields(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		wire, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decoding field %q: not a value object", k)
		}
		decoded, err := decodeValue(wire)
		if err != nil {
			return nil, fmt.Errorf("decoding field %q: %w", k, err)
		}
		out[k] = decoded
	}
	return out, nil
}

func decodeValue(wire map[string]any) (any, error) {
	for kind, raw := range wire {
		switch kind {
		case "nullValue":
			return nil, nil
		case "stringValue":
			return raw, nil
		case "booleanValue":
			return raw, nil
		case "integerValue":
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("integerValue is %T, want string", raw)
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing integerValue %q: %w", s, err)
			}
			return int(n), nil
		case "doubleValue":
			return raw, nil
		case "timestampValue":
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("timestampValue is %T, want string", raw)
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("parsing timestampValue %q: %w", s, err)
			}
			return t, nil
		case "arrayValue":
			arr, _ := raw.(map[string]any)
			rawValues, _ := arr["values"].([]any)
			values := make([]any, len(rawValues))
			for i, elem := range rawValues {
				wireElem, ok := elem.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("array element %d is not a value object", i)
				}
				decoded, err := decodeValue(wireElem)
				if err != nil {
					return nil, err
				}
				values[i] = decoded
			}
			return values, nil
		case "mapValue":
			mv, _ := raw.(map[string]any)
			rawFields, _ := mv["fields"].(map[string]any)
			return decodeFields(rawFields)
		}
	}
	return nil, fmt.Errorf("unknown value object %v", wire)
}

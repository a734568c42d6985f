package validate

import (
	"encoding/json"
	"fmt"
	"math"
)

// checker walks a document and accumulates violations.
type checker struct {
	violations []Violation
}

func (c *checker) fail(path, format string, args ...any) {
	c.violations = append(c.violations, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func index(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

// typeName describes a JSON value for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// object returns obj[key] as an object. It records a violation when the key is
// missing or not an object.
func (c *checker) object(obj map[string]any, key, parent string) (map[string]any, bool) {
	path := join(parent, key)
	v, ok := obj[key]
	if !ok || v == nil {
		c.fail(path, "required field missing")
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		c.fail(path, "must be an object, got %s", typeName(v))
		return nil, false
	}
	return m, true
}

// array returns obj[key] as an array. Absent or null arrays are empty unless
// required is set.
func (c *checker) array(obj map[string]any, key, parent string, required bool) []any {
	path := join(parent, key)
	v, ok := obj[key]
	if !ok || v == nil {
		if required {
			c.fail(path, "required field missing")
		}
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		c.fail(path, "must be an array, got %s", typeName(v))
		return nil
	}
	return arr
}

func (c *checker) requiredString(obj map[string]any, key, parent string) string {
	path := join(parent, key)
	v, ok := obj[key]
	if !ok || v == nil {
		c.fail(path, "required field missing")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.fail(path, "must be a string, got %s", typeName(v))
		return ""
	}
	return s
}

// optionalString returns "" for absent and null values.
func (c *checker) optionalString(obj map[string]any, key, parent string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.fail(join(parent, key), "must be a string, got %s", typeName(v))
		return ""
	}
	return s
}

func (c *checker) requiredCount(obj map[string]any, key, parent string) int64 {
	path := join(parent, key)
	v, ok := obj[key]
	if !ok || v == nil {
		c.fail(path, "required field missing")
		return 0
	}
	return c.count(path, v)
}

// optionalCount returns 0 for absent and null values.
func (c *checker) optionalCount(obj map[string]any, key, parent string) int64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0
	}
	return c.count(join(parent, key), v)
}

// count converts a JSON number to a non-negative integer.
func (c *checker) count(path string, v any) int64 {
	n, ok := toInt(v)
	if !ok {
		c.fail(path, "must be an integer, got %s", typeName(v))
		return 0
	}
	if n < 0 {
		c.fail(path, "must not be negative, got %d", n)
		return 0
	}
	return n
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return toInt(f)
	default:
		return 0, false
	}
}

// optionalBool returns false for absent and null values.
func (c *checker) optionalBool(obj map[string]any, key, parent string) bool {
	v, ok := obj[key]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		c.fail(join(parent, key), "must be a boolean, got %s", typeName(v))
		return false
	}
	return b
}

// element returns arr[i] as an object.
func (c *checker) element(v any, path string) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		c.fail(path, "must be an object, got %s", typeName(v))
		return nil, false
	}
	return m, true
}

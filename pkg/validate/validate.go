// Package validate provides struct-tag validation for request inputs.
//
// Rules are comma-separated in the `validate` tag:
//
//	required            field must not be zero/empty
//	nullable            skip the remaining rules when the field was not
//	                    provided (nil pointer; zero value for non-pointers).
//	                    A pointer to an empty value still runs the rules.
//	min=N               string: minimum char length | number: minimum value
//	max=N               string: maximum char length | number: maximum value
//	gt=N                number strictly greater than N
//	gte=N               number greater than or equal to N
//	integer             value must be a whole number
//	phone               10-15 digits with an optional leading +
//	in=a|b|c            value must be one of the listed items
//
// Example:
//
//	type Input struct {
//	    Name  string  `json:"name"         validate:"required,min=1,max=100"`
//	    Phone string  `json:"phone_number" validate:"required,phone"`
//	}
//
// Struct returns a map of fieldName → message; an empty map means valid.
package validate

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var phoneRE = regexp.MustCompile(`^\+?\d{10,15}$`)

// Struct validates all exported fields of v that carry a `validate` tag.
// v may be a struct or a pointer to one. Pointer fields are dereferenced;
// a nil pointer counts as empty.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonName(field)
		raw := rv.Field(i)
		value := raw
		if value.Kind() == reflect.Ptr && !value.IsNil() {
			value = value.Elem()
		}

		rules := splitRules(tag)
		if hasRule(rules, "nullable") && isAbsent(raw) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := apply(rule, name, value); msg != "" {
				errs[name] = msg
				break // report the first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors reports whether the result of Struct contains any failure.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func apply(rule, field string, v reflect.Value) string {
	raw := stringValue(v)
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "min":
		n := parseFloat(param)
		if isNumeric(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(len([]rune(raw))) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}

	case "max":
		n := parseFloat(param)
		if isNumeric(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(len([]rune(raw))) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}

	case "gt":
		if toFloat(v) <= parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}

	case "gte":
		if toFloat(v) < parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}

	case "integer":
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			if v.Float() != math.Trunc(v.Float()) {
				return fmt.Sprintf("The %s field must be an integer.", field)
			}
		case reflect.String:
			if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
				return fmt.Sprintf("The %s field must be an integer.", field)
			}
		}

	case "phone":
		if !phoneRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be 10 to 15 digits with an optional leading +.", field)
		}

	case "in":
		for _, allowed := range strings.Split(param, "|") {
			if raw == strings.TrimSpace(allowed) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}

	return ""
}

func jsonName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.IndexByte(name, ','); idx != -1 {
		name = name[:idx]
	}
	return name
}

// splitRules separates the tag by comma. The `in` rule uses | between its
// alternatives, so a plain split is enough.
func splitRules(tag string) []string {
	parts := strings.Split(tag, ",")
	rules := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			rules = append(rules, p)
		}
	}
	return rules
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}

// isAbsent reports whether a nullable field was left out of the request.
// A nil pointer means absent; a non-nil pointer was sent explicitly, even
// when it points at an empty value, and the remaining rules still run.
// Non-pointer fields fall back to the zero-value check.
func isAbsent(v reflect.Value) bool {
	if v.Kind() == reflect.Ptr {
		return v.IsNil()
	}
	return isEmpty(v)
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Invalid:
		return true
	}
	return false
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func stringValue(v reflect.Value) string {
	if v.Kind() == reflect.Invalid {
		return ""
	}
	return fmt.Sprintf("%v", v.Interface())
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(stringValue(v), 64)
	return f
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

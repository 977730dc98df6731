package router

import (
	"fmt"
	"reflect"
	"strconv"
)

// Params maps parameter names to the values captured from the requested path.
type Params map[string]string

// Get returns the value of a parameter, or "" when absent.
func (p Params) Get(name string) string {
	return p[name]
}

// Has reports whether the parameter was captured.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Int parses a parameter as an integer. ok is false when the parameter is
// absent; err is set when it is present but not an integer.
func (p Params) Int(name string) (value int, ok bool, err error) {
	raw, ok := p[name]
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("param %q: invalid integer: %s", name, raw)
	}
	return n, true, nil
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Bind populates a struct from the params. target must be a pointer to a
// struct; fields opt in with a `param:"name"` tag. Absent parameters leave
// their fields untouched.
//
//	var p struct {
//	    ActiveTab int `param:"activeTabIndex"`
//	}
//	err := m.Params.Bind(&p)
func (p Params) Bind(target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("param")
		if name == "" {
			continue
		}
		raw, ok := p[name]
		if !ok {
			continue
		}
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if err := setField(fv, raw); err != nil {
			return fmt.Errorf("parsing param %q: %w", name, err)
		}
	}
	return nil
}

// setField sets a field value from a string.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Ptr:
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}
	return nil
}

package video

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// maxCallables caps the method names listed in an Inspection.
const maxCallables = 30

// Inspection describes a value that could not be resolved.
type Inspection struct {
	Type            string
	Attrs           map[string]string // attribute name -> type name
	CallablesSample []string
	Err             string // set when inspecting the value itself failed
}

// ExtractionError reports that no strategy produced a path.
type ExtractionError struct {
	Inspection Inspection
}

func (e *ExtractionError) Error() string {
	return "Could not extract video file path from input. Inspection: " + e.Inspection.String()
}

func (i Inspection) String() string {
	if i.Err != "" {
		return fmt.Sprintf("{type: %s, inspect_error: %s}", i.Type, i.Err)
	}
	keys := lo.Keys(i.Attrs)
	slices.Sort(keys)
	attrs := lo.Map(keys, func(k string, _ int) string {
		return k + ": " + i.Attrs[k]
	})
	return fmt.Sprintf("{type: %s, attrs: {%s}, callables_sample: [%s]}",
		i.Type,
		strings.Join(attrs, ", "),
		strings.Join(i.CallablesSample, ", "),
	)
}

// Inspect lists the attributes and methods of v for diagnostics. Attributes
// come from Attributes(), map keys or exported struct fields.
func Inspect(v any) (ins Inspection) {
	ins = Inspection{Type: fmt.Sprintf("%T", v), Attrs: map[string]string{}}
	defer func() {
		if rec := recover(); rec != nil {
			ins.Err = fmt.Sprint(rec)
		}
	}()
	if v == nil {
		return ins
	}

	switch x := v.(type) {
	case Attributer:
		for k, val := range x.Attributes() {
			ins.Attrs[k] = typeName(val)
		}
	default:
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		switch rv.Kind() {
		case reflect.Map:
			if rv.Type().Key().Kind() == reflect.String {
				it := rv.MapRange()
				for it.Next() {
					ins.Attrs[it.Key().String()] = typeName(it.Value().Interface())
				}
			}
		case reflect.Struct:
			t := rv.Type()
			for i := 0; i < t.NumField(); i++ {
				if f := t.Field(i); f.IsExported() {
					ins.Attrs[f.Name] = f.Type.String()
				}
			}
		}
	}

	t := reflect.TypeOf(v)
	names := make([]string, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		names = append(names, t.Method(i).Name)
	}
	ins.CallablesSample = lo.Subset(names, 0, maxCallables)
	return ins
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

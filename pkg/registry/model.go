package registry

import (
	"context"
	"database/sql"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm/schema"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
)

// Model describes one registered table: the Go type it maps to, its GORM
// schema, and the set of payload keys that may be assigned.
type Model struct {
	Table  string
	Type   reflect.Type
	Schema *schema.Schema

	fields map[string]*schema.Field
}

func newModel(sch *schema.Schema) *Model {
	m := &Model{
		Table:  sch.Table,
		Type:   sch.ModelType,
		Schema: sch,
		fields: make(map[string]*schema.Field),
	}
	for _, f := range sch.Fields {
		if f.DBName == "" || (!f.Creatable && !f.Updatable) {
			continue
		}
		m.fields[f.DBName] = f
		if name := jsonName(f); name != "" {
			if _, taken := m.fields[name]; !taken {
				m.fields[name] = f
			}
		}
	}
	return m
}

func jsonName(f *schema.Field) string {
	tag := f.StructField.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// PrimaryKey returns the primary key field.
func (m *Model) PrimaryKey() *schema.Field {
	if m.Schema.PrioritizedPrimaryField != nil {
		return m.Schema.PrioritizedPrimaryField
	}
	return m.Schema.PrimaryFields[0]
}

// New returns a pointer to a fresh zero instance of the model.
func (m *Model) New() reflect.Value {
	return reflect.New(m.Type)
}

// NewSlice returns a pointer to an empty []*T for the model type T.
func (m *Model) NewSlice() reflect.Value {
	return reflect.New(reflect.SliceOf(reflect.PointerTo(m.Type)))
}

// Field looks key up in the allow-list by column name or JSON name.
func (m *Model) Field(key string) (*schema.Field, bool) {
	f, ok := m.fields[key]
	return f, ok
}

// Keys returns the column names that can be assigned, sorted.
func (m *Model) Keys() []string {
	seen := make(map[string]bool)
	keys := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		if !seen[f.DBName] {
			seen[f.DBName] = true
			keys = append(keys, f.DBName)
		}
	}
	sort.Strings(keys)
	return keys
}

// ParseID converts a path segment into a value of the primary key type.
func (m *Model) ParseID(raw string) (any, error) {
	pk := m.PrimaryKey()
	t := pk.FieldType
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if raw == "" {
		return nil, adminerr.InvalidID(m.Table, raw, errors.New("empty id"))
	}

	if reflect.PointerTo(t).Implements(reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()) {
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return nil, adminerr.InvalidID(m.Table, raw, err)
		}
		return v.Elem().Interface(), nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return nil, adminerr.InvalidID(m.Table, raw, err)
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return nil, adminerr.InvalidID(m.Table, raw, err)
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.String:
		return reflect.ValueOf(raw).Convert(t).Interface(), nil
	default:
		return nil, adminerr.InvalidID(m.Table, raw, fmt.Errorf("unsupported primary key type %s", t))
	}
}

// Assign copies allow-listed payload values onto the model instance v.
// Keys are applied in sorted order so the first offending key is reported
// deterministically. The primary key is only assignable when creating.
func (m *Model) Assign(ctx context.Context, v reflect.Value, payload map[string]any, creating bool) error {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		f, ok := m.Field(key)
		if !ok {
			return adminerr.UnknownField(m.Table, key)
		}
		if creating && !f.Creatable {
			return adminerr.UnknownField(m.Table, key)
		}
		if !creating && (!f.Updatable || f.PrimaryKey) {
			return adminerr.UnknownField(m.Table, key)
		}
		value, err := numericValue(f, payload[key])
		if err == nil {
			err = f.Set(ctx, v, value)
		}
		if err != nil {
			return &adminerr.Error{
				Kind:    adminerr.KindInvalidPayload,
				Table:   m.Table,
				Field:   key,
				Message: fmt.Sprintf("invalid value for field %q", key),
				Err:     err,
			}
		}
	}
	return nil
}

// Values returns the readable columns of v keyed by column name.
func (m *Model) Values(ctx context.Context, v reflect.Value) map[string]any {
	values := make(map[string]any, len(m.Schema.Fields))
	for _, f := range m.Schema.Fields {
		if f.DBName == "" || !f.Readable {
			continue
		}
		val, _ := f.ValueOf(ctx, v)
		values[f.DBName] = val
	}
	return values
}

// PrimaryKeyValue returns the primary key of v formatted for use in a path.
func (m *Model) PrimaryKeyValue(ctx context.Context, v reflect.Value) string {
	val, _ := m.PrimaryKey().ValueOf(ctx, v)
	return fmt.Sprint(val)
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// numericValue converts JSON numbers to the exact Go value of the field's
// kind. Fractions on integer columns, overflow, and numbers for non-numeric
// columns are errors. Other values are returned unchanged.
func numericValue(f *schema.Field, value any) (any, error) {
	var num json.Number
	switch n := value.(type) {
	case json.Number:
		num = n
	case float64:
		num = json.Number(strconv.FormatFloat(n, 'f', -1, 64))
	case float32:
		num = json.Number(strconv.FormatFloat(float64(n), 'f', -1, 32))
	default:
		return value, nil
	}

	t := f.FieldType
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(num.String(), 10, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("%s is not a %s", num, t)
		}
		return reflect.ValueOf(i).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(num.String(), 10, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("%s is not a %s", num, t)
		}
		return reflect.ValueOf(u).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(num.String(), t.Bits())
		if err != nil {
			return nil, fmt.Errorf("%s is not a %s", num, t)
		}
		return reflect.ValueOf(x).Convert(t).Interface(), nil
	}

	// sql.Null* and similar wrappers scan int64 or float64.
	if reflect.PointerTo(t).Implements(scannerType) {
		if i, err := num.Int64(); err == nil {
			return i, nil
		}
		return num.Float64()
	}
	return nil, fmt.Errorf("number %s given for non-numeric field of type %s", num, t)
}

package namedstmt

import (
	"database/sql/driver"
	"reflect"
)

// FieldType tells how a [Payload] buffer is sent to the database.
type FieldType byte

const (
	TypeAuto FieldType = iota // inferred from the buffer
	TypeNull
	TypeTiny
	TypeShort
	TypeLong
	TypeLongLong
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeString
	TypeVarString
	TypeBlob
	TypeDate
	TypeTime
	TypeDateTime
	TypeTimestamp
	TypeJSON
)

var fieldTypeNames = [...]string{
	TypeAuto:      "AUTO",
	TypeNull:      "NULL",
	TypeTiny:      "TINY",
	TypeShort:     "SHORT",
	TypeLong:      "LONG",
	TypeLongLong:  "LONGLONG",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeDecimal:   "DECIMAL",
	TypeString:    "STRING",
	TypeVarString: "VAR_STRING",
	TypeBlob:      "BLOB",
	TypeDate:      "DATE",
	TypeTime:      "TIME",
	TypeDateTime:  "DATETIME",
	TypeTimestamp: "TIMESTAMP",
	TypeJSON:      "JSON",
}

func (t FieldType) String() string {
	if int(t) < len(fieldTypeNames) {
		return fieldTypeNames[t]
	}
	return "UNKNOWN"
}

func (t FieldType) isText() bool {
	switch t {
	case TypeString, TypeVarString, TypeDecimal, TypeJSON:
		return true
	}
	return false
}

func (t FieldType) isFloat() bool {
	return t == TypeFloat || t == TypeDouble
}

// Payload describes the value bound to one name.
//
// Buffer, Length and IsNull are borrowed references: they are read only when
// the engine consumes the payload, so the referenced variables must stay
// valid, and may still change, until [Statement.Execute] returns.
type Payload struct {
	// Type converts the buffer before it's sent, [TypeAuto] sends it as is.
	Type FieldType

	// Buffer is the value, usually a pointer to it.
	Buffer any

	// Length, if not nil, limits a []byte or string buffer to its
	// first *Length bytes.
	Length *uint64

	// IsNull, if not nil and true, sends NULL regardless of the buffer.
	IsNull *bool
}

// Value implements [driver.Valuer], so a Payload can be passed directly
// as an argument to [database/sql].
func (p Payload) Value() (driver.Value, error) {
	if p.Type == TypeNull || (p.IsNull != nil && *p.IsNull) {
		return nil, nil
	}

	v := deref(p.Buffer)
	if v == nil {
		return nil, nil
	}

	if p.Length != nil {
		v = truncate(v, *p.Length)
	}

	switch {
	case p.Type.isText():
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
	case p.Type == TypeBlob:
		if s, ok := v.(string); ok {
			v = []byte(s)
		}
	}

	dv, err := driver.DefaultParameterConverter.ConvertValue(v)
	if err != nil {
		return nil, err
	}

	if i, ok := dv.(int64); ok && p.Type.isFloat() {
		return float64(i), nil
	}

	return dv, nil
}

// deref follows pointers until a value is found, valuers are kept
// so their own Value method is used.
func deref(v any) any {
	for v != nil {
		if _, ok := v.(driver.Valuer); ok {
			return v
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
	return nil
}

func truncate(v any, n uint64) any {
	switch b := v.(type) {
	case []byte:
		if n < uint64(len(b)) {
			return b[:n]
		}
	case string:
		if n < uint64(len(b)) {
			return b[:n]
		}
	}
	return v
}

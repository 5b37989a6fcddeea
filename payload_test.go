package namedstmt_test

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/rfberaldo/namedstmt"
	"github.com/rfberaldo/namedstmt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_Value(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		payload namedstmt.Payload
		expect  driver.Value
	}{
		{
			name:    "null type",
			payload: namedstmt.Payload{Type: namedstmt.TypeNull, Buffer: 1},
			expect:  nil,
		},
		{
			name:    "null indicator",
			payload: namedstmt.Payload{Buffer: 1, IsNull: testutil.PtrTo(true)},
			expect:  nil,
		},
		{
			name:    "not null indicator",
			payload: namedstmt.Payload{Buffer: 1, IsNull: testutil.PtrTo(false)},
			expect:  int64(1),
		},
		{
			name:    "nil buffer",
			payload: namedstmt.Payload{},
			expect:  nil,
		},
		{
			name:    "nil pointer",
			payload: namedstmt.Payload{Buffer: (*int)(nil)},
			expect:  nil,
		},
		{
			name:    "pointer",
			payload: namedstmt.Payload{Type: namedstmt.TypeLong, Buffer: testutil.PtrTo(int32(42))},
			expect:  int64(42),
		},
		{
			name:    "pointer to pointer",
			payload: namedstmt.Payload{Buffer: testutil.PtrTo(testutil.PtrTo("a"))},
			expect:  "a",
		},
		{
			name:    "length truncates bytes",
			payload: namedstmt.Payload{Buffer: []byte("abcdef"), Length: testutil.PtrTo(uint64(3))},
			expect:  []byte("abc"),
		},
		{
			name:    "length truncates string",
			payload: namedstmt.Payload{Buffer: testutil.PtrTo("abcdef"), Length: testutil.PtrTo(uint64(2))},
			expect:  "ab",
		},
		{
			name:    "length larger than buffer",
			payload: namedstmt.Payload{Buffer: "abc", Length: testutil.PtrTo(uint64(10))},
			expect:  "abc",
		},
		{
			name:    "zero length",
			payload: namedstmt.Payload{Type: namedstmt.TypeString, Buffer: "abc", Length: testutil.PtrTo(uint64(0))},
			expect:  "",
		},
		{
			name:    "var string from bytes",
			payload: namedstmt.Payload{Type: namedstmt.TypeVarString, Buffer: []byte("abc")},
			expect:  "abc",
		},
		{
			name:    "json from bytes",
			payload: namedstmt.Payload{Type: namedstmt.TypeJSON, Buffer: []byte(`{"a":1}`)},
			expect:  `{"a":1}`,
		},
		{
			name:    "blob from string",
			payload: namedstmt.Payload{Type: namedstmt.TypeBlob, Buffer: "abc"},
			expect:  []byte("abc"),
		},
		{
			name:    "double from int",
			payload: namedstmt.Payload{Type: namedstmt.TypeDouble, Buffer: 3},
			expect:  float64(3),
		},
		{
			name:    "float",
			payload: namedstmt.Payload{Type: namedstmt.TypeFloat, Buffer: float32(1.5)},
			expect:  float64(1.5),
		},
		{
			name:    "bool",
			payload: namedstmt.Payload{Type: namedstmt.TypeTiny, Buffer: true},
			expect:  true,
		},
		{
			name:    "time",
			payload: namedstmt.Payload{Type: namedstmt.TypeDateTime, Buffer: &now},
			expect:  now,
		},
		{
			name:    "valuer",
			payload: namedstmt.Payload{Buffer: sql.NullString{String: "a", Valid: true}},
			expect:  "a",
		},
		{
			name:    "pointer to valuer",
			payload: namedstmt.Payload{Buffer: &sql.NullInt64{}},
			expect:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.payload.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestPayload_Value_borrowed(t *testing.T) {
	name := "Alice"
	isNull := false
	p := namedstmt.Payload{Buffer: &name, IsNull: &isNull}

	name = "Rob"
	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, "Rob", v)

	isNull = true
	v, err = p.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPayload_Value_unsupported(t *testing.T) {
	p := namedstmt.Payload{Buffer: struct{ A int }{1}}
	_, err := p.Value()
	assert.Error(t, err)
}

func TestFieldType_String(t *testing.T) {
	assert.Equal(t, "AUTO", namedstmt.TypeAuto.String())
	assert.Equal(t, "LONGLONG", namedstmt.TypeLongLong.String())
	assert.Equal(t, "VAR_STRING", namedstmt.TypeVarString.String())
	assert.Equal(t, "JSON", namedstmt.TypeJSON.String())
	assert.Equal(t, "UNKNOWN", namedstmt.FieldType(200).String())
}

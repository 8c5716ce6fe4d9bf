package jsonvalue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		check   func(t *testing.T, v Value)
	}{
		{
			name:  "object keeps member order",
			input: `{"zeta":1,"alpha":2,"mid":{"b":true,"a":null}}`,
			check: func(t *testing.T, v Value) {
				require.Equal(t, KindObject, v.Kind())
				obj := v.obj
				require.Len(t, obj.Members, 3)
				assert.Equal(t, "zeta", obj.Members[0].Key)
				assert.Equal(t, "alpha", obj.Members[1].Key)
				assert.Equal(t, "mid", obj.Members[2].Key)

				inner := v.Get("mid").obj
				require.NotNil(t, inner)
				assert.Equal(t, "b", inner.Members[0].Key)
				assert.True(t, inner.Members[1].Value.IsNull())
			},
		},
		{
			name:  "large identifiers keep their literal text",
			input: `{"id":123456789012345678901}`,
			check: func(t *testing.T, v Value) {
				text, ok := v.Get("id").Text()
				require.True(t, ok)
				assert.Equal(t, "123456789012345678901", text)
			},
		},
		{
			name:  "bare number",
			input: `  1432 `,
			check: func(t *testing.T, v Value) {
				f, ok := v.Float()
				require.True(t, ok)
				assert.Equal(t, 1432.0, f)
			},
		},
		{
			name:  "array of mixed values",
			input: `[1,"two",false,null,[],{}]`,
			check: func(t *testing.T, v Value) {
				items := v.Items()
				require.Len(t, items, 6)
				assert.Equal(t, KindNumber, items[0].Kind())
				assert.Equal(t, KindString, items[1].Kind())
				assert.Equal(t, KindBool, items[2].Kind())
				assert.Equal(t, KindNull, items[3].Kind())
				assert.Equal(t, KindArray, items[4].Kind())
				assert.Equal(t, KindObject, items[5].Kind())
			},
		},
		{
			name:    "empty body",
			input:   "   ",
			wantErr: ErrEmptyBody,
		},
		{
			name:    "trailing data",
			input:   `{"a":1} {"b":2}`,
			wantErr: ErrTrailingData,
		},
		{
			name:    "garbage after object",
			input:   `{"a":1}garbage`,
			wantErr: ErrTrailingData,
		},
		{
			name:    "garbage after bare number",
			input:   `1432 elo`,
			wantErr: ErrTrailingData,
		},
		{
			name:    "leading zero",
			input:   `{"elo":01}`,
			wantErr: ErrBadNumber,
		},
		{
			name:    "lone minus sign",
			input:   `{"rank":-}`,
			wantErr: ErrBadNumber,
		},
		{
			name:    "bare lone minus sign",
			input:   `-`,
			wantErr: ErrBadNumber,
		},
		{
			name:    "double decimal point",
			input:   `[1.2.3]`,
			wantErr: ErrBadNumber,
		},
		{
			name:    "html error page",
			input:   `<html><body>502 Bad Gateway</body></html>`,
			wantErr: nil,
		},
		{
			name:  "truncated object",
			input: `{"a":1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.input))
			if tt.check == nil {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			tt.check(t, v)
		})
	}
}

func TestValue_Float(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   float64
		wantOK bool
	}{
		{"number", Number(1500), 1500, true},
		{"numeric string", String("1432"), 1432, true},
		{"padded numeric string", String(" 87.5 "), 87.5, true},
		{"empty string", String(""), 0, false},
		{"word", String("Diamond"), 0, false},
		{"NaN string", String("NaN"), 0, false},
		{"infinity string", String("Infinity"), 0, false},
		{"bool", Bool(true), 0, false},
		{"null", Null(), 0, false},
		{"object", FromObject(NewObject()), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	v, err := Parse([]byte(`{"data":{"user":{"nickname":"Feinberg"}},"elo":null,"eloRate":"1800"}`))
	require.NoError(t, err)

	name, ok := v.Path("data", "user", "nickname").Text()
	require.True(t, ok)
	assert.Equal(t, "Feinberg", name)

	assert.True(t, v.Path("data", "missing", "nickname").IsNull())
	assert.True(t, v.Get("data").Get("user").Get("nickname").Get("x").IsNull())

	first := v.First("elo", "eloRate")
	text, _ := first.Text()
	assert.Equal(t, "1800", text)

	assert.Equal(t, KindNull, Coalesce(Null(), Null()).Kind())
	assert.Equal(t, KindBool, Coalesce(Null(), Bool(false), Number(1)).Kind())
}

func TestObject_SetReplacesInPlace(t *testing.T) {
	obj := NewObject().
		Set("a", Number(1)).
		Set("b", Number(2)).
		Set("a", Number(3))

	require.Len(t, obj.Members, 2)
	assert.Equal(t, "a", obj.Members[0].Key)
	got, _ := obj.Members[0].Value.Float()
	assert.Equal(t, 3.0, got)
}

func TestValue_MarshalJSON(t *testing.T) {
	input := `{"z":1,"a":[true,null,"x"],"m":{"k":2.50}}`
	v, err := Parse([]byte(input))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[true,null,"x"],"m":{"k":2.50}}`, string(out))
}

func TestNumberLiteral(t *testing.T) {
	tests := []struct {
		literal string
		valid   bool
	}{
		{"0", true},
		{"-12", true},
		{"1.5e-3", true},
		{"76561198000000000", true},
		{"01", false},
		{"-", false},
		{"+1", false},
		{"1.", false},
		{".5", false},
		{"1e", false},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			v := NumberLiteral(tt.literal)
			if !tt.valid {
				assert.True(t, v.IsNull())
				return
			}
			require.Equal(t, KindNumber, v.Kind())
			out, err := json.Marshal(v)
			require.NoError(t, err)
			assert.True(t, json.Valid(out))
			assert.Equal(t, tt.literal, string(out))
		})
	}
}

func TestValue_MarshalJSON_Cycle(t *testing.T) {
	obj := NewObject().Set("name", String("loop"))
	obj.Set("self", FromObject(obj))

	out, err := FromObject(obj).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"loop","self":null}`, string(out))
}

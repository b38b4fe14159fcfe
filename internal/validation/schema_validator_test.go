package validation

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	},
	"required": ["name"]
}`

func newTestValidator() SchemaValidator {
	return NewSchemaValidator(fstest.MapFS{
		"test.schema.json": {Data: []byte(testSchema)},
		"broken.json":      {Data: []byte(`{"type": `)},
	})
}

func TestSchemaValidator_ValidateBytes(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		data     string
		errorMsg string
	}{
		{name: "valid data", data: `{"name": "John", "age": 30}`},
		{name: "valid data without optional field", data: `{"name": "Jane"}`},
		{name: "missing required field", data: `{"age": 25}`, errorMsg: "required"},
		{name: "wrong type for field", data: `{"name": "John", "age": "thirty"}`, errorMsg: "/age"},
		{name: "constraint violation", data: `{"name": "John", "age": -5}`, errorMsg: "minimum"},
		{name: "unknown key", data: `{"name": "John", "agee": 5}`, errorMsg: "additionalProperties"},
		{name: "invalid JSON", data: `{"name": "John", "age": }`, errorMsg: ErrMsgParseJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.data), "test.schema.json")
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestSchemaValidator_ValidateDocument(t *testing.T) {
	v := newTestValidator()

	// YAML decoders hand back plain ints and string-keyed maps
	assert.NoError(t, v.ValidateDocument(map[string]any{"name": "x", "age": 3}, "test.schema.json"))
	assert.Error(t, v.ValidateDocument(map[string]any{"age": 3}, "test.schema.json"))
}

func TestSchemaValidator_SchemaProblems(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateBytes([]byte(`{}`), "missing.schema.json")
	assert.ErrorContains(t, err, ErrMsgLoadSchema)

	err = v.ValidateBytes([]byte(`{}`), "broken.json")
	assert.ErrorContains(t, err, ErrMsgLoadSchema)
}

func TestSchemaValidator_CachesCompiledSchema(t *testing.T) {
	v := newTestValidator().(*validator)

	require.NoError(t, v.ValidateBytes([]byte(`{"name": "a"}`), "test.schema.json"))
	require.NoError(t, v.ValidateBytes([]byte(`{"name": "b"}`), "test.schema.json"))
	assert.Len(t, v.schemas, 1)
}

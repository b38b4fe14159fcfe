package validation

const (
	ErrMsgParseJSON        = "failed to parse JSON data"
	ErrMsgEncodeDocument   = "failed to encode document"
	ErrMsgLoadSchema       = "failed to load schema"
	ErrMsgSchemaValidation = "schema validation failed"
)

package swagger

import _ "embed"

//go:embed openapi.yaml
var document []byte

// Document returns a copy of the embedded OpenAPI description.
func Document() []byte {
	return append([]byte(nil), document...)
}

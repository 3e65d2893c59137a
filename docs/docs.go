// Package docs carries the OpenAPI description of the HTTP API, served at
// /swagger/doc.json and rendered by the swagger UI mounted at /swagger/.
package docs

import _ "embed"

//go:embed openapi.json
var OpenAPI []byte

// Package docs descripción OpenAPI de la API, servida en /docs.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON string

// SwaggerInfo metadatos editables en runtime (host, versión).
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cartelera API",
	Description:      "Backend de la cartelera digital",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerJSON,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// JSON devuelve el documento registrado.
func JSON() (string, error) {
	return swag.ReadDoc(SwaggerInfo.InstanceName())
}

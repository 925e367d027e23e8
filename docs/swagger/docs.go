// Package swagger holds the generated API documentation.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/layers": {
            "get": {
                "description": "List the local layer records, optionally scoped to a workspace and/or store.",
                "produces": ["application/json"],
                "tags": ["layers"],
                "summary": "List layers",
                "parameters": [
                    {"type": "string", "description": "Workspace scope", "name": "workspace", "in": "query"},
                    {"type": "string", "description": "Store scope", "name": "store", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Layers"},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/layers/sync": {
            "post": {
                "description": "Reconcile the external catalog's resources against the local layer records.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["layers"],
                "summary": "Synchronize layers",
                "parameters": [
                    {
                        "description": "Sync options",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/layers.SyncRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Sync report", "schema": {"$ref": "#/definitions/sync.Outcome"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/layers/{name}": {
            "delete": {
                "description": "Delete a layer record; unless local_only is set the deletion cascades into the external catalog.",
                "produces": ["application/json"],
                "tags": ["layers"],
                "summary": "Delete a layer",
                "parameters": [
                    {"type": "string", "description": "Layer name", "name": "name", "in": "path", "required": true},
                    {"type": "boolean", "description": "Skip external catalog cleanup", "name": "local_only", "in": "query"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/layers/{name}/styles/fixup": {
            "post": {
                "description": "Replace a generic default style with generated symbology and mirror the style records.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["layers"],
                "summary": "Fix up layer styles",
                "parameters": [
                    {"type": "string", "description": "Layer name", "name": "name", "in": "path", "required": true},
                    {
                        "description": "Optional uploaded styling document",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/layers.FixupRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/layers/{name}/extent": {
            "get": {
                "description": "Get the pixel dimensions of a raster layer's grid.",
                "produces": ["application/json"],
                "tags": ["layers"],
                "summary": "Get raster grid extent",
                "parameters": [
                    {"type": "string", "description": "Layer name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Grid extent"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/stores": {
            "get": {
                "description": "List the stores registered in the external catalog, optionally filtered by kind.",
                "produces": ["application/json"],
                "tags": ["stores"],
                "summary": "List stores",
                "parameters": [
                    {"type": "string", "description": "Store kind (datastore or coveragestore)", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Stores", "schema": {"type": "array", "items": {"$ref": "#/definitions/layers.StoreInfo"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "layers.SyncRequest": {
            "type": "object",
            "properties": {
                "ignore_errors": {"type": "boolean"},
                "owner": {"type": "string"},
                "workspace": {"type": "string"},
                "store": {"type": "string"},
                "filter": {"type": "string"},
                "skip_unadvertised": {"type": "boolean"},
                "remove_deleted": {"type": "boolean"}
            }
        },
        "layers.FixupRequest": {
            "type": "object",
            "properties": {
                "sld": {"type": "string"}
            }
        },
        "layers.StoreInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "sync.Outcome": {
            "type": "object",
            "properties": {
                "stats": {"$ref": "#/definitions/sync.Stats"},
                "layers": {"type": "array", "items": {"$ref": "#/definitions/sync.LayerReport"}},
                "deleted_layers": {"type": "array", "items": {"$ref": "#/definitions/sync.LayerReport"}}
            }
        },
        "sync.Stats": {
            "type": "object",
            "properties": {
                "failed": {"type": "integer"},
                "updated": {"type": "integer"},
                "created": {"type": "integer"},
                "deleted": {"type": "integer"},
                "duration_sec": {"type": "number"}
            }
        },
        "sync.LayerReport": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "status": {"type": "string"},
                "error": {"type": "string"},
                "error_type": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Geosync API",
	Description:      "API for synchronizing spatial catalog metadata.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs holds the OpenAPI description served under /swagger.
package docs

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
        "/extractions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Analyze a stored document with the model mapped to its form type and persist one row per extracted field",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["extractions"],
                "summary": "Extract a stored tax document",
                "parameters": [
                    {"description": "Document to extract", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ExtractRequest"}}
                ],
                "responses": {
                    "200": {"description": "Extraction result", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "403": {"description": "Client not permitted", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "422": {"description": "No documents recognized", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "502": {"description": "Analysis failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/extraction-jobs": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Queue a stored document for background extraction",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Queue an extraction",
                "parameters": [
                    {"description": "Document to extract", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ExtractRequest"}}
                ],
                "responses": {
                    "202": {"description": "Job queued", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "403": {"description": "Client not permitted", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/extraction-jobs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Return the status of a queued extraction",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Get an extraction job",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Job", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid job ID", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/clients/{client_id}/extractions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List extracted field rows for a client, optionally for one document",
                "produces": ["application/json"],
                "tags": ["extractions"],
                "summary": "List extracted fields",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "client_id", "in": "path", "required": true},
                    {"type": "string", "description": "Document name", "name": "doc_name", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset for pagination", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 100, "description": "Limit for pagination (max 500)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Extracted fields", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "403": {"description": "Client not permitted", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Remove every extracted field row of one document so it can be re-extracted",
                "produces": ["application/json"],
                "tags": ["extractions"],
                "summary": "Delete a document's extracted fields",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "client_id", "in": "path", "required": true},
                    {"type": "string", "description": "Document name", "name": "doc_name", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Rows removed", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing doc_name", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Document has no extracted fields", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/clients/{client_id}/extractions/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Download a client's extracted fields as CSV (UTF-8 BOM) or XLSX",
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["extractions"],
                "summary": "Export extracted fields",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "client_id", "in": "path", "required": true},
                    {"type": "string", "description": "Document name", "name": "doc_name", "in": "query"},
                    {"type": "string", "default": "csv", "description": "csv or xlsx", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Export file", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Document has no extracted fields", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/clients/{client_id}/documents": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Store a tax document (PDF, JPG, PNG or TIFF) under the client's prefix and optionally queue its extraction",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Upload a tax document",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "client_id", "in": "path", "required": true},
                    {"type": "file", "description": "Document to upload", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "example": "W-2", "description": "Tax form type, required when enqueue is true", "name": "form_type", "in": "formData"},
                    {"type": "boolean", "description": "Queue an extraction job after upload", "name": "enqueue", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Document stored", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing file or invalid input", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "415": {"description": "Unsupported file type", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Upload failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/clients/{client_id}/documents/{blob_name}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Remove a source document from object storage. Extracted fields are kept.",
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Delete a stored document",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "client_id", "in": "path", "required": true},
                    {"type": "string", "description": "Document name", "name": "blob_name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Document deleted", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.ExtractRequest": {
            "type": "object",
            "required": ["blob_name", "client_id", "form_type"],
            "properties": {
                "blob_name": {"type": "string", "example": "w2_2023.pdf"},
                "client_id": {"type": "string", "example": "client-1042"},
                "dry_run": {"type": "boolean", "example": false},
                "form_type": {"type": "string", "example": "W-2"}
            }
        },
        "handler.PagMeta": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/handler.PagMeta"},
                "success": {"type": "boolean", "example": true}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Tax Extract API",
	Description:      "Extracts fields from US tax forms with document analysis models and stores them per client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

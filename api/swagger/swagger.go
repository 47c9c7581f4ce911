package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Org Portal Gateway",
        "description": "Rendering gateway over the legacy organization portal",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Session", "description": "Login relay and gateway sessions"},
        {"name": "Panels", "description": "Panel lifecycle, fragments and actions"},
        {"name": "AcademicYears", "description": "Shared academic-year filter state"},
        {"name": "Audit", "description": "Relayed-action trail"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/session/login": {
            "post": {
                "tags": ["Session"],
                "summary": "Authenticate against the legacy portal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/register": {
            "post": {
                "tags": ["Session"],
                "summary": "Register a new member",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/remembered": {
            "get": {
                "tags": ["Session"],
                "summary": "Recover remembered username",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No remembered credentials"}
                }
            }
        },
        "/session/profile": {
            "get": {
                "tags": ["Session"],
                "summary": "Current user's profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/session/logout": {
            "post": {
                "tags": ["Session"],
                "summary": "End the session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/panels/{name}/mount": {
            "post": {
                "tags": ["Panels"],
                "summary": "Mount a panel",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown panel"}
                }
            },
            "delete": {
                "tags": ["Panels"],
                "summary": "Unmount a panel",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not mounted"}
                }
            }
        },
        "/panels/{name}/fragment": {
            "get": {
                "tags": ["Panels"],
                "summary": "Fetch the last rendered fragment",
                "produces": ["text/html"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "view", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "HTML fragment"},
                    "404": {"description": "Not rendered yet"},
                    "409": {"description": "Not mounted"}
                }
            }
        },
        "/panels/{name}/state": {
            "get": {
                "tags": ["Panels"],
                "summary": "Panel lifecycle state",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/panels/{name}/actions": {
            "post": {
                "tags": ["Panels"],
                "summary": "Dispatch a panel action",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown action or invalid target"},
                    "502": {"description": "Upstream rejected the mutation"}
                }
            }
        },
        "/panels/{name}/files/{id}": {
            "post": {
                "tags": ["Panels"],
                "summary": "Replace a declined document",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing file or invalid target"},
                    "502": {"description": "Upstream rejected the replacement"}
                }
            }
        },
        "/acadyear/context": {
            "get": {
                "tags": ["AcademicYears"],
                "summary": "Current academic-year scope",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/acadyear/years": {
            "get": {
                "tags": ["AcademicYears"],
                "summary": "List school-year ranges",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/acadyear/range": {
            "post": {
                "tags": ["AcademicYears"],
                "summary": "Switch the school-year range",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectRangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown range"}
                }
            }
        },
        "/acadyear/semester": {
            "post": {
                "tags": ["AcademicYears"],
                "summary": "Switch the open semester",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectSemesterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/audits": {
            "get": {
                "tags": ["Audit"],
                "summary": "List relayed actions",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "panel", "in": "query", "type": "string"},
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "outcome", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "per_page", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "remember": {"type": "boolean"}
            }
        },
        "ActionRequest": {
            "type": "object",
            "required": ["action"],
            "properties": {
                "action": {"type": "string"},
                "target_id": {"type": "string"},
                "targets": {"type": "array", "items": {"type": "string"}},
                "params": {"type": "object"}
            }
        },
        "SelectRangeRequest": {
            "type": "object",
            "required": ["start_year", "end_year"],
            "properties": {
                "start_year": {"type": "integer"},
                "end_year": {"type": "integer"}
            }
        },
        "SelectSemesterRequest": {
            "type": "object",
            "required": ["semester"],
            "properties": {
                "semester": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

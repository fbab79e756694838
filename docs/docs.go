// Package docs registers the OpenAPI description served under /swagger.
//
// The document is maintained by hand as a condensed view of the handler
// annotations. It lists every route with its request body and main status
// codes. Response bodies are not modelled.
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
        "/api/admin/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Admin login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"},
                    "429": {"description": "Too Many Requests"}
                }
            }
        },
        "/api/admin/verify": {
            "post": {"tags": ["auth"], "summary": "Verify session", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/admin/refresh": {
            "post": {"tags": ["auth"], "summary": "Refresh session", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/admin/logout": {
            "post": {"tags": ["auth"], "summary": "Logout", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/projects": {
            "get": {"tags": ["projects"], "summary": "List published projects", "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["projects"],
                "summary": "Create a project",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ports.CreateProjectInput"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/projects/admin": {
            "get": {
                "tags": ["projects"],
                "summary": "List all projects",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "status", "type": "string", "enum": ["EN_COURS", "TERMINE", "EN_ATTENTE"]}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/projects/admin/{id}": {
            "get": {"tags": ["projects"], "summary": "Get any project", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/projects/{id}": {
            "get": {"tags": ["projects"], "summary": "Get a published project", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["projects"], "summary": "Update a project", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["projects"], "summary": "Delete a project", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/projects/{id}/status": {
            "patch": {"tags": ["projects"], "summary": "Change a project status", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/contact": {
            "post": {
                "tags": ["contact"],
                "summary": "Send a contact message",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ports.SubmitContactInput"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "429": {"description": "Too Many Requests"}}
            }
        },
        "/api/contact/admin": {
            "get": {"tags": ["contact"], "summary": "List contact messages", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "status", "type": "string", "enum": ["NOUVEAU", "LU", "TRAITE", "ARCHIVE"]}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/contact/admin/{id}": {
            "get": {"tags": ["contact"], "summary": "Get a contact message", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/contact/{id}": {
            "delete": {"tags": ["contact"], "summary": "Delete a contact message", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/contact/{id}/status": {
            "patch": {"tags": ["contact"], "summary": "Change a message status", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/categories": {
            "get": {"tags": ["categories"], "summary": "List categories", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["categories"], "summary": "Create a category", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/categories/{id}": {
            "delete": {"tags": ["categories"], "summary": "Delete a category", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/categories/{id}/projects": {
            "post": {"tags": ["categories"], "summary": "Link projects to a category", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/upload/image": {
            "post": {
                "tags": ["upload"],
                "summary": "Upload an image",
                "consumes": ["multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "formData", "name": "image", "required": true, "type": "file"},
                    {"in": "formData", "name": "projectId", "type": "string"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "413": {"description": "Payload Too Large"}, "415": {"description": "Unsupported Media Type"}}
            }
        },
        "/api/upload/images": {
            "post": {
                "tags": ["upload"],
                "summary": "Upload several images",
                "consumes": ["multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "formData", "name": "images", "required": true, "type": "file"},
                    {"in": "formData", "name": "projectId", "type": "string"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/upload/image/{id}": {
            "get": {"tags": ["upload"], "summary": "Download an image", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["upload"], "summary": "Delete an image", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "definitions": {
        "handler.loginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "ports.CreateProjectInput": {
            "type": "object",
            "required": ["title", "description", "technologies", "client", "duration", "status", "date"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "technologies": {"type": "array", "items": {"type": "string"}},
                "client": {"type": "string"},
                "duration": {"type": "string"},
                "status": {"type": "string", "enum": ["EN_COURS", "TERMINE", "EN_ATTENTE"]},
                "date": {"type": "string"},
                "url": {"type": "string"},
                "imageUrl": {"type": "string"}
            }
        },
        "ports.SubmitContactInput": {
            "type": "object",
            "required": ["name", "email", "subject", "message"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "company": {"type": "string"},
                "subject": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Agency API",
	Description:      "Back office API for the agency website: projects, contact messages, categories and uploads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs holds the OpenAPI document served at /swagger-doc.json.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/session": {
            "get": {"tags": ["auth"], "summary": "Current session state", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.Snapshot"}}}}
        },
        "/auth/signin": {
            "post": {"tags": ["auth"], "summary": "Sign in with email and password",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SignInRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuthResponse"}},
                    "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/signup": {
            "post": {"tags": ["auth"], "summary": "Create an account and sign in",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SignUpRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.AuthResponse"}},
                    "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/auth/oauth": {
            "post": {"tags": ["auth"], "summary": "Start an OAuth sign-in",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.OAuthRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.OAuthResponse"}},
                    "400": {"description": "Bad Request"}}}
        },
        "/auth/signout": {
            "post": {"tags": ["auth"], "summary": "Sign out", "responses": {"204": {"description": "No Content"}}}
        },
        "/navigation": {
            "get": {"tags": ["navigation"], "summary": "Current navigation state", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PageResponse"}}}},
            "post": {"tags": ["navigation"], "summary": "Navigate in-app",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.NavigateRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PageResponse"}},
                    "400": {"description": "Bad Request"}}}
        },
        "/navigation/back": {
            "post": {"tags": ["navigation"], "summary": "Browser back",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PageResponse"}}}}
        },
        "/navigation/forward": {
            "post": {"tags": ["navigation"], "summary": "Browser forward",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PageResponse"}}}}
        },
        "/notifications": {
            "get": {"tags": ["notifications"], "summary": "Drain pending notices", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/tasks": {
            "get": {"tags": ["tasks"], "summary": "Visible tasks of the workspace", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "view", "in": "query", "description": "board or list"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "priority", "in": "query"},
                    {"type": "string", "name": "assignee", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListTasksResponse"}},
                    "401": {"description": "Unauthorized"}}},
            "post": {"tags": ["tasks"], "summary": "Create a task",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateTaskRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Task"}},
                    "400": {"description": "Bad Request"}}}
        },
        "/tasks/{id}": {
            "patch": {"tags": ["tasks"], "summary": "Update a task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}},
                    "404": {"description": "Not Found"}, "422": {"description": "Unprocessable Entity"}}},
            "delete": {"tags": ["tasks"], "summary": "Delete a task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/tasks/{id}/status": {
            "post": {"tags": ["tasks"], "summary": "Change a task's status",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}}}}
        },
        "/tasks/status": {
            "post": {"tags": ["tasks"], "summary": "Change the status of several tasks",
                "responses": {"200": {"description": "OK"}, "207": {"description": "Multi-Status"}}}
        },
        "/articles": {
            "get": {"tags": ["articles"], "summary": "Own articles", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["articles"], "summary": "Create an article",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Article"}}}}
        },
        "/articles/{id}": {
            "patch": {"tags": ["articles"], "summary": "Update an article",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Article"}},
                    "403": {"description": "Forbidden"}, "422": {"description": "Unprocessable Entity"}}},
            "delete": {"tags": ["articles"], "summary": "Delete an article",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/news": {
            "get": {"tags": ["articles"], "summary": "Public news feed", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/jobs": {
            "post": {"tags": ["jobs"], "summary": "Start a background job",
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.JobResponse"}}}}
        },
        "/jobs/{id}": {
            "get": {"tags": ["jobs"], "summary": "Poll a background job",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        }
    },
    "definitions": {
        "session.Snapshot": {"type": "object", "properties": {
            "state": {"type": "string", "enum": ["resolving", "authenticated", "anonymous"]},
            "user": {"$ref": "#/definitions/domain.User"}}},
        "domain.User": {"type": "object", "properties": {
            "id": {"type": "string"}, "login": {"type": "string"}, "email": {"type": "string"},
            "avatar_url": {"type": "string"}, "is_owner": {"type": "boolean"},
            "role": {"type": "string", "enum": ["owner", "editor", "member"]}}},
        "domain.Task": {"type": "object", "properties": {
            "id": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"},
            "status": {"type": "string", "enum": ["todo", "in_progress", "in_review", "done"]},
            "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
            "due_at": {"type": "string"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"},
            "created_by": {"type": "string"}}},
        "domain.Article": {"type": "object", "properties": {
            "id": {"type": "string"}, "title": {"type": "string"}, "summary": {"type": "string"},
            "body": {"type": "string"}, "tags": {"type": "array", "items": {"type": "string"}},
            "visibility": {"type": "string", "enum": ["public", "private"]}, "is_news": {"type": "boolean"},
            "published_at": {"type": "string"}, "created_by": {"type": "string"}}},
        "dto.SignInRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "dto.SignUpRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}, "display_name": {"type": "string"}}},
        "dto.OAuthRequest": {"type": "object", "required": ["provider"], "properties": {
            "provider": {"type": "string"}, "redirect_to": {"type": "string"}}},
        "dto.OAuthResponse": {"type": "object", "properties": {"url": {"type": "string"}}},
        "dto.AuthResponse": {"type": "object", "properties": {
            "user": {"$ref": "#/definitions/domain.User"}, "token": {"type": "string"}}},
        "dto.NavigateRequest": {"type": "object", "properties": {
            "page": {"type": "string", "enum": ["tasks", "articles", "news", "profile"]}, "path": {"type": "string"}}},
        "dto.PageResponse": {"type": "object", "properties": {
            "session": {"$ref": "#/definitions/session.Snapshot"}, "navigation": {"type": "object"}, "data": {"type": "object"}}},
        "dto.CreateTaskRequest": {"type": "object", "required": ["title"], "properties": {
            "title": {"type": "string"}, "description": {"type": "string"}, "status": {"type": "string"},
            "priority": {"type": "string"}, "due_at": {"type": "string", "example": "2026-02-19"}}},
        "dto.ListTasksResponse": {"type": "object", "properties": {
            "view": {"type": "string"}, "total": {"type": "integer"},
            "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Task"}}}},
        "dto.JobResponse": {"type": "object", "properties": {"id": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "TaskFlow API",
	Description:      "Tasks, articles and the news feed with per-browser session and navigation state.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

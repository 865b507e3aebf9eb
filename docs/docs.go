// Package docs holds the OpenAPI description served at /swagger/*any.
// It is maintained by hand: every route under /api/v1 needs an entry in docTemplate.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/users/sync": {"post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create or fetch the caller's account", "responses": {"200": {"description": "existing user"}, "201": {"description": "created"}}}},
        "/tasks": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["tasks"], "summary": "List tasks, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["tasks"], "summary": "Create a task", "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid input"}}}
        },
        "/tasks/{id}": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["tasks"], "summary": "Update a task", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["tasks"], "summary": "Delete a task", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/logs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "List daily logs", "parameters": [{"type": "string", "name": "startDate", "in": "query"}, {"type": "string", "name": "endDate", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "Create or update the log of a day", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}
        },
        "/logs/{date}": {"get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "Get the log of a day", "parameters": [{"type": "string", "name": "date", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/analytics/today": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Today's score and the next pending task", "responses": {"200": {"description": "OK"}}}},
        "/analytics/weekly": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Seven-day rollup", "parameters": [{"type": "string", "name": "endDate", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid date"}}}},
        "/analytics/daily/{date}": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Score of one day", "parameters": [{"type": "string", "name": "date", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid date"}}}},
        "/optimize": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Prioritised recommendations", "responses": {"200": {"description": "OK"}}}},
        "/insights": {"get": {"security": [{"BearerAuth": []}], "tags": ["insights"], "summary": "Generated insights", "responses": {"200": {"description": "OK"}}}},
        "/insights/daily": {"get": {"security": [{"BearerAuth": []}], "tags": ["insights"], "summary": "One-line suggestion for today", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "LifeOS API",
	Description:      "Productivity tracking: tasks, daily logs, analytics and recommendations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

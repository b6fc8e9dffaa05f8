// Package docs registers the OpenAPI document served under /swagger.
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
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Вход в систему",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "login", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/contacts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Contacts"],
                "summary": "Список контактов",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Contact"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Contacts"],
                "summary": "Создать контакт",
                "parameters": [{"in": "body", "name": "contact", "required": true, "schema": {"$ref": "#/definitions/models.Contact"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/deals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Deals"],
                "summary": "Список сделок",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Deal"}}}}
            }
        },
        "/deals/{id}/stage": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Deals"],
                "summary": "Перенести сделку на этап",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"stage": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/pipeline": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Pipeline"],
                "summary": "Воронка продаж",
                "parameters": [
                    {"type": "string", "name": "contactId", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/activities": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Activities"],
                "summary": "Список активностей",
                "parameters": [{"type": "string", "name": "filter", "in": "query", "enum": ["all", "pending", "completed", "overdue"]}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/activities/{id}/toggle": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Activities"],
                "summary": "Отметить выполненной / снять отметку",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Метрики главной страницы",
                "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/reports/pipeline.pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Reports"],
                "summary": "PDF-отчёт по воронке",
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.Contact": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "firstName": {"type": "string"}, "lastName": {"type": "string"},
                "email": {"type": "string"}, "phone": {"type": "string"}, "company": {"type": "string"},
                "position": {"type": "string"}, "source": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
            }
        },
        "models.Deal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "title": {"type": "string"}, "value": {"type": "number"},
                "stage": {"type": "string"}, "probability": {"type": "integer"}, "contactId": {"type": "string"},
                "expectedCloseDate": {"type": "string"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "crmdash API",
	Description:      "Contacts, deals pipeline, activities and dashboard metrics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

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
        "/expenses": {
            "get": {
                "description": "Return every expense in insertion order",
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "List expenses",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/expense.Expense"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.messageResponse"}}
                }
            },
            "post": {
                "description": "Validate and store a new expense",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Add expense",
                "parameters": [
                    {"description": "Expense to add", "name": "expense", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.addExpenseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.addExpenseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.messageResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.messageResponse"}}
                }
            }
        },
        "/expenses/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Delete expense",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Expense ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.messageResponse"}}
                }
            }
        },
        "/expenses/category": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Expenses grouped by category",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/expense.Expense"}}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.messageResponse"}}
                }
            }
        },
        "/expenses/category/totalAmount": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Total amount per category",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.messageResponse"}}
                }
            }
        },
        "/expenses/totalAmount": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Overall total amount",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.totalAmountResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.messageResponse"}}
                }
            }
        },
        "/expenses/filterByDate": {
            "get": {
                "description": "Inclusive range; dates are RFC 3339 or YYYY-MM-DD",
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Filter expenses by date range",
                "parameters": [
                    {"type": "string", "description": "Start of range", "name": "startDate", "in": "query", "required": true},
                    {"type": "string", "description": "End of range", "name": "endDate", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/expense.Expense"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.messageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "expense.Expense": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "date": {"type": "string", "format": "date-time"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "amount": {"type": "string", "example": "12.50"}
            }
        },
        "api.addExpenseRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "category": {"type": "string"},
                "amount": {"type": "string", "example": "12.50"},
                "date": {"type": "string", "format": "date-time"}
            }
        },
        "api.addExpenseResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "expense": {"$ref": "#/definitions/expense.Expense"}
            }
        },
        "api.messageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "detail": {"type": "string"}
            }
        },
        "api.totalAmountResponse": {
            "type": "object",
            "properties": {
                "totalAmount": {"type": "string", "example": "112.50"}
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
	Title:            "Expense Manager API",
	Description:      "Record personal expenses and report on them by category and date.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

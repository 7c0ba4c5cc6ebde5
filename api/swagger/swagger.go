package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Day-card Scheduler API",
        "description": "Task schedules made of day cards, with work-day aware slot shifting.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Schedules", "description": "Task schedules and day-card moves"},
        {"name": "WorkDays", "description": "Per-project working weekdays and holidays"},
        {"name": "Operations", "description": "Probes and metrics"}
    ],
    "paths": {
        "/tasks/{taskId}/schedule": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get a task schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "taskId", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/{taskId}/schedule/move": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Move a day card and cascade the following slots",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveDayCardRequest"}}
                ],
                "responses": {
                    "200": {"description": "Applied", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or locked target date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Work days policy leaves no working day", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/{taskId}/schedule/preview": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Preview a day-card move without saving it",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveDayCardRequest"}}
                ],
                "responses": {
                    "200": {"description": "Preview", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/{taskId}/schedule/export": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download a task schedule",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        },
        "/tasks/{taskId}/schedule/history": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List day-card moves applied to a task schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"},
                    {"name": "page", "in": "query", "type": "integer", "default": 1},
                    {"name": "pageSize", "in": "query", "type": "integer", "default": 20}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{projectId}/workdays": {
            "get": {
                "tags": ["WorkDays"],
                "summary": "Get a project's work-days policy",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "projectId", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["WorkDays"],
                "summary": "Replace a project's work-days policy",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateWorkDaysRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No working day left", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{projectId}/workdays/check": {
            "get": {
                "tags": ["WorkDays"],
                "summary": "Check whether a date is a working day",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Operations"],
                "summary": "Aggregated service metrics",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "MoveDayCardRequest": {
            "type": "object",
            "required": ["dayCardId", "date"],
            "properties": {
                "dayCardId": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "version": {"type": "integer"}
            }
        },
        "Holiday": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "date": {"type": "string", "format": "date"}
            }
        },
        "UpdateWorkDaysRequest": {
            "type": "object",
            "properties": {
                "workingDays": {"type": "array", "items": {"type": "string", "enum": ["MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"]}},
                "holidays": {"type": "array", "items": {"$ref": "#/definitions/Holiday"}},
                "allowWorkOnNonWorkingDays": {"type": "boolean"},
                "version": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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

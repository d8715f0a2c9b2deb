// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/token": {
            "post": {"tags": ["auth"], "summary": "Issue an access token (password or client_credentials grant)", "security": [],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/clusters": {
            "get": {"tags": ["clusters"], "summary": "List clusters", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["clusters"], "summary": "Create a cluster",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ClusterRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/clusters/{id}": {
            "get": {"tags": ["clusters"], "summary": "Get a cluster", "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["clusters"], "summary": "Update a cluster; an empty password keeps the stored one",
                "parameters": [{"$ref": "#/parameters/ID"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ClusterRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/clusters/{id}/live-databases": {
            "get": {"tags": ["clusters"], "summary": "List databases on the live cluster", "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "503": {"description": "Cluster unreachable"}}}
        },
        "/clusters/{id}/databases/sync": {
            "post": {"tags": ["clusters"], "summary": "Create member databases for every live database not yet known", "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "503": {"description": "Cluster unreachable"}}}
        },
        "/clusters/{id}/databases": {
            "get": {"tags": ["databases"], "summary": "List member databases", "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["databases"], "summary": "Add a member database seeded from the cluster policy",
                "parameters": [{"$ref": "#/parameters/ID"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/DatabaseRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/databases/{id}": {
            "get": {"tags": ["databases"], "summary": "Get a member database", "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["databases"], "summary": "Edit a member database",
                "parameters": [{"$ref": "#/parameters/ID"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/DatabaseRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/clusters/{id}/propagation/preview": {
            "get": {"tags": ["propagation"], "summary": "Preview which databases differ from the cluster policy",
                "parameters": [
                    {"$ref": "#/parameters/ID"},
                    {"in": "query", "name": "applyStorage", "type": "boolean"},
                    {"in": "query", "name": "applySchedule", "type": "boolean"},
                    {"in": "query", "name": "applyEnableBackups", "type": "boolean"},
                    {"in": "query", "name": "respectExclusions", "type": "boolean"}
                ],
                "responses": {"200": {"description": "Databases that differ", "schema": {"type": "array", "items": {"$ref": "#/definitions/PropagationChange"}}}, "404": {"description": "Not Found"}}}
        },
        "/clusters/{id}/propagation/apply": {
            "post": {"tags": ["propagation"], "summary": "Push the cluster policy onto its member databases",
                "parameters": [{"$ref": "#/parameters/ID"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/PropagationRequest"}}],
                "responses": {"200": {"description": "OK, possibly with per database failures"}, "404": {"description": "Not Found"}}}
        },
        "/schedule/convert": {
            "post": {"tags": ["schedule"], "summary": "Convert an interval between UTC and local time",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ScheduleConvertRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/audit-logs": {
            "get": {"tags": ["audit"], "summary": "List audit log entries",
                "parameters": [
                    {"in": "query", "name": "query", "type": "string", "description": "field|op|value, comma separated"},
                    {"in": "query", "name": "order", "type": "string", "description": "field|asc or field|desc"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "per_page", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/clients": {
            "get": {"tags": ["clients"], "summary": "List API clients", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["clients"], "summary": "Create an API client; the secret is only returned once", "responses": {"201": {"description": "Created"}}}
        },
        "/clients/{id}": {
            "get": {"tags": ["clients"], "summary": "Get an API client", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["clients"], "summary": "Update label and scopes", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["clients"], "summary": "Delete an API client", "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness check", "security": [], "responses": {"200": {"description": "OK"}}}
        }
    },
    "parameters": {
        "ID": {"in": "path", "name": "id", "type": "string", "format": "uuid", "required": true}
    },
    "definitions": {
        "TokenRequest": {"type": "object", "properties": {
            "grant_type": {"type": "string", "enum": ["password", "client_credentials"]},
            "username": {"type": "string"}, "password": {"type": "string"},
            "client_id": {"type": "string"}, "client_secret": {"type": "string"}}},
        "Interval": {"type": "object", "properties": {
            "interval": {"type": "string", "enum": ["HOURLY", "DAILY", "WEEKLY", "MONTHLY"]},
            "timeOfDay": {"type": "string", "example": "04:00"},
            "weekday": {"type": "integer", "minimum": 1, "maximum": 7},
            "dayOfMonth": {"type": "integer", "minimum": 1, "maximum": 31}}},
        "ClusterRequest": {"type": "object", "properties": {
            "name": {"type": "string"},
            "engine": {"type": "string", "enum": ["postgresql", "mysql"]},
            "connection": {"type": "object", "properties": {
                "version": {"type": "string"}, "host": {"type": "string"}, "port": {"type": "integer"},
                "username": {"type": "string"}, "password": {"type": "string"}, "isHttps": {"type": "boolean"}}},
            "isBackupsEnabled": {"type": "boolean"},
            "storePeriod": {"type": "string"},
            "backupInterval": {"$ref": "#/definitions/Interval"},
            "storageId": {"type": "string"},
            "notifiers": {"type": "array", "items": {"type": "string"}},
            "excludedDatabases": {"type": "array", "items": {"type": "string"}}}},
        "DatabaseRequest": {"type": "object", "properties": {
            "name": {"type": "string"},
            "isBackupsEnabled": {"type": "boolean"},
            "storePeriod": {"type": "string"},
            "backupInterval": {"$ref": "#/definitions/Interval"},
            "storageId": {"type": "string"}}},
        "PropagationRequest": {"type": "object", "properties": {
            "applyStorage": {"type": "boolean"},
            "applySchedule": {"type": "boolean"},
            "applyEnableBackups": {"type": "boolean"},
            "respectExclusions": {"type": "boolean"}}},
        "PropagationChange": {"type": "object", "properties": {
            "databaseId": {"type": "string"}, "name": {"type": "string"},
            "changeStorage": {"type": "boolean"}, "changeSchedule": {"type": "boolean"}, "changeEnabled": {"type": "boolean"}}},
        "ScheduleConvertRequest": {"type": "object", "properties": {
            "interval": {"$ref": "#/definitions/Interval"},
            "utcOffset": {"type": "string", "example": "+02:00"},
            "timezone": {"type": "string", "example": "Europe/Amsterdam"},
            "direction": {"type": "string", "enum": ["to_local", "to_utc"]}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "clustercalm API",
	Description:      "Cluster backup policy management: schedule conversion and policy propagation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

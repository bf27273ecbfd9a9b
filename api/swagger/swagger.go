package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Suspension Records API",
        "description": "Backend for the school suspension register and approvals queue",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Sign-in, token refresh, Google OAuth"},
        {"name": "Students", "description": "Roster lookup for the creation form"},
        {"name": "Suspensions", "description": "Suspension records, summary and export"},
        {"name": "Approvals", "description": "Pending queue and decisions (allow-listed accounts only)"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Exchange a refresh token for a new pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/auth/forgot-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Request a password reset",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ForgotPasswordRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke a refresh token",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user info",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/google": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Begin Google sign-in",
                "responses": {
                    "302": {"description": "Redirect to Google consent"}
                }
            }
        },
        "/auth/callback": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Complete Google sign-in",
                "parameters": [
                    {"name": "code", "in": "query", "type": "string", "required": true},
                    {"name": "state", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "302": {"description": "Redirect to the dashboard with tokens in the fragment"},
                    "401": {"description": "State mismatch or failed exchange"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "Search students by name",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "requestId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/suspensions": {
            "get": {
                "tags": ["Suspensions"],
                "summary": "List suspension records",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected"]},
                    {"name": "yearGroup", "in": "query", "type": "integer"},
                    {"name": "dateField", "in": "query", "type": "string", "enum": ["incident", "start", "end"]},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Suspensions"],
                "summary": "Create suspension record",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSuspensionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "First failing form rule"}
                }
            }
        },
        "/suspensions/summary": {
            "get": {
                "tags": ["Suspensions"],
                "summary": "Per-status record counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/suspensions/export": {
            "get": {
                "tags": ["Suspensions"],
                "summary": "Export the register as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/approvals/pending": {
            "get": {
                "tags": ["Approvals"],
                "summary": "Records awaiting a decision",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not on the approvals allow-list"}
                }
            }
        },
        "/approvals/{id}/approve": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Approve a pending record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No such record"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/approvals/{id}/reject": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Reject a pending record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing note"},
                    "404": {"description": "No such record"},
                    "409": {"description": "Already decided"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateSuspensionRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "year_group": {"type": "integer", "enum": [7, 8, 9, 10, 11]},
                "number_of_days": {"type": "number", "minimum": 0.5, "maximum": 5},
                "is_pending": {"type": "boolean"},
                "incident_date": {"type": "string", "format": "date"},
                "start_date": {"type": "string", "format": "date"},
                "start_session": {"type": "string", "enum": ["AM", "PM"]},
                "end_date": {"type": "string", "format": "date"},
                "end_session": {"type": "string", "enum": ["AM", "PM"]},
                "reintegration_date": {"type": "string", "format": "date"},
                "arbor_url": {"type": "string"}
            },
            "required": ["student_name", "year_group", "number_of_days", "incident_date", "start_date", "start_session", "end_date", "end_session"]
        },
        "ForgotPasswordRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            },
            "required": ["email"]
        },
        "RejectRequest": {
            "type": "object",
            "properties": {
                "note": {"type": "string"}
            },
            "required": ["note"]
        },
        "Suspension": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "year_group": {"type": "integer"},
                "number_of_days": {"type": "number"},
                "is_pending": {"type": "boolean"},
                "incident_date": {"type": "string"},
                "start_date": {"type": "string"},
                "start_session": {"type": "string"},
                "end_date": {"type": "string"},
                "end_session": {"type": "string"},
                "reintegration_date": {"type": "string"},
                "arbor_url": {"type": "string"},
                "approval_status": {"type": "string"},
                "approval_note": {"type": "string"},
                "approved_by": {"type": "string"},
                "approved_at": {"type": "string"},
                "created_by": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "StatusSummary": {
            "type": "object",
            "properties": {
                "pending": {"type": "integer"},
                "approved": {"type": "integer"},
                "rejected": {"type": "integer"}
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
                "pagination": {"type": "object"},
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

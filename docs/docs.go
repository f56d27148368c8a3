// Package docs holds the OpenAPI document served by the Swagger UI.
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
        "/events/{id}": {
            "get": {
                "summary": "Get event with bid summaries",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/bids": {
            "get": {
                "summary": "List bids for an event",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/bids/{bidId}": {
            "get": {
                "summary": "Get bid detail",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "bidId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/bids/{bidId}/shortlist": {
            "post": {
                "summary": "Shortlist a bid",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "bidId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpgin.BidStatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            },
            "delete": {
                "summary": "Remove a bid from the shortlist",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "bidId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpgin.BidStatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/bids/{bidId}/reject": {
            "post": {
                "summary": "Reject a bid",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "bidId", "in": "path", "required": true},
                    {"name": "req", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpgin.RejectBidRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpgin.BidStatusResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/comparison": {
            "get": {
                "summary": "Side-by-side bid comparison",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/select-winner": {
            "post": {
                "summary": "Select the winning bid (idempotent)",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "req", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpgin.SelectWinnerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpgin.SelectWinnerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/auto-shortlist": {
            "post": {
                "summary": "Auto-shortlist the lowest pending bids",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpgin.AutoShortlistResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "httpgin.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "httpgin.BidStatusResponse": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "bid_id": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "httpgin.RejectBidRequest": {
            "type": "object",
            "required": ["confirm"],
            "properties": {
                "confirm": {"type": "boolean"}
            }
        },
        "httpgin.SelectWinnerRequest": {
            "type": "object",
            "required": ["bid_id", "confirm"],
            "properties": {
                "bid_id": {"type": "string"},
                "confirm": {"type": "boolean"}
            }
        },
        "httpgin.SelectWinnerResponse": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "winner_bid_id": {"type": "string"},
                "event_status": {"type": "string"}
            }
        },
        "httpgin.AutoShortlistResponse": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "shortlisted": {"type": "integer"},
                "rejected": {"type": "integer"}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bids API",
	Description:      "Bid evaluation and selection service for event marketplaces.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

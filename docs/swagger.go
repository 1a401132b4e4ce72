// Package docs FeedCore API
//
// FeedCore ingests RSS, Atom and sitemap feeds, extracts and grades article
// content, and reports per-feed and system-wide health.
//
//	Schemes: http, https
//	Host: localhost:8080
//	BasePath: /api/v1
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs

import "github.com/swaggo/swag"

// @title FeedCore API
// @version 1.0
// @description Feed ingestion and content health service

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func init() {
	swag.Register(swag.Name, &swag.Spec{
		InfoInstanceName: "swagger",
		SwaggerTemplate:  docTemplate,
	})
}

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "FeedCore API",
        "description": "Feed ingestion and content health service",
        "version": "1.0.0",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        }
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "paths": {
        "/health": {
            "get": {
                "description": "Liveness check",
                "summary": "Health Check",
                "operationId": "healthCheck",
                "tags": ["Health"],
                "responses": {
                    "200": {
                        "description": "Service is healthy",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "status": {
                                    "type": "string",
                                    "example": "healthy"
                                },
                                "service": {
                                    "type": "string",
                                    "example": "feedcore"
                                },
                                "poller_active": {
                                    "type": "boolean"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/articles": {
            "get": {
                "description": "List recent articles, newest first. Blocked articles are excluded unless include_blocked is set or a lifecycle filter selects them.",
                "summary": "List Articles",
                "operationId": "listArticles",
                "tags": ["Articles"],
                "parameters": [
                    {
                        "name": "lifecycle",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "enum": ["queued", "processed", "blocked", "published"],
                        "description": "Filter by lifecycle stage"
                    },
                    {
                        "name": "source_id",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "Filter by source hostname"
                    },
                    {
                        "name": "include_blocked",
                        "in": "query",
                        "required": false,
                        "type": "boolean",
                        "description": "Include blocked articles in the listing"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "type": "integer",
                        "description": "Maximum number of results"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "required": false,
                        "type": "integer",
                        "description": "Number of results to skip"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Matching articles",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "articles": {
                                    "type": "array",
                                    "items": {
                                        "$ref": "#/definitions/Article"
                                    }
                                },
                                "count": {
                                    "type": "integer"
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "Invalid query parameters"
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/articles/{id}": {
            "get": {
                "description": "Get a single article by id",
                "summary": "Get Article",
                "operationId": "getArticle",
                "tags": ["Articles"],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Article id"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "The article",
                        "schema": {
                            "$ref": "#/definitions/Article"
                        }
                    },
                    "404": {
                        "description": "Article not found"
                    }
                }
            }
        },
        "/articles/{id}/extract": {
            "post": {
                "description": "Run extraction and quality grading for one article. Articles already carrying content are skipped unless force is set.",
                "summary": "Extract Article",
                "operationId": "extractArticle",
                "tags": ["Articles"],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Article id"
                    },
                    {
                        "name": "force",
                        "in": "query",
                        "required": false,
                        "type": "boolean",
                        "description": "Refetch even if content exists"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Extraction outcome",
                        "schema": {
                            "$ref": "#/definitions/ItemResult"
                        }
                    },
                    "404": {
                        "description": "Article not found"
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/ingest/run": {
            "post": {
                "description": "Poll every active feed for new items, then process one batch of queued articles",
                "summary": "Run Ingestion",
                "operationId": "runIngestion",
                "tags": ["Ingestion"],
                "responses": {
                    "200": {
                        "description": "Run summary",
                        "schema": {
                            "$ref": "#/definitions/RunResult"
                        }
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/feeds": {
            "get": {
                "description": "List registered feeds",
                "summary": "List Feeds",
                "operationId": "listFeeds",
                "tags": ["Feeds"],
                "parameters": [
                    {
                        "name": "active",
                        "in": "query",
                        "required": false,
                        "type": "boolean",
                        "description": "Only list active feeds"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Registered feeds",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "feeds": {
                                    "type": "array",
                                    "items": {
                                        "$ref": "#/definitions/Feed"
                                    }
                                },
                                "count": {
                                    "type": "integer"
                                }
                            }
                        }
                    }
                }
            },
            "post": {
                "description": "Register a new feed. The source id is derived from the URL host when not given.",
                "summary": "Register Feed",
                "operationId": "registerFeed",
                "tags": ["Feeds"],
                "parameters": [
                    {
                        "name": "feed",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FeedRegistration"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "The registered feed",
                        "schema": {
                            "$ref": "#/definitions/Feed"
                        }
                    },
                    "400": {
                        "description": "Invalid registration"
                    },
                    "409": {
                        "description": "URL already registered"
                    }
                }
            }
        },
        "/feeds/{id}": {
            "get": {
                "description": "Get a single feed with its health record",
                "summary": "Get Feed",
                "operationId": "getFeed",
                "tags": ["Feeds"],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Feed id"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "The feed",
                        "schema": {
                            "$ref": "#/definitions/Feed"
                        }
                    },
                    "404": {
                        "description": "Feed not found"
                    }
                }
            }
        },
        "/feeds/{id}/enable": {
            "post": {
                "description": "Reactivate a feed and clear its health record",
                "summary": "Enable Feed",
                "operationId": "enableFeed",
                "tags": ["Feeds"],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Feed id"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Feed enabled"
                    },
                    "404": {
                        "description": "Feed not found"
                    }
                }
            }
        },
        "/feeds/{id}/disable": {
            "post": {
                "description": "Deactivate a feed so it is no longer polled",
                "summary": "Disable Feed",
                "operationId": "disableFeed",
                "tags": ["Feeds"],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Feed id"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Feed disabled"
                    },
                    "404": {
                        "description": "Feed not found"
                    }
                }
            }
        },
        "/feeds/reset-health": {
            "post": {
                "description": "Restore disabled and errored feeds to healthy and clear failure streaks on all active feeds",
                "summary": "Reset Feed Health",
                "operationId": "resetFeedHealth",
                "tags": ["Feeds"],
                "responses": {
                    "200": {
                        "description": "Reset summary",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "message": {
                                    "type": "string"
                                },
                                "restored": {
                                    "type": "integer"
                                }
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/maintenance/orphans": {
            "post": {
                "description": "Delete articles whose source is no longer among the active feeds. Aborts when no feed is active unless force is set.",
                "summary": "Reconcile Orphans",
                "operationId": "reconcileOrphans",
                "tags": ["Maintenance"],
                "parameters": [
                    {
                        "name": "options",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "force": {
                                    "type": "boolean"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Reconciliation summary",
                        "schema": {
                            "$ref": "#/definitions/ReconcileResult"
                        }
                    },
                    "409": {
                        "description": "No active feeds and force not set"
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/maintenance/backfill": {
            "post": {
                "description": "Stamp publication time on processed articles that never received one",
                "summary": "Backfill Publication Times",
                "operationId": "backfillPublished",
                "tags": ["Maintenance"],
                "responses": {
                    "200": {
                        "description": "Backfill summary",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "message": {
                                    "type": "string"
                                },
                                "published": {
                                    "type": "integer"
                                }
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/monitoring/health": {
            "get": {
                "description": "Computed system health snapshot combining route probes, recent errors, queue depth and feed reliability",
                "summary": "Monitoring Snapshot",
                "operationId": "getMonitoringHealth",
                "tags": ["Monitoring"],
                "responses": {
                    "200": {
                        "description": "Health snapshot",
                        "schema": {
                            "$ref": "#/definitions/HealthSnapshot"
                        }
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/poller/status": {
            "get": {
                "description": "Background poller status",
                "summary": "Get Poller Status",
                "operationId": "getPollerStatus",
                "tags": ["Poller"],
                "responses": {
                    "200": {
                        "description": "Poller status",
                        "schema": {
                            "$ref": "#/definitions/PollerStatus"
                        }
                    }
                }
            }
        },
        "/poller/run": {
            "post": {
                "description": "Run one poller tick now: ingestion, publication backfill and store maintenance",
                "summary": "Run Poller Tick",
                "operationId": "runPollerTick",
                "tags": ["Poller"],
                "responses": {
                    "200": {
                        "description": "Run summary",
                        "schema": {
                            "$ref": "#/definitions/RunResult"
                        }
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        }
    },
    "definitions": {
        "Feed": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "source_id": {
                    "type": "string",
                    "description": "Hostname the feed's articles are attributed to"
                },
                "url": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": ["rss", "atom", "sitemap"]
                },
                "active": {
                    "type": "boolean"
                },
                "health_status": {
                    "type": "string",
                    "enum": ["healthy", "degraded", "error", "disabled"]
                },
                "health_reliability_score": {
                    "type": "integer",
                    "description": "0 to 100"
                },
                "health_consecutive_failures": {
                    "type": "integer"
                },
                "health_error_count_24h": {
                    "type": "integer"
                },
                "health_last_check": {
                    "type": "string",
                    "format": "date-time"
                },
                "last_error_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "FeedRegistration": {
            "type": "object",
            "required": ["url"],
            "properties": {
                "url": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": ["rss", "atom", "sitemap"],
                    "description": "Defaults to rss"
                },
                "source_id": {
                    "type": "string",
                    "description": "Derived from the URL host when omitted"
                }
            }
        },
        "Article": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "source_id": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "summary": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "language": {
                    "type": "string"
                },
                "quality_score": {
                    "type": "integer"
                },
                "low_quality": {
                    "type": "boolean"
                },
                "lifecycle": {
                    "type": "string",
                    "enum": ["queued", "processed", "blocked", "published"]
                },
                "fetch_error": {
                    "type": "string"
                },
                "published_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "last_fetched_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "ItemResult": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "PollResult": {
            "type": "object",
            "properties": {
                "feed_id": {
                    "type": "string"
                },
                "source_id": {
                    "type": "string"
                },
                "found": {
                    "type": "integer"
                },
                "inserted": {
                    "type": "integer"
                },
                "health_status": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "RunResult": {
            "type": "object",
            "properties": {
                "started_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "duration_ms": {
                    "type": "integer"
                },
                "feeds": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/PollResult"
                    }
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ItemResult"
                    }
                }
            }
        },
        "ReconcileResult": {
            "type": "object",
            "properties": {
                "deleted": {
                    "type": "integer"
                },
                "active_sources": {
                    "type": "integer"
                },
                "forced": {
                    "type": "boolean"
                }
            }
        },
        "RouteResult": {
            "type": "object",
            "properties": {
                "route": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "ok": {
                    "type": "boolean"
                },
                "latency_ms": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "HealthSnapshot": {
            "type": "object",
            "properties": {
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                },
                "health_score": {
                    "type": "integer",
                    "description": "0 to 100"
                },
                "queue": {
                    "type": "object",
                    "properties": {
                        "queued": {
                            "type": "integer"
                        },
                        "processed": {
                            "type": "integer"
                        },
                        "blocked": {
                            "type": "integer"
                        },
                        "published": {
                            "type": "integer"
                        }
                    }
                },
                "feeds": {
                    "type": "object",
                    "properties": {
                        "total": {
                            "type": "integer"
                        },
                        "active": {
                            "type": "integer"
                        },
                        "disabled": {
                            "type": "integer"
                        },
                        "mean_reliability": {
                            "type": "number"
                        }
                    }
                },
                "error_count_1h": {
                    "type": "integer"
                },
                "routes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/RouteResult"
                    }
                }
            }
        },
        "PollerStatus": {
            "type": "object",
            "properties": {
                "running": {
                    "type": "boolean"
                },
                "interval": {
                    "type": "string",
                    "example": "15m0s"
                },
                "last_run": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        }
    },
    "tags": [
        {
            "name": "Health",
            "description": "Liveness endpoints"
        },
        {
            "name": "Articles",
            "description": "Article listing and extraction"
        },
        {
            "name": "Ingestion",
            "description": "Manual pipeline triggers"
        },
        {
            "name": "Feeds",
            "description": "Feed registry and health"
        },
        {
            "name": "Maintenance",
            "description": "Orphan reconciliation and backfill"
        },
        {
            "name": "Monitoring",
            "description": "Aggregate health scoring"
        },
        {
            "name": "Poller",
            "description": "Background poller control"
        }
    ]
}`

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Hub API",
        "description": "Bulletin boards, factrak course reviews and ephmatch profiles",
        "version": "2.0.0"
    },
    "basePath": "/api/v2",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Autocomplete", "description": "Prefix suggestions"},
        {"name": "Bulletin", "description": "Discussions and posts"},
        {"name": "Factrak", "description": "Course and professor surveys"},
        {"name": "Factrak Catalog", "description": "Professors, courses and areas of study"},
        {"name": "Factrak Moderation", "description": "Flagged survey queue"},
        {"name": "Ephmatch", "description": "Matching opt-in state"}
    ],
    "paths": {
        "/autocomplete/{kind}": {
            "get": {
                "tags": ["Autocomplete"],
                "summary": "Autocomplete suggestions",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["area-of-study", "course", "professor", "tag", "factrak"]},
                    {"name": "q", "in": "query", "required": true, "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/bulletin/discussions": {
            "get": {
                "tags": ["Bulletin"],
                "summary": "List discussions, newest first",
                "parameters": [
                    {"$ref": "#/parameters/limit"},
                    {"$ref": "#/parameters/offset"},
                    {"name": "preload", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Bulletin"],
                "summary": "Start a discussion",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateThreadRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/bulletin/discussions/{id}": {
            "get": {"tags": ["Bulletin"], "summary": "Get a discussion", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "patch": {"tags": ["Bulletin"], "summary": "Rename a discussion", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["Bulletin"], "summary": "Delete a discussion and its posts", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}, "403": {"description": "Forbidden"}}}
        },
        "/bulletin/discussions/{id}/posts": {
            "get": {"tags": ["Bulletin"], "summary": "List posts in reading order", "parameters": [{"$ref": "#/parameters/id"}, {"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Bulletin"], "summary": "Reply to a discussion", "parameters": [{"$ref": "#/parameters/id"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PostRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/bulletin/posts/{id}": {
            "get": {"tags": ["Bulletin"], "summary": "Get a post", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Bulletin"], "summary": "Edit a post", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["Bulletin"], "summary": "Delete a post", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}, "403": {"description": "Forbidden"}}}
        },
        "/factrak/surveys": {
            "get": {
                "tags": ["Factrak"],
                "summary": "List surveys, newest first",
                "parameters": [
                    {"name": "professorID", "in": "query", "type": "string"},
                    {"name": "courseID", "in": "query", "type": "string"},
                    {"name": "areaOfStudyID", "in": "query", "type": "string"},
                    {"name": "populateAgreements", "in": "query", "type": "boolean"},
                    {"name": "populateClientAgreement", "in": "query", "type": "boolean"},
                    {"$ref": "#/parameters/limit"},
                    {"$ref": "#/parameters/offset"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Factrak"],
                "summary": "Submit a new survey",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SurveyRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "409": {"description": "Duplicate survey"}}
            }
        },
        "/factrak/surveys/{id}": {
            "get": {"tags": ["Factrak"], "summary": "Get a survey", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Factrak"], "summary": "Edit a survey", "parameters": [{"$ref": "#/parameters/id"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SurveyRequest"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["Factrak"], "summary": "Delete a survey", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/factrak/surveys/{id}/flag": {
            "post": {"tags": ["Factrak"], "summary": "Flag a survey", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/factrak/surveys/{id}/unflag": {
            "post": {"tags": ["Factrak Moderation"], "summary": "Clear the flag of a survey", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/factrak/surveys/{id}/agreement": {
            "post": {"tags": ["Factrak"], "summary": "Agree or disagree", "parameters": [{"$ref": "#/parameters/id"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AgreementRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Factrak"], "summary": "Withdraw a vote", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/factrak/flagged": {
            "get": {"tags": ["Factrak Moderation"], "summary": "List flagged surveys, oldest first", "parameters": [{"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/factrak/flagged/{id}": {
            "delete": {"tags": ["Factrak Moderation"], "summary": "Remove a flagged survey", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/factrak/flagged/export": {
            "get": {"tags": ["Factrak Moderation"], "summary": "Download the moderation queue", "produces": ["text/csv", "application/pdf"], "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}], "responses": {"200": {"description": "File"}}}
        },
        "/factrak/professors": {"get": {"tags": ["Factrak Catalog"], "summary": "List professors", "responses": {"200": {"description": "OK"}}}},
        "/factrak/professors/{id}": {"get": {"tags": ["Factrak Catalog"], "summary": "Get a professor with ratings", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}},
        "/factrak/courses": {"get": {"tags": ["Factrak Catalog"], "summary": "List courses", "responses": {"200": {"description": "OK"}}}},
        "/factrak/courses/{id}": {"get": {"tags": ["Factrak Catalog"], "summary": "Get a course", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}},
        "/factrak/areas-of-study": {"get": {"tags": ["Factrak Catalog"], "summary": "List areas of study", "responses": {"200": {"description": "OK"}}}},
        "/factrak/areas-of-study/{id}": {"get": {"tags": ["Factrak Catalog"], "summary": "Get an area of study", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}},
        "/ephmatch/profile/self": {
            "get": {"tags": ["Ephmatch"], "summary": "Get my profile", "responses": {"200": {"description": "OK"}, "404": {"description": "No profile"}}},
            "delete": {"tags": ["Ephmatch"], "summary": "Leave ephmatch", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Ephmatch"], "summary": "Rejoin ephmatch", "responses": {"200": {"description": "OK"}}}
        }
    },
    "parameters": {
        "id": {"name": "id", "in": "path", "required": true, "type": "string"},
        "limit": {"name": "limit", "in": "query", "type": "integer"},
        "offset": {"name": "offset", "in": "query", "type": "integer"}
    },
    "definitions": {
        "CreateThreadRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {"title": {"type": "string"}, "content": {"type": "string"}}
        },
        "PostRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"content": {"type": "string"}}
        },
        "SurveyRequest": {
            "type": "object",
            "properties": {
                "professorID": {"type": "string"},
                "areaOfStudyAbbreviation": {"type": "string"},
                "courseNumber": {"type": "string"},
                "courseWorkload": {"type": "integer", "minimum": 1, "maximum": 7},
                "approachability": {"type": "integer", "minimum": 1, "maximum": 7},
                "leadLecture": {"type": "integer", "minimum": 1, "maximum": 7},
                "promoteDiscussion": {"type": "integer", "minimum": 1, "maximum": 7},
                "outsideHelpfulness": {"type": "integer", "minimum": 1, "maximum": 7},
                "wouldRecommendCourse": {"type": "boolean"},
                "wouldTakeAnother": {"type": "boolean"},
                "comment": {"type": "string", "minLength": 100}
            }
        },
        "AgreementRequest": {
            "type": "object",
            "required": ["agrees"],
            "properties": {"agrees": {"type": "boolean"}}
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "paginationTotal": {"type": "integer"},
                "error": {"$ref": "#/definitions/APIError"},
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

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers the Swagger UI and the OpenAPI document.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>mailcraft API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "mailcraft", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Config": { "type": "object", "properties": {
        "variables": { "type": "object", "additionalProperties": { "type": "string" } },
        "images": { "type": "array", "items": { "type": "string" } },
        "styles": { "type": "object", "additionalProperties": { "type": "string" } },
        "sections": { "type": "array", "items": { "type": "string", "enum": ["title","image","content","footer"] } } } },
      "Template": { "type": "object", "properties": {
        "id": { "type": "string" }, "name": { "type": "string" }, "layout": { "type": "string" },
        "config": { "$ref": "#/components/schemas/Config" }, "createdAt": { "type": "string", "format": "date-time" } } },
      "Op": { "type": "object", "properties": {
        "op": { "type": "string", "enum": ["setName","setLayout","setContent","setStyle","setBackground","moveSection"] },
        "section": { "type": "string" }, "property": { "type": "string", "enum": ["Color","Size","Alignment"] },
        "value": { "type": "string" }, "from": { "type": "integer" }, "to": { "type": "integer" } } }
    }
  },
  "paths": {
    "/api/uploadEmailConfig": {
      "post": {
        "summary": "Save a template from a projected config or a live document",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "name": { "type": "string" }, "layout": { "type": "string" }, "config": { "$ref": "#/components/schemas/Config" }, "document": { "type": "object" } } } } } },
        "responses": { "200": { "description": "template saved" }, "400": { "description": "invalid document" } }
      }
    },
    "/api/renderAndDownloadTemplate": {
      "post": {
        "summary": "Render a saved template as an HTML attachment",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "templateId": { "type": "string" } } } } } },
        "responses": { "200": { "description": "text/html attachment" }, "404": { "description": "Template not found" } }
      }
    },
    "/api/uploadImage": {
      "post": {
        "summary": "Upload an image (field image or file)",
        "requestBody": { "content": { "multipart/form-data": { "schema": { "type": "object", "properties": { "image": { "type": "string", "format": "binary" } } } } } },
        "responses": { "200": { "description": "imageUrl returned" }, "400": { "description": "missing or unsupported file" }, "413": { "description": "too large" } }
      }
    },
    "/api/getEmailLayout": {
      "get": { "summary": "Get a layout skeleton", "parameters": [ { "name": "name", "in": "query", "schema": { "type": "string", "default": "default.html" } } ], "responses": { "200": { "description": "layout text" }, "404": { "description": "Layout not found" } } }
    },
    "/api/layouts": { "get": { "summary": "List layouts", "responses": { "200": { "description": "layout entries" } } } },
    "/api/templates": { "get": { "summary": "List templates, newest first", "responses": { "200": { "description": "templates" } } } },
    "/api/templates/{id}": {
      "get": { "summary": "Get a template", "responses": { "200": { "description": "template" }, "404": { "description": "Template not found" } } },
      "delete": { "summary": "Delete a template", "responses": { "204": { "description": "deleted" }, "404": { "description": "Template not found" } } }
    },
    "/api/templates/{id}/render": { "get": { "summary": "Render a template inline", "responses": { "200": { "description": "text/html" }, "404": { "description": "Template not found" } } } },
    "/api/templates/{id}/renders": { "get": { "summary": "Recent renders of a template", "responses": { "200": { "description": "render records" } } } },
    "/api/templates/{id}/edit": { "post": { "summary": "Open a saved template in a new draft", "responses": { "201": { "description": "draft" } } } },
    "/api/drafts": { "post": { "summary": "Start a draft", "responses": { "201": { "description": "draft" } } } },
    "/api/drafts/{id}": {
      "get": { "summary": "Get a draft", "responses": { "200": { "description": "draft" }, "404": { "description": "Draft not found" } } },
      "patch": { "summary": "Apply one editor operation", "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Op" } } } }, "responses": { "200": { "description": "updated draft" }, "400": { "description": "rejected operation" } } },
      "delete": { "summary": "Discard a draft", "responses": { "204": { "description": "deleted" } } }
    },
    "/api/drafts/{id}/preview": { "get": { "summary": "Render the draft without saving", "responses": { "200": { "description": "text/html" } } } },
    "/api/drafts/{id}/save": { "post": { "summary": "Save the draft as a template", "responses": { "200": { "description": "draft and template" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`

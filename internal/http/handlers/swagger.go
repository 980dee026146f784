package handlers

import "github.com/gin-gonic/gin"

const swaggerUIHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>accountd API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
    <style>
      body { margin: 0; background: #f8fafc; }
      #swagger-ui { max-width: 1200px; margin: 0 auto; }
    </style>
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: "/docs/openapi.yaml",
        dom_id: "#swagger-ui",
        deepLinking: true,
        presets: [SwaggerUIBundle.presets.apis],
        layout: "BaseLayout"
      });
    </script>
  </body>
</html>`

const openAPIYAML = `openapi: 3.0.3
info:
  title: accountd
  description: Minimal credential-management service. Register users, log in, carry a signed session cookie, list and deactivate accounts.
  version: "1.0"
paths:
  /register:
    post:
      summary: Register a new user
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [username, password]
              properties:
                username:
                  type: string
                  minLength: 4
                  maxLength: 20
                  pattern: "^[a-zA-Z0-9_]+$"
                password:
                  type: string
                  minLength: 8
      responses:
        "201":
          description: Created
          content:
            application/json:
              schema:
                type: object
                properties:
                  id: { type: string }
                  username: { type: string }
                  createdAt: { type: string, format: date-time }
        "400":
          description: Validation failure or username already in use
        "500":
          description: Unexpected failure
  /login:
    post:
      summary: Verify credentials and issue a session cookie
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [username, password]
              properties:
                username: { type: string }
                password: { type: string }
      responses:
        "200":
          description: Session cookie set
          headers:
            Set-Cookie:
              schema: { type: string }
        "401":
          description: Bad credentials (unknown user and wrong password are indistinguishable)
  /profile:
    get:
      summary: Return the identity decoded from the session token
      responses:
        "200":
          description: Decoded claims
        "401":
          description: Missing, invalid or expired session
  /logout:
    post:
      summary: Clear the session cookie
      responses:
        "200":
          description: Cookie cleared (issued tokens stay valid until expiry)
  /users:
    get:
      summary: List active users, newest first
      responses:
        "200":
          description: Active users without password hashes
          content:
            application/json:
              schema:
                type: array
                items:
                  type: object
                  properties:
                    id: { type: string }
                    username: { type: string }
                    active: { type: boolean }
                    createdAt: { type: string, format: date-time }
        "500":
          description: Unexpected failure
  /users/{id}/deactivate:
    put:
      summary: Deactivate a user
      parameters:
        - name: id
          in: path
          required: true
          schema: { type: string }
      responses:
        "200":
          description: Deactivated
        "404":
          description: No such user
        "500":
          description: Unexpected failure
  /healthz:
    get:
      summary: Liveness probe
      responses:
        "200": { description: OK }
  /readyz:
    get:
      summary: Readiness probe (pings the store)
      responses:
        "200": { description: Ready }
        "503": { description: Store unreachable }
`

func SwaggerUI(ctx *gin.Context) {
	ctx.Data(200, "text/html; charset=utf-8", []byte(swaggerUIHTML))
}

func OpenAPISpec(ctx *gin.Context) {
	ctx.Data(200, "application/yaml; charset=utf-8", []byte(openAPIYAML))
}

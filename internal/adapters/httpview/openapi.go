package httpview

// openapiDocument describes the read-only introspection surface this
// server exposes. It is embedded as a string, validated at startup with
// kin-openapi, and served verbatim from /openapi.yaml, rather than driving
// a go:generate step (the teacher's original approach is unavailable in
// this environment).
const openapiDocument = `
openapi: 3.0.3
info:
  title: signalmesh introspection API
  version: "1.0"
paths:
  /signals:
    get:
      operationId: listSignals
      responses:
        "200":
          description: every currently registered signal
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/SignalSummary"
  /signals/{id}/value:
    get:
      operationId: getSignalValue
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: the signal's current value and flags
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/SignalSummary"
        "404":
          description: no such signal
  /signals/{id}/graph:
    get:
      operationId: getSignalGraph
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: the signal's dependency graph
        "404":
          description: no such signal
components:
  schemas:
    SignalSummary:
      type: object
      required: [id, value, blocked, glitchAvoidance]
      properties:
        id:
          type: string
        value:
          type: integer
          format: int64
        blocked:
          type: boolean
        glitchAvoidance:
          type: boolean
`

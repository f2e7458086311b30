package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sistema Pagamento API",
        "description": "Student payment records with PDF receipts",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Estudantes", "description": "Student registry"},
        {"name": "Pagamentos", "description": "Payments, receipts and exports"},
        {"name": "Ops", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {"tags": ["Ops"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness check",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "A dependency is unavailable"}}
            }
        },
        "/metrics": {
            "get": {"tags": ["Ops"], "summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}}}
        },
        "/estudantes": {
            "get": {
                "tags": ["Estudantes"],
                "summary": "List students",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentList"}}}
            },
            "post": {
                "tags": ["Estudantes"],
                "summary": "Register a student",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Code already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/estudantes/{codigo}": {
            "get": {
                "tags": ["Estudantes"],
                "summary": "Get a student by code",
                "parameters": [{"in": "path", "name": "codigo", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/estudantes/{codigo}/pagamentos": {
            "get": {
                "tags": ["Pagamentos"],
                "summary": "List payments of a student",
                "parameters": [{"in": "path", "name": "codigo", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/PaymentList"}}}
            }
        },
        "/estudantesPorPrograma": {
            "get": {
                "tags": ["Estudantes"],
                "summary": "List students of a program",
                "parameters": [{"in": "query", "name": "programaId", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentList"}}}
            }
        },
        "/pagamento": {
            "post": {
                "tags": ["Pagamentos"],
                "summary": "Record a payment with its receipt",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "file", "required": true, "type": "file"},
                    {"in": "formData", "name": "valor", "required": true, "type": "number"},
                    {"in": "formData", "name": "tipoPagamento", "required": true, "type": "string", "enum": ["DINHEIRO", "CHEQUE", "TRANSFERENCIA", "DEPOSITO"]},
                    {"in": "formData", "name": "data", "required": true, "type": "string", "format": "date"},
                    {"in": "formData", "name": "codigoEstudante", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Receipt too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Receipt could not be stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pagamento/porStatus": {
            "get": {
                "tags": ["Pagamentos"],
                "summary": "List payments by status",
                "parameters": [{"in": "query", "name": "pagamentoStatus", "required": true, "type": "string", "enum": ["CRIADO", "VALIDADO", "RECUSADO"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/PaymentList"}}}
            }
        },
        "/pagamento/porTipo": {
            "get": {
                "tags": ["Pagamentos"],
                "summary": "List payments by type",
                "parameters": [{"in": "query", "name": "tipoPagamento", "required": true, "type": "string", "enum": ["DINHEIRO", "CHEQUE", "TRANSFERENCIA", "DEPOSITO"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/PaymentList"}}}
            }
        },
        "/pagamento/{pagamentoId}/atualizarPagamento": {
            "put": {
                "tags": ["Pagamentos"],
                "summary": "Overwrite the status of a payment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "pagamentoId", "required": true, "type": "integer"},
                    {"in": "query", "name": "pagamentoStatus", "required": true, "type": "string", "enum": ["CRIADO", "VALIDADO", "RECUSADO"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Role not allowed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pagamentos": {
            "get": {
                "tags": ["Pagamentos"],
                "summary": "List payments",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/PaymentList"}}}
            }
        },
        "/pagamentos/export": {
            "get": {
                "tags": ["Pagamentos"],
                "summary": "Export payments as CSV, PDF or XLSX",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf", "xlsx"]},
                    {"in": "query", "name": "pagamentoStatus", "type": "string"},
                    {"in": "query", "name": "tipoPagamento", "type": "string"},
                    {"in": "query", "name": "codigoEstudante", "type": "string"}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/pagamentos/{id}": {
            "get": {
                "tags": ["Pagamentos"],
                "summary": "Get a payment by id",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pagamentoArquivo/{pagamentoId}": {
            "get": {
                "tags": ["Pagamentos"],
                "summary": "Download the receipt of a payment",
                "produces": ["application/pdf"],
                "parameters": [{"in": "path", "name": "pagamentoId", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "Receipt bytes", "schema": {"type": "file"}},
                    "404": {"description": "Payment or receipt missing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "nome": {"type": "string"},
                "sobrenome": {"type": "string"},
                "codigo": {"type": "string"},
                "programaId": {"type": "string"},
                "foto": {"type": "string"}
            }
        },
        "Payment": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "data": {"type": "string", "format": "date"},
                "valor": {"type": "number"},
                "tipoPagamento": {"type": "string", "enum": ["DINHEIRO", "CHEQUE", "TRANSFERENCIA", "DEPOSITO"]},
                "pagamentoStatus": {"type": "string", "enum": ["CRIADO", "VALIDADO", "RECUSADO"]},
                "file": {"type": "string"},
                "estudante": {"$ref": "#/definitions/Student"}
            }
        },
        "RegisterStudentRequest": {
            "type": "object",
            "required": ["nome", "sobrenome", "codigo", "programaId"],
            "properties": {
                "nome": {"type": "string"},
                "sobrenome": {"type": "string"},
                "codigo": {"type": "string"},
                "programaId": {"type": "string"},
                "foto": {"type": "string"}
            }
        },
        "StudentList": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Student"}},
                "meta": {"type": "object"}
            }
        },
        "PaymentList": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Payment"}},
                "meta": {"type": "object"}
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

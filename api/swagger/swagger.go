package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Records API",
        "description": "Academic records backend: identities, grades, requests, evaluations and ledgers",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Registration, login and self profile"},
        {"name": "Admin", "description": "Account management, platform stats and course loads"},
        {"name": "Teacher", "description": "Course loads, grades and attendance"},
        {"name": "Student", "description": "Grades, attendance, requests, evaluations and balance"},
        {"name": "Registrar", "description": "Student records, grade workflow, requests and documents"},
        {"name": "Dean", "description": "Institution-wide oversight"},
        {"name": "Department", "description": "Department-scoped views"},
        {"name": "HR", "description": "Evaluations, periods and questionnaires"},
        {"name": "Accounting", "description": "Fees, payments and statements"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current identity",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Admin"],
                "summary": "List accounts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete an account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Platform statistics",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/course-loads": {
            "get": {
                "tags": ["Admin"],
                "summary": "List course loads",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Assign a course load",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseLoadRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Schedule conflict"}
                }
            }
        },
        "/teacher/course-loads": {
            "get": {
                "tags": ["Teacher"],
                "summary": "My course loads",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/grades": {
            "post": {
                "tags": ["Teacher"],
                "summary": "Submit a grade",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitGradeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/attendance": {
            "post": {
                "tags": ["Teacher"],
                "summary": "Mark attendance",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/stats": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Teacher statistics",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/grades": {
            "get": {
                "tags": ["Student"],
                "summary": "My grades",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/attendance": {
            "get": {
                "tags": ["Student"],
                "summary": "My attendance",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/requests": {
            "get": {
                "tags": ["Student"],
                "summary": "My document requests",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Student"],
                "summary": "File a document request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRequestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/evaluations": {
            "post": {
                "tags": ["Student"],
                "summary": "Evaluate a teacher",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitEvaluationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Already evaluated"}
                }
            }
        },
        "/student/balance": {
            "get": {
                "tags": ["Student"],
                "summary": "My balance",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrar/students": {
            "get": {
                "tags": ["Registrar"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrar/students/{id}": {
            "put": {
                "tags": ["Registrar"],
                "summary": "Update a student record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/registrar/grades": {
            "get": {
                "tags": ["Registrar"],
                "summary": "Grades awaiting disposition",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrar/grades/{id}": {
            "put": {
                "tags": ["Registrar"],
                "summary": "Dispose a grade",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DisposeGradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid state transition"}
                }
            }
        },
        "/registrar/requests": {
            "get": {
                "tags": ["Registrar"],
                "summary": "Requests awaiting resolution",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrar/requests/{id}": {
            "put": {
                "tags": ["Registrar"],
                "summary": "Resolve a document request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResolveRequestRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Already resolved"}
                }
            }
        },
        "/registrar/documents": {
            "get": {
                "tags": ["Registrar"],
                "summary": "List documents",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Registrar"],
                "summary": "Upload a document",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/grades": {
            "get": {
                "tags": ["Dean"],
                "summary": "All grades",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/course-loads": {
            "get": {
                "tags": ["Dean"],
                "summary": "All course loads",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/department/students": {
            "get": {
                "tags": ["Department"],
                "summary": "Department students",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/department/grades": {
            "get": {
                "tags": ["Department"],
                "summary": "Department grades",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/hr/teachers": {
            "get": {
                "tags": ["HR"],
                "summary": "Teacher directory",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/hr/evaluations": {
            "get": {
                "tags": ["HR"],
                "summary": "All evaluations",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/hr/evaluation-periods": {
            "get": {
                "tags": ["HR"],
                "summary": "List evaluation periods",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["HR"],
                "summary": "Open an evaluation period",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEvaluationPeriodRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/hr/evaluation-questions": {
            "post": {
                "tags": ["HR"],
                "summary": "Add a questionnaire item",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEvaluationQuestionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/accounting/fees": {
            "post": {
                "tags": ["Accounting"],
                "summary": "Post a fee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFeeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/accounting/payments": {
            "get": {
                "tags": ["Accounting"],
                "summary": "All payments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Accounting"],
                "summary": "Post a payment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/accounting/payments/export": {
            "get": {
                "tags": ["Accounting"],
                "summary": "Payments CSV export",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/accounting/balance/{id}": {
            "get": {
                "tags": ["Accounting"],
                "summary": "Student balance",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/accounting/statement/{id}": {
            "get": {
                "tags": ["Accounting"],
                "summary": "Student statement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/accounting/statement/{id}/pdf": {
            "get": {
                "tags": ["Accounting"],
                "summary": "Student statement PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "username", "password", "role", "first_name", "last_name"],
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "program": {"type": "string"},
                "year_level": {"type": "integer"},
                "department": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateCourseLoadRequest": {
            "type": "object",
            "required": ["teacher_id", "subject_id", "section", "schedule", "room", "semester", "school_year"],
            "properties": {
                "teacher_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "section": {"type": "string"},
                "schedule": {"type": "string"},
                "room": {"type": "string"},
                "semester": {"type": "string"},
                "school_year": {"type": "string"}
            }
        },
        "SubmitGradeRequest": {
            "type": "object",
            "required": ["load_id", "student_id", "grading_period", "score"],
            "properties": {
                "load_id": {"type": "string"},
                "student_id": {"type": "string"},
                "grading_period": {"type": "string", "enum": ["Prelim", "Midterm", "Finals"]},
                "score": {"type": "number"},
                "remarks": {"type": "string"}
            }
        },
        "DisposeGradeRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["Approved", "Rejected", "Locked"]}
            }
        },
        "RecordAttendanceRequest": {
            "type": "object",
            "required": ["load_id", "student_id", "date", "status"],
            "properties": {
                "load_id": {"type": "string"},
                "student_id": {"type": "string"},
                "date": {"type": "string"},
                "status": {"type": "string", "enum": ["Present", "Absent", "Late"]}
            }
        },
        "CreateRequestRequest": {
            "type": "object",
            "required": ["request_type"],
            "properties": {
                "request_type": {"type": "string", "enum": ["TOR", "COG", "GradeChange", "SubjectDrop"]},
                "reason": {"type": "string"}
            }
        },
        "ResolveRequestRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["Approved", "Rejected"]}
            }
        },
        "SubmitEvaluationRequest": {
            "type": "object",
            "required": ["teacher_id", "load_id", "q1_score", "q2_score", "q3_score", "q4_score", "q5_score"],
            "properties": {
                "teacher_id": {"type": "string"},
                "load_id": {"type": "string"},
                "q1_score": {"type": "integer"},
                "q2_score": {"type": "integer"},
                "q3_score": {"type": "integer"},
                "q4_score": {"type": "integer"},
                "q5_score": {"type": "integer"},
                "comment": {"type": "string"}
            }
        },
        "CreateEvaluationPeriodRequest": {
            "type": "object",
            "required": ["name", "start_date", "end_date"],
            "properties": {
                "name": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"}
            }
        },
        "CreateEvaluationQuestionRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "text": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "program": {"type": "string"},
                "year_level": {"type": "integer"},
                "section": {"type": "string"},
                "enrollment_status": {"type": "string", "enum": ["Enrolled", "Dropped", "OnLeave"]}
            }
        },
        "CreateFeeRequest": {
            "type": "object",
            "required": ["student_id", "amount", "description"],
            "properties": {
                "student_id": {"type": "string"},
                "amount": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "CreatePaymentRequest": {
            "type": "object",
            "required": ["student_id", "amount", "date"],
            "properties": {
                "student_id": {"type": "string"},
                "amount": {"type": "string"},
                "date": {"type": "string"}
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

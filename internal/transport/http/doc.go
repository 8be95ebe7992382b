// Package http implements the HTTP handlers of the sales analyzer web shell.
// Handlers stay thin: they parse the request, call a service and format the
// response.
//
// # Endpoints
//
//	POST /api/reports        multipart upload (field "file") → report download
//	GET  /api/health         overall status
//	GET  /api/health/ready   output directory writable
//	GET  /api/health/live    process alive
//	GET  /api/version        build and report format versions
//	GET  /metrics            Prometheus scrape endpoint
//
// POST /api/reports answers with the encoded report as an attachment. Clients
// sending "Accept: application/json" get the assembled report as JSON instead.
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details and are produced by
// errors.ErrorHandler:
//
//	{
//	    "type": "/errors/invalid-input",
//	    "title": "Unprocessable Entity",
//	    "status": 422,
//	    "detail": "[INVALID_INPUT] load: negative price",
//	    "stage": "load",
//	    "details": {"row": 4, "column": "price"}
//	}
package http

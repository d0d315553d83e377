// Package api defines the wire-level types of the docqa service:
// the error taxonomy returned by every endpoint and the JSON response
// payloads.
//
// Errors carry a machine-readable type so the transport layer can map
// them to HTTP status codes without string matching:
//
//   - [ErrorTypeInvalidRequest]: malformed parameters (400)
//   - [ErrorTypeUnauthorized]: bad credentials or invalid token (401)
//   - [ErrorTypeForbidden]: disabled account (403)
//   - [ErrorTypeNotFound]: empty retrieval result (404)
//   - [ErrorTypeUnsupportedFormat]: unrecognized document container (400)
//   - [ErrorTypeUpstream]: embedding/vector-store/completion failure (502)
//   - [ErrorTypeProcessing]: collapsed ingestion failure (500)
package api

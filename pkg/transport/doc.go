// Package transport provides HTTP-level middleware and error rendering
// shared by the HTTP adapter: panic recovery, request ID propagation,
// structured request logging, and the mapping from typed API errors to
// HTTP status codes.
package transport

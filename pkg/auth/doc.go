// Package auth implements the service's bearer-token authentication:
// password verification against the user store, a chain of authenticators
// with three-outcome voting (Yes / No / Abstain), HTTP middleware that
// injects the authenticated identity into the request context, and an
// in-process rate limiter.
//
// Token issuing and validation live in the nested token package.
package auth

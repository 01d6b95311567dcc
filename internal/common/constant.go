// Package common contains shared constants and sentinel errors used across
// blocksearch components.
package common

// RequestIDHeader is the HTTP header carrying the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

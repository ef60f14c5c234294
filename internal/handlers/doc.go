// Package handlers declares the dashboard and JSON API routes over a
// campaign session, and the error handler that renders their failures.
package handlers

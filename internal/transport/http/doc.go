// Package http implements the HTTP handlers of the campaign dashboard
// API. Handlers stay thin: they parse the request, delegate to the
// service layer and render the result, converting service errors into
// RFC 7807 problem responses.
package http

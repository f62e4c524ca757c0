// Package http exposes the repository sync engine over a REST API.
//
// Routes are wired in routes.go. Every request gets a trace id and an access
// log line; repository listings are gzip compressed. Live sync results,
// add-repository states and cache snapshots are streamed over a WebSocket at
// /api/events.
package http

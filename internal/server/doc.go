// Package server runs the HTTP control API, including signal handling and
// graceful shutdown.
package server

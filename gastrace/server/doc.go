// Package server runs the HTTP surface with signal-driven graceful shutdown.
package server

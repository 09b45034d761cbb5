// Package handlers implements the folio API endpoints: newsletter
// subscription, the chat proxy and the health check.
package handlers

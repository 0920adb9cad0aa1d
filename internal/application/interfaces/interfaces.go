package interfaces

import "net/http"

// HTTPHandler is the surface the transport layer exposes to main.
type HTTPHandler interface {
	http.Handler
}

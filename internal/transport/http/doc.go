// Package http implements the HTTP handlers of the salescli web service. It
// is a thin layer between chi and the services package: handlers parse and
// validate requests, call one service method and render the result.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                            ↓
//	HTTP Response ← Handler ← Service Response ←┘
//
// # Errors
//
// Handlers never format errors themselves. Every failure goes through
// errors.ErrorHandler, which renders RFC 7807 problem details:
//
//	result, err := h.service.Average(r.Context(), req.Files, req.ID)
//	if err != nil {
//		h.errorHandler.HandleError(w, r, err)
//		return
//	}
//	render.JSON(w, r, result)
//
// # Testing
//
// Handlers depend on the small interfaces in interfaces.go so tests can use
// testify mocks instead of real services.
package http

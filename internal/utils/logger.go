package utils

import (
	"log"
	"strings"
)

// LogEvent prints one standardized line per back-office action, keyed by
// module (quotes, aircraft, docs, ...) and the request id from the gateway.
// Keep messages short; never log client contact details or quote pricing.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}

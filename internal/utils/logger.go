package utils

import (
	"log"
	"strings"
)

// LogEvent prints one "[MODULE] action=... request_id=... msg=..." line.
// Keep msg to ids and counts; never log request bodies or credentials.
func LogEvent(requestID, module, action, message string) {
	log.Printf("[%s] action=%s request_id=%s msg=%s",
		strings.ToUpper(module), action, strings.TrimSpace(requestID), message)
}

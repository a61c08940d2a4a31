package provider

import (
	"log"
	"time"
)

// LogRequest logs a provider request being made.
func LogRequest(provider, operation, subject string) {
	if subject != "" {
		log.Printf("[%s] %s subject=%s", provider, operation, subject)
	} else {
		log.Printf("[%s] %s", provider, operation)
	}
}

// LogEvent logs a session change event being emitted.
func LogEvent(provider string, ev Event) {
	log.Printf("[%s] event %s user=%s", provider, ev.Type, ev.UserID)
}

// LogError logs an error from a provider operation.
func LogError(provider, operation string, err error) {
	log.Printf("[%s] %s error: %v", provider, operation, err)
}

// LogSweep logs an expiry sweep pass.
func LogSweep(provider string, removed int, duration time.Duration) {
	log.Printf("[%s] expired %d sessions in %dms", provider, removed, duration.Milliseconds())
}

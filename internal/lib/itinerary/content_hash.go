package itinerary

import (
	"crypto/sha256"
	"fmt"
)

// PayloadHash creates a content hash for a payload so identical payloads can
// share one build. Only the field the payload's kind builds from is hashed,
// byte for byte; the ID does not affect geometry.
func PayloadHash(p Payload) string {
	var source string
	switch p.Kind() {
	case PayloadFlat:
		source = p.OverviewPolyline
	case PayloadStructured:
		source = p.Route
	}

	contentSignature := fmt.Sprintf("%s:%d:%s", p.Kind(), len(source), source)

	hash := sha256.Sum256([]byte(contentSignature))
	return fmt.Sprintf("%x", hash)
}

package redisx

import "time"

const (
	// Email confirmation code: emailcode:{email} -> 6-digit code.
	// Codes expire after 3 minutes, matching the message shown to the user.
	KeyEmailCode = "emailcode:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLEmailCode = 3 * time.Minute
	TTLDedup     = 48 * time.Hour
)

// Package store persists the authenticated session's token pair in durable
// client storage. Implementations absorb storage faults: a missing,
// corrupt, or unavailable medium reads back as an absent record and writes
// no-op rather than failing the caller.
package store

// Audience distinguishes the storage key used for each principal class so a
// customer login and an administrative login never clobber each other.
type Audience string

const (
	AudienceCustomer Audience = "customer"
	AudienceAdmin    Audience = "admin"
)

// Record is the persisted token pair. Token mirrors Access under the legacy
// field name; older releases stored only that field, so Load falls back to
// it when Access is empty.
type Record struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Token   string `json:"token"`
}

// Repo is the single persistence surface for session tokens.
type Repo interface {
	// Load returns the persisted record, or nil if none is readable.
	Load() (*Record, error)
	// Save persists the record as one atomic write.
	Save(record *Record) error
	// Clear removes the record. Clearing an absent record is not an error.
	Clear() error
}

// KeyForAudience returns the fixed storage key for a principal class.
func KeyForAudience(audience Audience) string {
	if audience == AudienceAdmin {
		return "craftsite.auth.admin"
	}
	return "craftsite.auth.customer"
}

// normalize resolves the legacy alias in both directions so every saved
// record carries both fields and every loaded record has Access set.
func normalize(record *Record) *Record {
	if record == nil {
		return nil
	}
	if record.Access == "" {
		record.Access = record.Token
	}
	record.Token = record.Access
	if record.Access == "" {
		return nil
	}
	return record
}

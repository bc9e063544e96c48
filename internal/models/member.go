package models

import (
	"strings"
	"time"
)

// Marital status values accepted on input. Stored with the caller's original
// casing; all comparisons are case-insensitive.
const (
	MaritalSingle  = "single"
	MaritalMarried = "married"
	MaritalWidowed = "widowed"
	MaritalOther   = "other"
)

// ValidMaritalStatus reports whether s is one of the accepted marital status
// values, ignoring case. The empty string is not valid.
func ValidMaritalStatus(s string) bool {
	switch strings.ToLower(s) {
	case MaritalSingle, MaritalMarried, MaritalWidowed, MaritalOther:
		return true
	}
	return false
}

// Member is a registry record. A member lives in exactly one of the members
// or trash_members tables at any time; DeletedAt is set only for trash rows.
type Member struct {
	ID             int64
	FullName       string
	Age            *int // NULL when unknown
	DOB            time.Time
	Residence      string
	GPSAddress     string
	PhoneNumber    string
	AltPhoneNumber string
	Nationality    string
	MaritalStatus  string
	JoiningDate    time.Time
	Avatar         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// MemberFilter narrows List results. Zero values mean "no constraint".
type MemberFilter struct {
	Search        string // substring match across name, phone, residence
	MaritalStatus string
	MinAge        *int // inclusive
	MaxAge        *int // inclusive
	Trash         bool // list the trash table instead of the active one
}

// MemberStats is the aggregate over the active table. Members with a NULL
// age count toward Total but neither Kids nor Adults.
type MemberStats struct {
	Total   int64 `json:"total"`
	Kids    int64 `json:"kids"`
	Adults  int64 `json:"adults"`
	Singles int64 `json:"singles"`
	Married int64 `json:"married"`
	Widows  int64 `json:"widows"`
}

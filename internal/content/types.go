package content

import "time"

// Platform is a publishing destination.
type Platform string

const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformTwitter  Platform = "twitter"
	PlatformEmail    Platform = "email"
	PlatformTikTok   Platform = "tiktok"
	PlatformBluesky  Platform = "bluesky"
)

// KnownPlatform reports whether p is one of the accepted destinations.
func KnownPlatform(p Platform) bool {
	switch p {
	case PlatformLinkedIn, PlatformTwitter, PlatformEmail, PlatformTikTok, PlatformBluesky:
		return true
	default:
		return false
	}
}

// Status is the review state of an item. published and rejected are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRephrased Status = "rephrased"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPublished Status = "published"
)

// KnownStatus reports whether s is a member of the status enum.
func KnownStatus(s Status) bool {
	switch s {
	case StatusPending, StatusRephrased, StatusApproved, StatusRejected, StatusPublished:
		return true
	default:
		return false
	}
}

// Editable reports whether text edits and publishing are allowed from s.
func (s Status) Editable() bool {
	return s == StatusPending || s == StatusRephrased
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusPublished || s == StatusRejected
}

// Receipt holds the platform identifiers recorded when an item is published.
// Which fields are set depends on the platform.
type Receipt struct {
	ExternalID  string
	ExternalURL string
	ExternalURI string
	ExternalCID string
}

// Item is one generated post under review.
type Item struct {
	ID         string
	Repository string
	CommitSHA  string
	Branch     string
	Platform   Platform
	Content    string
	Status     Status

	ImageContent []string
	VideoContent []string
	AudioContent []string

	Receipt Receipt

	// Revision is the optimistic-concurrency stamp, bumped on every mutation.
	Revision int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Repository string
	Branch     string
	Status     Status
	Platform   Platform
}

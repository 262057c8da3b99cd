package handlers

import "github.com/FilippTrigub/showNDev/internal/content"

// The dashboard historically used its own status words. The store
// speaks the canonical enum; this table translates at the HTTP
// boundary in both directions.
var statusToLabel = map[content.Status]string{
	content.StatusPending:   "pending",
	content.StatusRephrased: "rephrased",
	content.StatusApproved:  "approved",
	content.StatusRejected:  "disapproved",
	content.StatusPublished: "posted",
}

var labelToStatus = map[string]content.Status{
	"pending":     content.StatusPending,
	"rephrased":   content.StatusRephrased,
	"approved":    content.StatusApproved,
	"disapproved": content.StatusRejected,
	"rejected":    content.StatusRejected,
	"posted":      content.StatusPublished,
	"published":   content.StatusPublished,
}

// labelFor returns the UI word for a canonical status.
func labelFor(s content.Status) string {
	if label, ok := statusToLabel[s]; ok {
		return label
	}
	return string(s)
}

// statusFor parses a UI label or canonical status word.
func statusFor(label string) (content.Status, bool) {
	s, ok := labelToStatus[label]
	return s, ok
}

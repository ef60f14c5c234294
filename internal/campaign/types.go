package campaign

import (
	"errors"
	"slices"
	"time"

	"github.com/deliverai/deliverai/internal/recipient"
)

// Status is the lifecycle state of the campaign session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusOptimizing Status = "optimizing"
	StatusSending    Status = "sending"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Busy reports whether an optimization or a dispatch run is in flight.
func (s Status) Busy() bool {
	return s == StatusOptimizing || s == StatusSending
}

// Draft holds the user-editable fields exactly as typed.
// Recipients is the raw text; use EmailDraft for the parsed list.
type Draft struct {
	Recipients string `json:"recipients"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// EmailDraft parses the recipients text and returns the draft as sent to
// the optimizer and the dispatcher.
func (d Draft) EmailDraft() EmailDraft {
	return EmailDraft{
		Recipients: recipient.Parse(d.Recipients),
		Subject:    d.Subject,
		Body:       d.Body,
	}
}

// EmailDraft is a draft with its recipient list resolved.
type EmailDraft struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// Validate checks that recipients, subject and body are all present.
// The returned error matches ErrValidation plus one sentinel per missing field.
func (d EmailDraft) Validate() error {
	var missing []error
	if len(d.Recipients) == 0 {
		missing = append(missing, ErrNoRecipients)
	}
	if d.Subject == "" {
		missing = append(missing, ErrMissingSubject)
	}
	if d.Body == "" {
		missing = append(missing, ErrMissingBody)
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrValidation}, missing...)...)
}

// OptimizationResult is the structured rewrite returned by the optimizer.
type OptimizationResult struct {
	OptimizedSubject    string   `json:"optimizedSubject"`
	OptimizedBody       string   `json:"optimizedBody"`
	DeliverabilityScore int      `json:"deliverabilityScore"`
	SpamFlags           []string `json:"spamFlags"`
	Suggestions         []string `json:"suggestions"`
}

func (r *OptimizationResult) clone() *OptimizationResult {
	if r == nil {
		return nil
	}
	out := *r
	out.SpamFlags = slices.Clone(r.SpamFlags)
	out.Suggestions = slices.Clone(r.Suggestions)
	return &out
}

// DeliveryStatus is the outcome of one simulated delivery.
type DeliveryStatus string

const (
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailed  DeliveryStatus = "failed"
)

// DeliveryLogEntry records one recipient of a dispatch run.
type DeliveryLogEntry struct {
	SentAt    time.Time      `json:"sentAt"`
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Status    DeliveryStatus `json:"status"`
	Timestamp string         `json:"timestamp"`
}

// RunStats summarizes the current or last dispatch run.
type RunStats struct {
	StartedAt  time.Time `json:"startedAt,omitzero"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
	ID         string    `json:"id,omitempty"`
	Total      int       `json:"total"`
	Delivered  int       `json:"delivered"`
	Failed     int       `json:"failed"`
}

// Processed returns the number of recipients handled so far.
func (r RunStats) Processed() int {
	return r.Delivered + r.Failed
}

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	Result         *OptimizationResult `json:"optimization,omitempty"`
	Status         Status              `json:"status"`
	LastError      string              `json:"lastError,omitempty"`
	Draft          Draft               `json:"draft"`
	Logs           []DeliveryLogEntry  `json:"logs"` // newest first
	Run            RunStats            `json:"run"`
	RecipientCount int                 `json:"recipientCount"`
	Progress       int                 `json:"progress"`
}

// CanOptimize reports whether the Optimize action should be enabled.
func (s Snapshot) CanOptimize() bool {
	return !s.Status.Busy()
}

// CanSend reports whether the Send action should be enabled.
func (s Snapshot) CanSend() bool {
	return !s.Status.Busy() && s.RecipientCount > 0
}

// ShowProgress reports whether the progress indicator is visible.
func (s Snapshot) ShowProgress() bool {
	return s.Status == StatusSending
}

// progressPercent returns round(done/total*100) using integer arithmetic.
func progressPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*done + total) / (2 * total)
}

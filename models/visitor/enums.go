package visitor

// Status is the lifecycle state of a visitor pass request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Helper methods for Status
func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanBeDownloaded returns true if the pass document may be served.
func (s Status) CanBeDownloaded() bool {
	return s == StatusApproved
}

// GetAllStatuses returns all valid pass statuses
func GetAllStatuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected}
}

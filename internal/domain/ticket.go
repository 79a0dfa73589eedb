package domain

// TicketStatus enumerates lifecycle states for tickets. Any status may
// transition to any other, including itself; the portal exposes a
// free-choice selector, not a linear workflow.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusDone       TicketStatus = "Done"
)

// TicketPriority enumerates urgency set at submission time.
type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "Critical"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityLow      TicketPriority = "Low"
)

// RequestType enumerates the help-center request categories. The values are
// the exact labels the submission forms write into the backing store.
type RequestType string

const (
	RequestTypeITAdmin     RequestType = "IT Admin / Data Correction Requests"
	RequestTypeNewFeature  RequestType = "New Feature Request"
	RequestTypeEnhancement RequestType = "Change / Enhancement Request"
	RequestTypeBugReport   RequestType = "Bug Report"
)

// Ticket is the canonical support request record. Optional fields are plain
// strings: the store adapters normalize unset values to "" so consumers never
// see an absent field. Timestamp and ApprovedAt are RFC3339 strings because
// that is the wire format of the backing store; the model never orders the
// collection, display ordering belongs to the presentation layer.
type Ticket struct {
	TicketID         string         `json:"ticketId"`
	Timestamp        string         `json:"timestamp"`
	RequestType      RequestType    `json:"requestType"`
	Summary          string         `json:"summary"`
	Description      string         `json:"description"`
	ExactChange      string         `json:"exactChange"`
	AdditionalEmails string         `json:"additionalEmails"`
	Priority         TicketPriority `json:"priority"`
	Impact           string         `json:"impact"`
	AttachmentLinks  string         `json:"attachmentLinks"`
	Status           TicketStatus   `json:"status"`
	ApprovedBy       string         `json:"approvedBy"`
	ApprovedAt       string         `json:"approvedAt"`
}

// ValidStatus reports whether s is one of the three ticket statuses.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityCritical, TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow:
		return true
	}
	return false
}

// ValidRequestType reports whether r is a known request category.
func ValidRequestType(r RequestType) bool {
	switch r {
	case RequestTypeITAdmin, RequestTypeNewFeature, RequestTypeEnhancement, RequestTypeBugReport:
		return true
	}
	return false
}

// Statuses returns all ticket statuses in selector order.
func Statuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusDone}
}

// Priorities returns all priorities from most to least urgent.
func Priorities() []TicketPriority {
	return []TicketPriority{TicketPriorityCritical, TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow}
}

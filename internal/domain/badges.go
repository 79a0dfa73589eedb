package domain

// BadgeVariant names the visual treatment the admin table applies to a value.
type BadgeVariant string

const (
	BadgeVariantDefault     BadgeVariant = "default"
	BadgeVariantSecondary   BadgeVariant = "secondary"
	BadgeVariantWarning     BadgeVariant = "warning"
	BadgeVariantDestructive BadgeVariant = "destructive"
)

// Badge bundles the display attributes for a status or priority value.
type Badge struct {
	Variant BadgeVariant
	Color   string
}

// The badge tables are keyed by the enum types so a missing entry is a bug,
// not a silent fallback. Completeness over the enums is asserted by tests.
var statusBadges = map[TicketStatus]Badge{
	TicketStatusOpen:       {Variant: BadgeVariantDefault, Color: "blue"},
	TicketStatusInProgress: {Variant: BadgeVariantWarning, Color: "yellow"},
	TicketStatusDone:       {Variant: BadgeVariantSecondary, Color: "green"},
}

var priorityBadges = map[TicketPriority]Badge{
	TicketPriorityCritical: {Variant: BadgeVariantDestructive, Color: "red"},
	TicketPriorityHigh:     {Variant: BadgeVariantWarning, Color: "orange"},
	TicketPriorityMedium:   {Variant: BadgeVariantDefault, Color: "blue"},
	TicketPriorityLow:      {Variant: BadgeVariantSecondary, Color: "gray"},
}

// StatusBadge returns the display badge for a status. The second return is
// false for values outside the enum.
func StatusBadge(s TicketStatus) (Badge, bool) {
	b, ok := statusBadges[s]
	return b, ok
}

// PriorityBadge returns the display badge for a priority.
func PriorityBadge(p TicketPriority) (Badge, bool) {
	b, ok := priorityBadges[p]
	return b, ok
}

package domain

import "strings"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusFulfilled Status = "FULFILLED"
	StatusCancelled Status = "CANCELLED"
)

// statusOrder fixes the canonical ordering used when enumerating statuses.
var statusOrder = []Status{
	StatusRequested,
	StatusPreparing,
	StatusReady,
	StatusFulfilled,
	StatusCancelled,
}

// ParseStatus normalizes a raw status string (case-insensitive) and
// validates it against the recognized set. Any recognized status may
// follow any other; only membership in the set is enforced.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range statusOrder {
		if s == known {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

// IsTerminal reports whether the status ends the order lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusFulfilled || s == StatusCancelled
}

// Display returns the human-readable label for the status.
func (s Status) Display() string {
	if len(s) == 0 {
		return ""
	}
	return string(s[0]) + strings.ToLower(string(s[1:]))
}

// ActiveStatuses returns all non-terminal statuses. This is the default
// filter for the order feed.
func ActiveStatuses() []Status {
	var active []Status
	for _, s := range statusOrder {
		if !s.IsTerminal() {
			active = append(active, s)
		}
	}
	return active
}

// ParseStatusFilter parses a comma-separated, case-insensitive status
// filter. Unrecognized values are dropped; if none of the supplied values
// is recognized the result is an empty (non-nil) slice, which callers
// translate into an empty result set rather than an error.
func ParseStatusFilter(raw string) []Status {
	seen := make(map[Status]bool)
	filter := []Status{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s, err := ParseStatus(part)
		if err != nil || seen[s] {
			continue
		}
		seen[s] = true
		filter = append(filter, s)
	}
	return filter
}

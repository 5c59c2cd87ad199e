package rental

import (
	"strings"

	"tool-rental/internal/pkg/errs"
)

type Status string

const (
	StatusOffer     Status = "Offer"
	StatusReserved  Status = "Reserved"
	StatusActive    Status = "Active"
	StatusOverdue   Status = "Overdue"
	StatusReturned  Status = "Returned"
	StatusClosed    Status = "Closed"
	StatusCancelled Status = "Cancelled"
	StatusLost      Status = "Lost"
)

var statusAliases = map[string]Status{
	"Pending":  StatusReserved,
	"Approved": StatusReserved,
}

// NormalizeStatus maps legacy aliases onto the current vocabulary. Empty input is Reserved.
func NormalizeStatus(raw string) Status {
	value := strings.TrimSpace(raw)
	if value == "" {
		return StatusReserved
	}
	if alias, ok := statusAliases[value]; ok {
		return alias
	}
	return Status(value)
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOffer, StatusReserved, StatusActive, StatusOverdue,
		StatusReturned, StatusClosed, StatusCancelled, StatusLost:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further lifecycle operation applies.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusClosed, StatusCancelled, StatusLost:
		return true
	default:
		return false
	}
}

// IsBlocking reports whether instances referenced by a rental in this status
// are unavailable to overlapping rentals.
func (s Status) IsBlocking() bool {
	switch s {
	case StatusReserved, StatusActive, StatusOverdue:
		return true
	default:
		return false
	}
}

type transition struct {
	From Status
	To   Status
}

var transitions = []transition{
	{StatusOffer, StatusReserved},
	{StatusOffer, StatusClosed},
	{StatusReserved, StatusActive},
	{StatusReserved, StatusClosed},
	{StatusActive, StatusOverdue},
	{StatusActive, StatusReturned},
	{StatusActive, StatusClosed},
	{StatusOverdue, StatusActive},
	{StatusOverdue, StatusReturned},
	{StatusOverdue, StatusClosed},
	{StatusReturned, StatusClosed},
}

var transitionIndex = func() map[transition]struct{} {
	idx := make(map[transition]struct{}, len(transitions))
	for _, t := range transitions {
		idx[t] = struct{}{}
	}
	return idx
}()

// CanTransition reports whether from -> to is listed in the transition table.
func CanTransition(from, to Status) bool {
	_, ok := transitionIndex[transition{NormalizeStatus(string(from)), NormalizeStatus(string(to))}]
	return ok
}

// Targets returns the statuses reachable from s in one step.
func Targets(s Status) []Status {
	s = NormalizeStatus(string(s))
	var out []Status
	for _, t := range transitions {
		if t.From == s {
			out = append(out, t.To)
		}
	}
	return out
}

func invalidTransition(from, to Status) error {
	return errs.Mark(errs.Newf("invalid state transition: %s -> %s", from, to), errs.ErrInvalidTransition)
}

package rental

import (
	"encoding/json"
	"strconv"
	"time"
)

type LineState string

const (
	LineOffer             LineState = "Offer"
	LinePendingApproval   LineState = "Pending Approval"
	LineReserved          LineState = "Reserved"
	LinePickedUp          LineState = "Picked Up"
	LinePendingPickup     LineState = "Pending Pickup"
	LineFulfilled         LineState = "Fulfilled"
	LineNotReturned       LineState = "Not Returned"
	LineReturned          LineState = "Returned"
	LineExcluded          LineState = "Excluded from Order"
	LineShortageActionSet LineState = "Shortage Action Set"
	LineSuperseded        LineState = "Superseded"
)

// LifecycleVersion is written on every record this package produces.
// Records without a version predate it and parse the same way.
const LifecycleVersion = 1

// Extra holds event fields beyond state, time and operator.
type Extra map[string]any

// Event is one entry of a line item's lifecycle history.
type Event struct {
	State          LineState
	At             time.Time
	OperatorUserID *int64
	Extra          Extra
}

// Lifecycle is the append-only history of a line item plus its current state.
type Lifecycle struct {
	Version int       `json:"version,omitempty"`
	State   LineState `json:"state"`
	History []Event   `json:"history"`
}

// Append records a new event and moves the current state.
func (l *Lifecycle) Append(state LineState, at time.Time, operator *int64, extra Extra) {
	l.Version = LifecycleVersion
	l.History = append(l.History, Event{
		State:          state,
		At:             at,
		OperatorUserID: operator,
		Extra:          extra,
	})
	l.State = state
}

// Last returns the most recent event, if any.
func (l Lifecycle) Last() (Event, bool) {
	if len(l.History) == 0 {
		return Event{}, false
	}
	return l.History[len(l.History)-1], true
}

// IsOut reports whether the state means the units are with the borrower or gone.
func (s LineState) IsOut() bool {
	switch s {
	case LinePickedUp, LineNotReturned, LineReturned:
		return true
	default:
		return false
	}
}

var eventTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+3)
	for k, v := range e.Extra {
		out[k] = v
	}
	out["state"] = e.State
	out["at"] = e.At.UTC().Format(time.RFC3339Nano)
	if e.OperatorUserID != nil {
		out["operatorUserID"] = *e.OperatorUserID
	} else {
		out["operatorUserID"] = nil
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts any object. Malformed known fields are dropped and
// unknown fields land in Extra.
func (e *Event) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*e = Event{}
	for key, raw := range fields {
		switch key {
		case "state":
			var s string
			if json.Unmarshal(raw, &s) == nil {
				e.State = LineState(s)
			}
		case "at":
			var s string
			if json.Unmarshal(raw, &s) == nil {
				e.At = parseEventTime(s)
			}
		case "operatorUserID":
			e.OperatorUserID = parseOperator(raw)
		default:
			var v any
			if json.Unmarshal(raw, &v) == nil {
				if e.Extra == nil {
					e.Extra = Extra{}
				}
				e.Extra[key] = v
			}
		}
	}
	return nil
}

func parseEventTime(s string) time.Time {
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseOperator(raw json.RawMessage) *int64 {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return nil
		}
		n = json.Number(s)
	}
	if id, err := n.Int64(); err == nil {
		return &id
	}
	if f, err := n.Float64(); err == nil {
		id := int64(f)
		return &id
	}
	return nil
}

// ParseLifecycle decodes a stored lifecycle record. Input that is not a JSON
// object yields an empty record; malformed fields and history entries are skipped.
func ParseLifecycle(raw []byte) Lifecycle {
	if len(raw) == 0 {
		return Lifecycle{}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Lifecycle{}
	}

	var l Lifecycle
	if v, err := strconv.Atoi(string(fields["version"])); err == nil {
		l.Version = v
	}
	var state string
	if json.Unmarshal(fields["state"], &state) == nil {
		l.State = LineState(state)
	}
	var history []json.RawMessage
	if json.Unmarshal(fields["history"], &history) == nil {
		for _, entry := range history {
			var e Event
			if err := json.Unmarshal(entry, &e); err != nil {
				continue
			}
			l.History = append(l.History, e)
		}
	}
	return l
}

// Marshal encodes the record for storage.
func (l Lifecycle) Marshal() ([]byte, error) {
	if l.History == nil {
		l.History = []Event{}
	}
	return json.Marshal(l)
}

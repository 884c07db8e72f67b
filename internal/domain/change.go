package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

const (
	TableItems         = "items"
	TableClaims        = "claims"
	TableNotifications = "notifications"
	TableConversations = "conversations"
)

// ChangeEvent announces a committed write to one row. Columns carries the
// values subscribers filter on, not the whole row.
type ChangeEvent struct {
	Table   string            `json:"table"`
	Type    ChangeType        `json:"type"`
	RowID   uuid.UUID         `json:"row_id"`
	Columns map[string]string `json:"columns,omitempty"`
}

// ChangeFilter narrows a subscription to rows whose column matches one of
// Values. The zero filter matches everything.
type ChangeFilter struct {
	Column string
	Values []string
}

// ParseChangeFilter reads filters of the form "column=eq.value" and
// "column=in.(a,b)". An empty string yields the zero filter.
func ParseChangeFilter(s string) (ChangeFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ChangeFilter{}, nil
	}
	column, expr, ok := strings.Cut(s, "=")
	if !ok || column == "" {
		return ChangeFilter{}, fmt.Errorf("invalid change filter %q", s)
	}
	op, arg, ok := strings.Cut(expr, ".")
	if !ok {
		return ChangeFilter{}, fmt.Errorf("invalid change filter %q", s)
	}
	switch op {
	case "eq":
		if arg == "" {
			return ChangeFilter{}, fmt.Errorf("empty value in change filter %q", s)
		}
		return ChangeFilter{Column: column, Values: []string{arg}}, nil
	case "in":
		if !strings.HasPrefix(arg, "(") || !strings.HasSuffix(arg, ")") {
			return ChangeFilter{}, fmt.Errorf("invalid list in change filter %q", s)
		}
		var values []string
		for _, v := range strings.Split(arg[1:len(arg)-1], ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return ChangeFilter{}, fmt.Errorf("empty list in change filter %q", s)
		}
		return ChangeFilter{Column: column, Values: values}, nil
	default:
		return ChangeFilter{}, fmt.Errorf("unsupported operator %q in change filter", op)
	}
}

func (f ChangeFilter) IsZero() bool {
	return f.Column == ""
}

func (f ChangeFilter) Matches(ev ChangeEvent) bool {
	if f.IsZero() {
		return true
	}
	var got string
	if f.Column == "id" {
		got = ev.RowID.String()
	} else {
		v, ok := ev.Columns[f.Column]
		if !ok {
			return false
		}
		got = v
	}
	for _, want := range f.Values {
		if got == want {
			return true
		}
	}
	return false
}

// Subscription selects the events of one table, optionally filtered. An
// empty Table selects every table.
type Subscription struct {
	Table  string
	Filter ChangeFilter
}

func (s Subscription) Matches(ev ChangeEvent) bool {
	return (s.Table == "" || ev.Table == s.Table) && s.Filter.Matches(ev)
}

func ItemChange(t ChangeType, item *Item) ChangeEvent {
	return ChangeEvent{
		Table: TableItems,
		Type:  t,
		RowID: item.ID,
		Columns: map[string]string{
			"status":      string(item.Status),
			"reported_by": item.ReportedBy.String(),
		},
	}
}

func ClaimChange(t ChangeType, claim *Claim) ChangeEvent {
	return ChangeEvent{
		Table: TableClaims,
		Type:  t,
		RowID: claim.ID,
		Columns: map[string]string{
			"item_id": claim.ItemID.String(),
			"user_id": claim.UserID.String(),
			"status":  string(claim.Status),
		},
	}
}

func NotificationChange(t ChangeType, n *Notification) ChangeEvent {
	return ChangeEvent{
		Table: TableNotifications,
		Type:  t,
		RowID: n.ID,
		Columns: map[string]string{
			"receiver_id": n.ReceiverID.String(),
		},
	}
}

func ConversationChange(t ChangeType, c *Conversation) ChangeEvent {
	return ChangeEvent{
		Table: TableConversations,
		Type:  t,
		RowID: c.ID,
		Columns: map[string]string{
			"item_id":        c.ItemID.String(),
			"owner_id":       c.OwnerID.String(),
			"participant_id": c.ParticipantID.String(),
		},
	}
}

// ItemContentChange announces a write to an item's comments or messages
// column. It carries no status, so listing subscriptions ignore it.
func ItemContentChange(itemID uuid.UUID, column string) ChangeEvent {
	return ChangeEvent{
		Table:   TableItems,
		Type:    ChangeUpdate,
		RowID:   itemID,
		Columns: map[string]string{"changed": column},
	}
}

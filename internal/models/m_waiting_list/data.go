package m_waiting_list

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the waiting_list_entries table.
type Data struct {
	EntryID   string             `spanner:"entry_id"`
	MemberID  spanner.NullString `spanner:"member_id"`
	CreatedAt time.Time          `spanner:"created_at"`
}

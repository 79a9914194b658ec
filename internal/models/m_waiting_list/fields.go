package m_waiting_list

// Field name constants for the waiting_list_entries table.
const (
	TableName = "waiting_list_entries"

	EntryID   = "entry_id"
	MemberID  = "member_id"
	CreatedAt = "created_at"
)

// Columns lists every column in declaration order.
var Columns = []string{EntryID, MemberID, CreatedAt}

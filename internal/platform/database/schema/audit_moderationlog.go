package schema

// AuditModerationLogTable represents the 'audit.moderationlog' table
type AuditModerationLogTable struct {
	Table       string
	ID          string
	Action      string
	TargetType  string
	TargetID    string
	ModeratorID string
	Reason      string
	CreatedAt   string
}

// AuditModerationLog is the schema definition for audit.moderationlog
var AuditModerationLog = AuditModerationLogTable{
	Table:       "audit.moderationlog",
	ID:          "id",
	Action:      "action",
	TargetType:  "targettype",
	TargetID:    "targetid",
	ModeratorID: "moderatorid",
	Reason:      "reason",
	CreatedAt:   "createdat",
}

// Columns returns all standard column names
func (t AuditModerationLogTable) Columns() []string {
	return []string{
		t.ID, t.Action, t.TargetType, t.TargetID, t.ModeratorID, t.Reason, t.CreatedAt,
	}
}

package schema

// AuditRoleAuditTable represents the 'audit.roleaudit' table
type AuditRoleAuditTable struct {
	Table        string
	ID           string
	UserID       string
	Action       string
	PreviousRole string
	NewRole      string
	AssignedBy   string
	Reason       string
	CreatedAt    string
}

// AuditRoleAudit is the schema definition for audit.roleaudit
var AuditRoleAudit = AuditRoleAuditTable{
	Table:        "audit.roleaudit",
	ID:           "id",
	UserID:       "userid",
	Action:       "action",
	PreviousRole: "previousrole",
	NewRole:      "newrole",
	AssignedBy:   "assignedby",
	Reason:       "reason",
	CreatedAt:    "createdat",
}

// Columns returns all standard column names
func (t AuditRoleAuditTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Action, t.PreviousRole, t.NewRole, t.AssignedBy, t.Reason, t.CreatedAt,
	}
}

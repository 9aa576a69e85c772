package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	Password    string
	Name        string
	Role        string
	IsActive    string
	IsProtected string
	Bio         string
	Skills      string
	Links       string
	ShowEmail   string
	ShowSkills  string
	LastLoginAt string
	CreatedAt   string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	Password:    "passwordhash",
	Name:        "name",
	Role:        "role",
	IsActive:    "isactive",
	IsProtected: "isprotected",
	Bio:         "bio",
	Skills:      "skills",
	Links:       "links",
	ShowEmail:   "showemail",
	ShowSkills:  "showskills",
	LastLoginAt: "lastloginat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.Name, t.Role, t.IsActive, t.IsProtected,
		t.Bio, t.Skills, t.Links, t.ShowEmail, t.ShowSkills,
		t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}

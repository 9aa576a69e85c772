package schema

// ContentEntityTable represents the 'content.entity' table
type ContentEntityTable struct {
	Table       string
	ID          string
	Kind        string
	Title       string
	Slug        string
	Description string
	Attributes  string
	Status      string
	SubmitterID string
	Featured    string
	CreatedAt   string
	UpdatedAt   string
}

// ContentEntity is the schema definition for content.entity
var ContentEntity = ContentEntityTable{
	Table:       "content.entity",
	ID:          "id",
	Kind:        "kind",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Attributes:  "attributes",
	Status:      "status",
	SubmitterID: "submitterid",
	Featured:    "featured",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t ContentEntityTable) Columns() []string {
	return []string{
		t.ID, t.Kind, t.Title, t.Slug, t.Description, t.Attributes,
		t.Status, t.SubmitterID, t.Featured, t.CreatedAt, t.UpdatedAt,
	}
}

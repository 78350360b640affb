package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeListGenerated     ActivityType = "list_generated"
	TypeCustomItemAdded   ActivityType = "custom_item_added"
	TypeCustomItemEdited  ActivityType = "custom_item_edited"
	TypeCustomItemDeleted ActivityType = "custom_item_deleted"
	TypeTemplateSaved     ActivityType = "template_saved"
	TypeTemplateLoaded    ActivityType = "template_loaded"
	TypeTemplateDeleted   ActivityType = "template_deleted"
	TypeSnapshotDiscarded ActivityType = "snapshot_discarded"
	TypeCollectionReset   ActivityType = "collection_reset"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ActivityType ActivityType `json:"type"`
	SubjectID    *string      `json:"subject_id,omitempty"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}

// Subject returns a pointer to id for use as ActivityEntry.SubjectID.
func Subject(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

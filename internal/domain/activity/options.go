package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	SubjectID    *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}

// DefaultListLimit caps listings that do not set a limit.
const DefaultListLimit = 50

package domain

import "time"

type Role string

const (
	RoleTeacher    Role = "teacher"
	RoleParent     Role = "parent"
	RoleStudent    Role = "student"
	RoleDepartment Role = "department"
	RoleSchool     Role = "school"
)

// Session is the logged-in user plus the bearer token. Held in memory only;
// the token alone is persisted durably under a fixed key.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Token    string `json:"-"`
}

type ConversationType string

const (
	ConversationPrivate ConversationType = "private"
	ConversationGroup   ConversationType = "group"
)

type Participant struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type Conversation struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Type         ConversationType `json:"type"`
	Participants []Participant    `json:"participants"`
	LastMessage  string           `json:"last_message"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Message ordering is whatever the backend returns (sent_at ascending); the
// dashboard never re-sorts.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderRole     Role      `json:"sender_role"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
}

type Notification struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	IsRead      bool      `json:"is_read"`
	CreatedTime time.Time `json:"created_time"`
}

type FormType string

const (
	FormAbsence    FormType = "absence"
	FormComplaint  FormType = "complaint"
	FormFeedback   FormType = "feedback"
	FormPermission FormType = "permission"
	FormOther      FormType = "other"
)

type FormStatus string

const (
	FormPending    FormStatus = "pending"
	FormProcessing FormStatus = "processing"
	FormCompleted  FormStatus = "completed"
)

// CanAdvanceTo reports whether the dashboard may issue a transition from s
// to next. Forward only, one step at a time: pending → processing →
// completed. Department assignment is allowed while pending and leaves the
// status untouched.
func (s FormStatus) CanAdvanceTo(next FormStatus) bool {
	switch s {
	case FormPending:
		return next == FormProcessing
	case FormProcessing:
		return next == FormCompleted
	default:
		return false
	}
}

type Form struct {
	ID             int64      `json:"id"`
	Type           FormType   `json:"type"`
	Content        string     `json:"content"`
	Status         FormStatus `json:"status"`
	DepartmentID   *int64     `json:"department_id,omitempty"`
	SubmissionDate time.Time  `json:"submission_date"`
}

type RecordType string

const (
	RecordReward     RecordType = "reward"
	RecordDiscipline RecordType = "discipline"
)

type ContentType string

const (
	ContentAchievement ContentType = "achievement"
	ContentExcellence  ContentType = "excellence"
	ContentImprovement ContentType = "improvement"
	ContentViolation   ContentType = "violation"
	ContentMisconduct  ContentType = "misconduct"
	ContentAttendance  ContentType = "attendance"
	ContentOther       ContentType = "other"
)

// ContentTypesFor returns the valid content types for a record type. The two
// sets are disjoint except for "other".
func ContentTypesFor(t RecordType) []ContentType {
	switch t {
	case RecordReward:
		return []ContentType{ContentAchievement, ContentExcellence, ContentImprovement, ContentOther}
	case RecordDiscipline:
		return []ContentType{ContentViolation, ContentMisconduct, ContentAttendance, ContentOther}
	default:
		return nil
	}
}

func (t RecordType) Allows(ct ContentType) bool {
	for _, allowed := range ContentTypesFor(t) {
		if allowed == ct {
			return true
		}
	}
	return false
}

type RewardRecord struct {
	ID          int64       `json:"id"`
	Type        RecordType  `json:"type"`
	ContentType ContentType `json:"content_type"`
	StudentID   int64       `json:"student_id"`
	Content     string      `json:"content"`
	Date        time.Time   `json:"date"`
}

type RewardStatistics struct {
	Scope            string         `json:"scope"`
	ScopeID          int64          `json:"scope_id,omitempty"`
	TotalRewards     int            `json:"total_rewards"`
	TotalDisciplines int            `json:"total_disciplines"`
	ByContentType    map[string]int `json:"by_content_type"`
}

type Evaluation struct {
	ID             int64     `json:"id"`
	StudentID      int64     `json:"student_id"`
	Content        string    `json:"content"`
	EvaluationDate time.Time `json:"evaluation_date"`
}

package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

const SubjectPrefix = "abletech.events."

// AllSubjects matches every event subject.
const AllSubjects = SubjectPrefix + ">"

type Type string

const (
	JobCreated                Type = "job.created"
	JobUpdated                Type = "job.updated"
	JobDeleted                Type = "job.deleted"
	JobClosed                 Type = "job.closed"
	ApplicationSubmitted      Type = "application.submitted"
	ApplicationStatusChanged  Type = "application.status_changed"
	ApplicationEmailed        Type = "application.emailed"
	RecommendationInteraction Type = "recommendation.interaction"
	PostCreated               Type = "post.created"
	PostLiked                 Type = "post.liked"
)

// Event is the envelope published for every domain change. Attributes hold
// event-specific scalars such as the new application status.
type Event struct {
	ID         string            `json:"id"`
	Type       Type              `json:"type"`
	Actor      string            `json:"actor,omitempty"`
	ItemID     string            `json:"itemId,omitempty"`
	ItemType   string            `json:"itemType,omitempty"`
	Action     string            `json:"action,omitempty"`
	JobID      string            `json:"jobId,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

func New(t Type, actor string) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       t,
		Actor:      actor,
		Action:     defaultAction(t),
		OccurredAt: time.Now().UTC(),
	}
}

func (e *Event) Subject() string {
	return SubjectPrefix + string(e.Type)
}

func (e *Event) With(key, value string) *Event {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

func (e *Event) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses a published payload. Events missing an id or type are
// rejected.
func Decode(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.ID == "" || e.Type == "" {
		return nil, errMalformed
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if e.Action == "" {
		e.Action = defaultAction(e.Type)
	}
	return &e, nil
}

func defaultAction(t Type) string {
	s := string(t)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

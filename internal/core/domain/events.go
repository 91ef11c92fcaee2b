package domain

// EventType defines the type of real-time event pushed to subscribers.
type EventType string

const (
	EventNewChatMessage      EventType = "NEW_CHAT_MESSAGE"
	EventMessageRead         EventType = "MESSAGE_READ"
	EventNewReview           EventType = "NEW_REVIEW"
	EventJobStatusChange     EventType = "JOB_STATUS_CHANGE"
	EventAutomationTriggered EventType = "AUTOMATION_TRIGGERED"
	EventInitialStats        EventType = "INITIAL_STATS"
	EventPong                EventType = "PONG"
)

// Event is the envelope broadcast over the realtime channel. BusinessID is
// the routing key; it is duplicated inside the payload for the client's
// convenience, matching the wire format the dashboard expects.
type Event struct {
	Type       EventType `json:"type"`
	Payload    any       `json:"payload"`
	BusinessID int64     `json:"-"`
}

// ChatMessagePayload is the payload for NEW_CHAT_MESSAGE events.
type ChatMessagePayload struct {
	BusinessID     int64    `json:"businessId"`
	ConversationID int64    `json:"conversationId"`
	Message        *Message `json:"message"`
}

// MessageReadPayload is the payload for MESSAGE_READ events.
type MessageReadPayload struct {
	BusinessID     int64 `json:"businessId"`
	ConversationID int64 `json:"conversationId"`
}

// JobStatusPayload is the payload for JOB_STATUS_CHANGE events.
type JobStatusPayload struct {
	BusinessID int64 `json:"businessId"`
	Job        *Job  `json:"job"`
}

// ReviewPayload is the payload for NEW_REVIEW events.
type ReviewPayload struct {
	BusinessID int64   `json:"businessId"`
	Review     *Review `json:"review"`
}

// AutomationTriggeredPayload is the payload emitted after each dispatched
// automation action.
type AutomationTriggeredPayload struct {
	BusinessID int64          `json:"businessId"`
	Automation *Automation    `json:"automation"`
	Action     Action         `json:"action"`
	Context    TriggerContext `json:"context"`
}

// NewChatMessageEvent builds a NEW_CHAT_MESSAGE event.
func NewChatMessageEvent(businessID, conversationID int64, message *Message) Event {
	return Event{
		Type:       EventNewChatMessage,
		BusinessID: businessID,
		Payload: ChatMessagePayload{
			BusinessID:     businessID,
			ConversationID: conversationID,
			Message:        message,
		},
	}
}

// NewMessageReadEvent builds a MESSAGE_READ event.
func NewMessageReadEvent(businessID, conversationID int64) Event {
	return Event{
		Type:       EventMessageRead,
		BusinessID: businessID,
		Payload: MessageReadPayload{
			BusinessID:     businessID,
			ConversationID: conversationID,
		},
	}
}

// NewJobStatusEvent builds a JOB_STATUS_CHANGE event.
func NewJobStatusEvent(job *Job) Event {
	return Event{
		Type:       EventJobStatusChange,
		BusinessID: job.BusinessID,
		Payload: JobStatusPayload{
			BusinessID: job.BusinessID,
			Job:        job,
		},
	}
}

// NewReviewEvent builds a NEW_REVIEW event.
func NewReviewEvent(review *Review) Event {
	return Event{
		Type:       EventNewReview,
		BusinessID: review.BusinessID,
		Payload: ReviewPayload{
			BusinessID: review.BusinessID,
			Review:     review,
		},
	}
}

// NewAutomationTriggeredEvent builds an AUTOMATION_TRIGGERED event for one
// dispatched action.
func NewAutomationTriggeredEvent(rule *Automation, action Action, ctx TriggerContext) Event {
	return Event{
		Type:       EventAutomationTriggered,
		BusinessID: rule.BusinessID,
		Payload: AutomationTriggeredPayload{
			BusinessID: rule.BusinessID,
			Automation: rule,
			Action:     action,
			Context:    ctx,
		},
	}
}

// NewInitialStatsEvent builds the one-time INITIAL_STATS snapshot pushed to a
// tenant connection when it opens.
func NewInitialStatsEvent(businessID int64, stats BusinessStats) Event {
	return Event{
		Type:       EventInitialStats,
		BusinessID: businessID,
		Payload:    stats,
	}
}

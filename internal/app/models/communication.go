package models

// CommunicationType classifies a message.
type CommunicationType string

const (
	CommQuery        CommunicationType = "query"
	CommFeedback     CommunicationType = "feedback"
	CommAnnouncement CommunicationType = "announcement"
)

// CommunicationStatus tracks the lifecycle of a message.
type CommunicationStatus string

const (
	CommPending  CommunicationStatus = "Pending"
	CommAnswered CommunicationStatus = "Answered"
	CommRead     CommunicationStatus = "Read"
	CommPosted   CommunicationStatus = "Posted"
)

// Communication is a query, feedback or announcement message.
type Communication struct {
	ID                int64               `json:"comm_id" db:"comm_id"`
	SenderID          *string             `json:"sender_id,omitempty" db:"sender_id"`
	SenderName        *string             `json:"sender_name,omitempty" db:"sender_name" validate:"omitempty,max=100"`
	SenderEmail       *string             `json:"sender_email,omitempty" db:"sender_email" validate:"omitempty,email"`
	Subject           string              `json:"subject" db:"subject" validate:"notblank,max=200"`
	MessageText       string              `json:"message_text" db:"message_text" validate:"notblank"`
	ResponseText      *string             `json:"response_text,omitempty" db:"response_text"`
	Type              CommunicationType   `json:"type" db:"type" validate:"oneof=query feedback announcement"`
	Status            CommunicationStatus `json:"status" db:"status"`
	Timestamp         string              `json:"timestamp" db:"timestamp"`
	ResponseTimestamp *string             `json:"response_timestamp,omitempty" db:"response_timestamp"`
}

// CommunicationFilter narrows a communication listing. Empty fields match all.
type CommunicationFilter struct {
	Type     CommunicationType
	Status   CommunicationStatus
	SenderID string
}

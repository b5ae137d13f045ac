package models

// Channel is how an artefact reached its recipient.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelDownload Channel = "download"
	ChannelFile     Channel = "file"
	ChannelPrint    Channel = "print"
)

// DeliveryStatus is the outcome of a single distribution attempt.
type DeliveryStatus string

const (
	DeliverySent      DeliveryStatus = "Sent"
	DeliveryFailed    DeliveryStatus = "Failed"
	DeliveryCompleted DeliveryStatus = "Completed"
)

// Artefact types tracked by the delivery log.
const (
	ArtefactReport  = "report"
	ArtefactReceipt = "receipt"
	ArtefactIDCard  = "id_card"
)

// DeliveryLog is one row of the append-only audit trail.
type DeliveryLog struct {
	ID                 int64          `json:"log_id" db:"log_id"`
	ArtefactType       string         `json:"artefact_type" db:"artefact_type"`
	ArtefactIdentifier string         `json:"artefact_identifier" db:"artefact_identifier"`
	RecipientAddress   string         `json:"recipient_address" db:"recipient_address"`
	Channel            Channel        `json:"channel" db:"channel"`
	DeliveryStatus     DeliveryStatus `json:"delivery_status" db:"delivery_status"`
	Timestamp          string         `json:"timestamp" db:"timestamp"`
	ErrorMessage       *string        `json:"error_message,omitempty" db:"error_message"`
}

// DeliveryFilter narrows a delivery log listing. Empty fields match all.
type DeliveryFilter struct {
	ArtefactType string
	Status       DeliveryStatus
	Limit        uint64
}

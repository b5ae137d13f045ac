package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

// deliveryLogTimeout bounds a log write once it is detached from the
// caller's cancellation.
const deliveryLogTimeout = 5 * time.Second

// DeliveryService writes and reads the delivery audit trail
type DeliveryService interface {
	Record(ctx context.Context, entry models.DeliveryLog) int64
	RecordAttempt(ctx context.Context, artefactType, identifier, recipient string, channel models.Channel, outcome error) int64
	List(ctx context.Context, filter models.DeliveryFilter) ([]models.DeliveryLog, error)
}

// deliveryServiceImpl implements the DeliveryService interface
type deliveryServiceImpl struct {
	logRepo *repositories.DeliveryLogRepository
	logger  zerolog.Logger
	now     func() time.Time
}

// NewDeliveryService creates a new delivery service instance
func NewDeliveryService(logRepo *repositories.DeliveryLogRepository, logger zerolog.Logger) DeliveryService {
	return &deliveryServiceImpl{
		logRepo: logRepo,
		logger:  logger,
		now:     time.Now,
	}
}

// Record appends entry stamped with the current time. The write ignores
// cancellation of ctx so that interrupted attempts are still recorded. A
// failed write is logged and 0 is returned; the delivery itself is not
// affected.
func (s *deliveryServiceImpl) Record(ctx context.Context, entry models.DeliveryLog) int64 {
	entry.Timestamp = helpers.FormatTimestamp(s.now())

	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryLogTimeout)
	defer cancel()

	id, err := s.logRepo.Record(logCtx, &entry)
	if err != nil {
		s.logger.Error().Err(err).
			Str("artefact_type", entry.ArtefactType).
			Str("artefact_identifier", entry.ArtefactIdentifier).
			Str("delivery_status", string(entry.DeliveryStatus)).
			Msg("Failed to write delivery log")
		return 0
	}
	return id
}

// RecordAttempt logs the outcome of one delivery. A nil outcome is Sent for
// email and Completed for every other channel.
func (s *deliveryServiceImpl) RecordAttempt(ctx context.Context, artefactType, identifier, recipient string, channel models.Channel, outcome error) int64 {
	entry := models.DeliveryLog{
		ArtefactType:       artefactType,
		ArtefactIdentifier: identifier,
		RecipientAddress:   recipient,
		Channel:            channel,
		DeliveryStatus:     models.DeliveryCompleted,
	}
	switch {
	case outcome != nil:
		entry.DeliveryStatus = models.DeliveryFailed
		entry.ErrorMessage = helpers.StringPtr(outcome.Error())
	case channel == models.ChannelEmail:
		entry.DeliveryStatus = models.DeliverySent
	}
	return s.Record(ctx, entry)
}

// List returns log entries in the order they were attempted
func (s *deliveryServiceImpl) List(ctx context.Context, filter models.DeliveryFilter) ([]models.DeliveryLog, error) {
	return s.logRepo.List(ctx, filter)
}

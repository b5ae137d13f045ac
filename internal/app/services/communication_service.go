package services

import (
	"context"
	"strings"
	"time"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// CommunicationService defines the interface for queries, feedback and
// announcements
type CommunicationService interface {
	Submit(ctx context.Context, comm *models.Communication) (int64, error)
	Get(ctx context.Context, id int64) (*models.Communication, error)
	List(ctx context.Context, filter models.CommunicationFilter) ([]models.Communication, error)
	Respond(ctx context.Context, id int64, response string) error
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// communicationServiceImpl implements the CommunicationService interface
type communicationServiceImpl struct {
	commRepo *repositories.CommunicationRepository
	now      func() time.Time
}

// NewCommunicationService creates a new communication service instance
func NewCommunicationService(commRepo *repositories.CommunicationRepository) CommunicationService {
	return &communicationServiceImpl{
		commRepo: commRepo,
		now:      time.Now,
	}
}

// Submit stores a new message. Queries and feedback start Pending,
// announcements start Posted.
func (s *communicationServiceImpl) Submit(ctx context.Context, comm *models.Communication) (int64, error) {
	if comm == nil {
		return 0, validation.Field("communication", "communication is required")
	}
	comm.Subject = strings.TrimSpace(comm.Subject)
	comm.MessageText = strings.TrimSpace(comm.MessageText)
	comm.SenderID = helpers.TrimToNil(comm.SenderID)
	comm.SenderName = helpers.TrimToNil(comm.SenderName)
	comm.SenderEmail = helpers.TrimToNil(comm.SenderEmail)
	comm.Type = models.CommunicationType(strings.ToLower(strings.TrimSpace(string(comm.Type))))
	if err := validation.Struct(comm); err != nil {
		return 0, err
	}

	comm.Status = models.CommPending
	if comm.Type == models.CommAnnouncement {
		comm.Status = models.CommPosted
	}
	comm.Timestamp = helpers.FormatTimestamp(s.now())
	comm.ResponseText = nil
	comm.ResponseTimestamp = nil

	id, err := s.commRepo.Create(ctx, comm)
	if err != nil {
		return 0, err
	}
	comm.ID = id
	return id, nil
}

// Get retrieves a message by ID
func (s *communicationServiceImpl) Get(ctx context.Context, id int64) (*models.Communication, error) {
	return s.commRepo.GetByID(ctx, id)
}

// List returns messages matching filter, newest first
func (s *communicationServiceImpl) List(ctx context.Context, filter models.CommunicationFilter) ([]models.Communication, error) {
	return s.commRepo.List(ctx, filter)
}

// Respond answers a query or feedback message
func (s *communicationServiceImpl) Respond(ctx context.Context, id int64, response string) error {
	response = strings.TrimSpace(response)
	if response == "" {
		return validation.Field("response_text", "response cannot be blank")
	}
	comm, err := s.commRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comm.Type == models.CommAnnouncement {
		return validation.Field("type", "announcements cannot be answered")
	}
	return s.commRepo.SetResponse(ctx, id, response, helpers.FormatTimestamp(s.now()), models.CommAnswered)
}

// MarkRead marks a query or feedback message as read
func (s *communicationServiceImpl) MarkRead(ctx context.Context, id int64) error {
	comm, err := s.commRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case comm.Type == models.CommAnnouncement:
		return validation.Field("type", "announcements cannot be marked as read")
	case comm.Status == models.CommRead:
		return nil
	}
	return s.commRepo.SetStatus(ctx, id, models.CommRead)
}

// Delete removes a message
func (s *communicationServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.commRepo.Delete(ctx, id)
}

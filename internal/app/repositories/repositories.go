package repositories

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	ReferenceRepository     *ReferenceRepository
	StudentRepository       *StudentRepository
	MarkRepository          *MarkRepository
	PaymentRepository       *PaymentRepository
	CommunicationRepository *CommunicationRepository
	DeliveryLogRepository   *DeliveryLogRepository
	ReportRepository        *ReportRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.DB) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(database),
		ReferenceRepository:     NewReferenceRepository(database),
		StudentRepository:       NewStudentRepository(database),
		MarkRepository:          NewMarkRepository(database),
		PaymentRepository:       NewPaymentRepository(database),
		CommunicationRepository: NewCommunicationRepository(database),
		DeliveryLogRepository:   NewDeliveryLogRepository(database),
		ReportRepository:        NewReportRepository(database),
	}
}

// translate classifies a driver error and logs it when it is an
// unexpected storage failure rather than an integrity violation.
func translate(op string, err error) error {
	translated := dberrors.Translate(op, err)
	if errors.Is(translated, apperrors.ErrStorage) {
		logEvent(logger.Error(), op).Err(err).Msg("Error executing query")
	}
	return translated
}

// buildError wraps a squirrel build failure.
func buildError(op string, err error) error {
	logEvent(logger.Error(), op).Err(err).Msg("Error building SQL")
	return apperrors.NewStorageError("build "+op+" query", err)
}

func logEvent(ev *zerolog.Event, op string) *zerolog.Event {
	return ev.Str("op", op)
}

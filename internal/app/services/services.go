package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/email"
	"github.com/yigit/studentrecords/internal/pkg/filestorage"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// Services defined in this package:
// - StudentService: student records, the bin and search
// - ReferenceService: faculties, academic years and courses
// - MarkService and PaymentService: records owned by a student
// - UserService: password based accounts
// - ReportService: the fixed set of tabular reports
// - DeliveryService: the delivery audit trail
// - DistributionService: export and email of reports, receipts and ID cards
// - CommunicationService: queries, feedback and announcements
type Services struct {
	Students       StudentService
	References     ReferenceService
	Marks          MarkService
	Payments       PaymentService
	Users          UserService
	Reports        ReportService
	Deliveries     DeliveryService
	Distribution   DistributionService
	Communications CommunicationService
}

// Delivery holds what the distribution pipeline needs beyond the stores.
type Delivery struct {
	Exporter     Exporter
	Sender       email.Sender
	Storage      filestorage.FileStorage
	EmailTimeout time.Duration
}

// NewServices wires every service on top of repos. Each service logs
// through a child of lgr tagged with its component name.
func NewServices(repos *repositories.Repositories, delivery Delivery, lgr zerolog.Logger) *Services {
	s := &Services{
		Students:       NewStudentService(repos.StudentRepository, logger.WithComponent(lgr, "students")),
		References:     NewReferenceService(repos.ReferenceRepository),
		Marks:          NewMarkService(repos.MarkRepository, repos.StudentRepository, repos.ReferenceRepository, logger.WithComponent(lgr, "marks")),
		Payments:       NewPaymentService(repos.PaymentRepository, repos.StudentRepository, logger.WithComponent(lgr, "payments")),
		Users:          NewUserService(repos.UserRepository, logger.WithComponent(lgr, "users")),
		Reports:        NewReportService(repos.ReportRepository, logger.WithComponent(lgr, "reports")),
		Deliveries:     NewDeliveryService(repos.DeliveryLogRepository, logger.WithComponent(lgr, "deliveries")),
		Communications: NewCommunicationService(repos.CommunicationRepository),
	}
	s.Distribution = NewDistributionService(
		s.Reports,
		s.Payments,
		s.Students,
		s.Deliveries,
		delivery.Exporter,
		delivery.Sender,
		delivery.Storage,
		delivery.EmailTimeout,
		logger.WithComponent(lgr, "distribution"),
	)
	return s
}

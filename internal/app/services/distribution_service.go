package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/email"
	"github.com/yigit/studentrecords/internal/pkg/export"
	"github.com/yigit/studentrecords/internal/pkg/filestorage"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// LocalRecipient is the recipient recorded for files written to disk.
const LocalRecipient = "local"

// Exporter renders a tabular result to a file.
type Exporter interface {
	Export(ctx context.Context, format export.Format, result *models.TabularResult, path, title string) error
}

// IDCardRenderer draws a student's ID card to path.
type IDCardRenderer interface {
	RenderIDCard(ctx context.Context, student *models.Student, path string) error
}

// DistributionService generates artefacts, hands them to a channel and
// records exactly one delivery log entry per attempt.
type DistributionService interface {
	ExportReport(ctx context.Context, reportType models.ReportType, params models.ReportParams, format export.Format, path string) error
	EmailReport(ctx context.Context, reportType models.ReportType, params models.ReportParams, recipient string) error
	ExportReceipt(ctx context.Context, receiptNumber string, format export.Format, path string) error
	EmailReceipt(ctx context.Context, receiptNumber, recipient string) error
	RenderIDCard(ctx context.Context, renderer IDCardRenderer, rollNumber, path string) error
	LogIDCardDelivery(ctx context.Context, rollNumber, recipient string, channel models.Channel, outcome error) int64
}

// distributionServiceImpl implements the DistributionService interface
type distributionServiceImpl struct {
	reports      ReportService
	payments     PaymentService
	students     StudentService
	deliveries   DeliveryService
	exporter     Exporter
	sender       email.Sender
	storage      filestorage.FileStorage
	emailTimeout time.Duration
	logger       zerolog.Logger
}

// NewDistributionService creates a new distribution service instance
func NewDistributionService(
	reports ReportService,
	payments PaymentService,
	students StudentService,
	deliveries DeliveryService,
	exporter Exporter,
	sender email.Sender,
	storage filestorage.FileStorage,
	emailTimeout time.Duration,
	logger zerolog.Logger,
) DistributionService {
	return &distributionServiceImpl{
		reports:      reports,
		payments:     payments,
		students:     students,
		deliveries:   deliveries,
		exporter:     exporter,
		sender:       sender,
		storage:      storage,
		emailTimeout: emailTimeout,
		logger:       logger,
	}
}

// ExportReport builds a report and writes it to path. Empty reports are
// written with headers only.
func (s *distributionServiceImpl) ExportReport(ctx context.Context, reportType models.ReportType, params models.ReportParams, format export.Format, path string) error {
	err := s.exportReport(ctx, reportType, params, format, path)
	s.deliveries.RecordAttempt(ctx, models.ArtefactReport, string(reportType), LocalRecipient, models.ChannelFile, err)
	return err
}

func (s *distributionServiceImpl) exportReport(ctx context.Context, reportType models.ReportType, params models.ReportParams, format export.Format, path string) error {
	result, err := s.reports.Build(ctx, reportType, params)
	if err != nil {
		return err
	}
	return s.exporter.Export(ctx, format, result, path, reportType.Title())
}

// EmailReport builds a report, renders it to a temporary PDF and mails it.
func (s *distributionServiceImpl) EmailReport(ctx context.Context, reportType models.ReportType, params models.ReportParams, recipient string) error {
	recipient = strings.TrimSpace(recipient)
	if err := validation.Var("recipient", recipient, "required,email"); err != nil {
		return err
	}

	result, err := s.reports.Build(ctx, reportType, params)
	if err == nil {
		title := reportType.Title()
		err = s.emailResult(ctx, result, title, recipient, email.Message{
			To:      recipient,
			Subject: "Student Records: " + title,
			Body:    fmt.Sprintf("Please find attached the %s report.", title),
		})
	}
	s.deliveries.RecordAttempt(ctx, models.ArtefactReport, string(reportType), recipient, models.ChannelEmail, err)
	return err
}

// ExportReceipt writes a payment receipt to path.
func (s *distributionServiceImpl) ExportReceipt(ctx context.Context, receiptNumber string, format export.Format, path string) error {
	receipt, err := s.payments.GetByReceipt(ctx, receiptNumber)
	if err == nil {
		err = s.exporter.Export(ctx, format, ReceiptTable(receipt), path, receiptTitle(receipt.ReceiptNumber))
	}
	s.deliveries.RecordAttempt(ctx, models.ArtefactReceipt, strings.TrimSpace(receiptNumber), LocalRecipient, models.ChannelFile, err)
	return err
}

// EmailReceipt mails a payment receipt as a PDF attachment.
func (s *distributionServiceImpl) EmailReceipt(ctx context.Context, receiptNumber, recipient string) error {
	recipient = strings.TrimSpace(recipient)
	if err := validation.Var("recipient", recipient, "required,email"); err != nil {
		return err
	}

	receipt, err := s.payments.GetByReceipt(ctx, receiptNumber)
	if err == nil {
		title := receiptTitle(receipt.ReceiptNumber)
		err = s.emailResult(ctx, ReceiptTable(receipt), title, recipient, email.Message{
			To:      recipient,
			Subject: title,
			Body:    fmt.Sprintf("Dear %s,\n\nPlease find attached your receipt for the payment of %.2f.", receipt.StudentName, receipt.AmountPaid),
		})
	}
	s.deliveries.RecordAttempt(ctx, models.ArtefactReceipt, strings.TrimSpace(receiptNumber), recipient, models.ChannelEmail, err)
	return err
}

// RenderIDCard asks renderer to draw the student's card to path and logs
// the outcome as a file delivery.
func (s *distributionServiceImpl) RenderIDCard(ctx context.Context, renderer IDCardRenderer, rollNumber, path string) error {
	student, err := s.students.GetByRollNumber(ctx, rollNumber)
	if err == nil {
		err = renderer.RenderIDCard(ctx, student, path)
	}
	s.LogIDCardDelivery(ctx, rollNumber, LocalRecipient, models.ChannelFile, err)
	return err
}

// LogIDCardDelivery records an ID card delivery made outside this package.
func (s *distributionServiceImpl) LogIDCardDelivery(ctx context.Context, rollNumber, recipient string, channel models.Channel, outcome error) int64 {
	return s.deliveries.RecordAttempt(ctx, models.ArtefactIDCard, strings.TrimSpace(rollNumber), recipient, channel, outcome)
}

// emailResult renders result to a PDF in the storage directory, attaches it
// to msg and sends it within the configured timeout. The PDF is removed
// afterwards.
func (s *distributionServiceImpl) emailResult(ctx context.Context, result *models.TabularResult, title, recipient string, msg email.Message) error {
	path := s.storage.NewArtifactPath(export.FormatPDF.Extension())
	defer func() {
		if err := s.storage.DeleteFile(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove email attachment")
		}
	}()

	if err := s.exporter.Export(ctx, export.FormatPDF, result, path, title); err != nil {
		return err
	}
	msg.Attachments = []email.Attachment{{Path: path}}

	sendCtx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()

	if err := s.sender.Send(sendCtx, msg); err != nil {
		switch {
		case ctx.Err() != nil:
			err = fmt.Errorf("delivery interrupted: %w", err)
		case errors.Is(err, context.DeadlineExceeded) && errors.Is(sendCtx.Err(), context.DeadlineExceeded):
			err = fmt.Errorf("delivery timed out after %s: %w", s.emailTimeout, err)
		}
		s.logger.Error().Err(err).Str("recipient", recipient).Str("subject", msg.Subject).Msg("Email delivery failed")
		return err
	}
	s.logger.Info().Str("recipient", recipient).Str("subject", msg.Subject).Msg("Email sent")
	return nil
}

func receiptTitle(receiptNumber string) string {
	return "Payment Receipt " + receiptNumber
}

package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
)

var communicationColumns = []string{
	"comm_id", "sender_id", "sender_name", "sender_email", "subject",
	"message_text", "response_text", "type", "status", "timestamp",
	"response_timestamp",
}

// CommunicationRepository handles communication database operations
type CommunicationRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewCommunicationRepository creates a new CommunicationRepository
func NewCommunicationRepository(database *db.DB) *CommunicationRepository {
	return &CommunicationRepository{
		db: database,
		sb: database.Builder(),
	}
}

// Create inserts a communication and returns its id.
func (r *CommunicationRepository) Create(ctx context.Context, c *models.Communication) (int64, error) {
	sql, args, err := r.sb.Insert("communications").
		Columns("sender_id", "sender_name", "sender_email", "subject", "message_text", "type", "status", "timestamp").
		Values(c.SenderID, c.SenderName, c.SenderEmail, c.Subject, c.MessageText, string(c.Type), string(c.Status), c.Timestamp).
		Suffix("RETURNING comm_id").
		ToSql()
	if err != nil {
		return 0, buildError("create communication", err)
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, sql, args...).Scan(&id); err != nil {
		return 0, translate("create communication", err)
	}
	return id, nil
}

// GetByID retrieves a communication by id
func (r *CommunicationRepository) GetByID(ctx context.Context, id int64) (*models.Communication, error) {
	sql, args, err := r.sb.Select(communicationColumns...).
		From("communications").
		Where(squirrel.Eq{"comm_id": id}).
		ToSql()
	if err != nil {
		return nil, buildError("get communication", err)
	}
	comm := &models.Communication{}
	if err := r.db.GetContext(ctx, comm, sql, args...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewNotFoundError("communication", id)
		}
		return nil, translate("get communication", err)
	}
	return comm, nil
}

// List returns communications matching filter, newest first.
func (r *CommunicationRepository) List(ctx context.Context, filter models.CommunicationFilter) ([]models.Communication, error) {
	q := r.sb.Select(communicationColumns...).From("communications")
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": string(filter.Type)})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.SenderID != "" {
		q = q.Where(squirrel.Eq{"sender_id": filter.SenderID})
	}

	sql, args, err := q.OrderBy("timestamp DESC", "comm_id DESC").ToSql()
	if err != nil {
		return nil, buildError("list communications", err)
	}
	comms := []models.Communication{}
	if err := r.db.SelectContext(ctx, &comms, sql, args...); err != nil {
		return nil, translate("list communications", err)
	}
	return comms, nil
}

// SetResponse stores a response and moves the message to status.
func (r *CommunicationRepository) SetResponse(ctx context.Context, id int64, response, timestamp string, status models.CommunicationStatus) error {
	return r.update(ctx, "respond to communication", id, map[string]interface{}{
		"response_text":      response,
		"response_timestamp": timestamp,
		"status":             string(status),
	})
}

// SetStatus moves the message to status.
func (r *CommunicationRepository) SetStatus(ctx context.Context, id int64, status models.CommunicationStatus) error {
	return r.update(ctx, "update communication status", id, map[string]interface{}{
		"status": string(status),
	})
}

func (r *CommunicationRepository) update(ctx context.Context, op string, id int64, set map[string]interface{}) error {
	sql, args, err := r.sb.Update("communications").
		SetMap(set).
		Where(squirrel.Eq{"comm_id": id}).
		ToSql()
	if err != nil {
		return buildError(op, err)
	}
	res, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return translate(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(op, err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError("communication", id)
	}
	return nil
}

// Delete removes a communication.
func (r *CommunicationRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("communications").
		Where(squirrel.Eq{"comm_id": id}).
		ToSql()
	if err != nil {
		return buildError("delete communication", err)
	}
	res, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return translate("delete communication", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("delete communication", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError("communication", id)
	}
	return nil
}

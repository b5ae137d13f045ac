package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
)

var deliveryLogColumns = []string{
	"log_id", "artefact_type", "artefact_identifier", "recipient_address",
	"channel", "delivery_status", "timestamp", "error_message",
}

// DeliveryLogRepository appends to and reads the delivery audit trail.
// There is no update or delete.
type DeliveryLogRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewDeliveryLogRepository creates a new DeliveryLogRepository
func NewDeliveryLogRepository(database *db.DB) *DeliveryLogRepository {
	return &DeliveryLogRepository{
		db: database,
		sb: database.Builder(),
	}
}

// Record appends an entry and returns its log id.
func (r *DeliveryLogRepository) Record(ctx context.Context, entry *models.DeliveryLog) (int64, error) {
	sql, args, err := r.sb.Insert("delivery_logs").
		Columns("artefact_type", "artefact_identifier", "recipient_address", "channel", "delivery_status", "timestamp", "error_message").
		Values(entry.ArtefactType, entry.ArtefactIdentifier, entry.RecipientAddress,
			string(entry.Channel), string(entry.DeliveryStatus), entry.Timestamp, entry.ErrorMessage).
		Suffix("RETURNING log_id").
		ToSql()
	if err != nil {
		return 0, buildError("record delivery", err)
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, sql, args...).Scan(&id); err != nil {
		return 0, translate("record delivery", err)
	}
	return id, nil
}

// List returns entries matching filter in insertion order.
func (r *DeliveryLogRepository) List(ctx context.Context, filter models.DeliveryFilter) ([]models.DeliveryLog, error) {
	q := r.sb.Select(deliveryLogColumns...).From("delivery_logs")
	if filter.ArtefactType != "" {
		q = q.Where(squirrel.Eq{"artefact_type": filter.ArtefactType})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"delivery_status": string(filter.Status)})
	}
	q = q.OrderBy("log_id ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, buildError("list deliveries", err)
	}
	entries := []models.DeliveryLog{}
	if err := r.db.SelectContext(ctx, &entries, sql, args...); err != nil {
		return nil, translate("list deliveries", err)
	}
	return entries, nil
}

// Count returns the number of entries in the log.
func (r *DeliveryLogRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("delivery_logs").ToSql()
	if err != nil {
		return 0, buildError("count deliveries", err)
	}
	var n int
	if err := r.db.GetContext(ctx, &n, sql, args...); err != nil {
		return 0, translate("count deliveries", err)
	}
	return n, nil
}

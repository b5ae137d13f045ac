package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.DB) *UserRepository {
	return &UserRepository{
		db: database,
		sb: database.Builder(),
	}
}

// Create inserts a new user. A taken user id is a duplicate key error.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("user_id", "password_hash", "name", "role").
		Values(user.UserID, user.PasswordHash, user.DisplayName, string(user.Role)).
		ToSql()
	if err != nil {
		return buildError("create user", err)
	}
	if _, err := r.db.ExecContext(ctx, sql, args...); err != nil {
		return translate("create user", err)
	}
	return nil
}

// CreateIfAbsent inserts the user unless the user id is already taken. It
// reports whether a row was written.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("user_id", "password_hash", "name", "role").
		Values(user.UserID, user.PasswordHash, user.DisplayName, string(user.Role)).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, buildError("create user if absent", err)
	}
	res, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return false, translate("create user if absent", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, translate("create user if absent", err)
	}
	return n > 0, nil
}

// GetByID retrieves a user by user id
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	sql, args, err := r.sb.Select("user_id", "password_hash", "name", "role").
		From("users").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, buildError("get user", err)
	}
	user := &models.User{}
	if err := r.db.GetContext(ctx, user, sql, args...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewNotFoundError("user", userID)
		}
		return nil, translate("get user", err)
	}
	return user, nil
}

// Exists reports whether the user id is taken.
func (r *UserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("users").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return false, buildError("user exists", err)
	}
	var n int
	if err := r.db.GetContext(ctx, &n, sql, args...); err != nil {
		return false, translate("user exists", err)
	}
	return n > 0, nil
}

// UpdatePasswordHash replaces the stored password hash.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	sql, args, err := r.sb.Update("users").
		Set("password_hash", hash).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return buildError("update password", err)
	}
	res, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return translate("update password", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("update password", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError("user", userID)
	}
	return nil
}

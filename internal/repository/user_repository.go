package repository

import (
	"context"
	"database/sql"
	"errors"

	"club-admin-server/config"
	"club-admin-server/internal/apperror"
	"club-admin-server/internal/model"
	"club-admin-server/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// Save : сохраняет нового пользователя, возвращает его с присвоенным id
func (r *UserRepository) Save(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (username, password_hash, role, name, contact)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
	`

	saved := *user
	err := r.DB.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.Role, user.Name, user.Contact).
		Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperror.New(apperror.KindUsernameDuplicated, model.UsernameTakenDetail(user.Username))
		}
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return &saved, nil
}

// FindByUsername : nil, nil если пользователя нет
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, password_hash, role, name, contact, created_at FROM users WHERE username = $1`
	return r.findOne(ctx, query, username, "[UserRepo] не удалось найти пользователя по username")
}

// FindByID : nil, nil если пользователя нет
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, password_hash, role, name, contact, created_at FROM users WHERE id = $1`
	return r.findOne(ctx, query, id, "[UserRepo] не удалось найти пользователя по id")
}

// Update : обновляет всё, кроме username
func (r *UserRepository) Update(ctx context.Context, exec sqlx.ExtContext, user *model.User) error {
	query := `
		UPDATE users
		SET password_hash = $2, role = $3, name = $4, contact = $5
		WHERE id = $1
	`
	result, err := exec.ExecContext(ctx, query, user.ID, user.PasswordHash, user.Role, user.Name, user.Contact)
	if err != nil {
		return util.LogError("[UserRepo] не удалось обновить пользователя", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] не удалось проверить, обновлён ли пользователь", err)
	}
	if rowsAffected == 0 {
		return apperror.New(apperror.KindUserNotFound, model.InvalidAccountDetail)
	}

	return nil
}

// BeginTX : rollback после commit ничего не делает, его можно вызывать через defer
func (r *UserRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, util.LogError("[UserRepo] не удалось начать транзакцию", err)
	}
	return tx, tx.Rollback, tx.Commit, nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}, message string) (*model.User, error) {
	var user model.User
	err := sqlx.GetContext(ctx, r.DB, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError(message, err)
	}
	return &user, nil
}

package ports

import (
	"club-admin-server/internal/model"
	"context"

	"github.com/jmoiron/sqlx"
)

// UserRepository : SQL слой. Find* возвращают nil, nil если пользователя нет
type UserRepository interface {
	Save(ctx context.Context, user *model.User) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, exec sqlx.ExtContext, user *model.User) error
	// BeginTX : exec транзакции, rollback и commit
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

type UserService interface {
	Register(ctx context.Context, input model.RegisterInput) (*model.User, error)
	ValidateUsernameDuplication(ctx context.Context, username string) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, input model.UpdateInput, authorizationHeader string) (*model.User, error)
}

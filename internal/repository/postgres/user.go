package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO "user" (firstname, surname, username, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.FirstName,
		user.Surname,
		user.Username,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID)
	return translate("user", err)
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT * FROM "user" WHERE id = $1`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, translate("user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM "user" WHERE username = $1`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, translate("user", err)
	}
	return &user, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE "user" SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return translate("user", err)
	}
	return checkAffected("user", result)
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"marketplace/entities"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) UserRepository {
	if db == nil {
		panic("db is nil")
	}
	return UserRepository{
		db: db,
	}
}

func (ur UserRepository) Create(ctx context.Context, user entities.User) (entities.UserCreateResponse, error) {
	var userID uuid.UUID
	err := ur.db.Conn.QueryRowContext(
		ctx,
		`
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		RETURNING user_id`,
		user.Name, user.Email,
	).Scan(&userID)
	if isErrorUniqueViolation(err) {
		return entities.UserCreateResponse{}, ErrEmailTaken
	}
	if err != nil {
		return entities.UserCreateResponse{}, fmt.Errorf("could not save user: %w", err)
	}

	return entities.UserCreateResponse{UserID: userID}, nil
}

func (ur UserRepository) ByID(ctx context.Context, userID uuid.UUID) (entities.User, error) {
	var user entities.User
	err := ur.db.Conn.GetContext(ctx, &user, `
		SELECT
		    *
		FROM
		    users
		WHERE
		    user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("could not get user: %w", err)
	}

	return user, nil
}

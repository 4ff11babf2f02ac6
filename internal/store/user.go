package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const sqlCheckIfEmailExists = `
SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

func (s *Store) CheckIfEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, sqlCheckIfEmailExists, email)
	if err != nil {
		s.logger.Error(ctx, "failed to check if email exists", err)
		return false, fmt.Errorf("failed to check if email exists: %w", err)
	}
	return exists, nil
}

const sqlCreateUserOnEmailSignup = `
INSERT INTO users (first_name, last_name, email, hashed_password)
VALUES ($1, $2, $3, $4)
RETURNING id, first_name, last_name, email, hashed_password, google_id, created_at`

func (s *Store) CreateUserOnEmailSignup(
	ctx context.Context, firstName, lastName, email, hashedPassword string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlCreateUserOnEmailSignup, firstName, lastName, email, hashedPassword)
	if err != nil {
		s.logger.Error(ctx, "failed to create user on email signup", err)
		return User{}, fmt.Errorf("failed to create user on email signup: %w", err)
	}
	return user, nil
}

const sqlCreateUserOnGoogleSignIn = `
INSERT INTO users (first_name, last_name, email, google_id)
VALUES ($1, $2, $3, $4)
RETURNING id, first_name, last_name, email, hashed_password, google_id, created_at`

func (s *Store) CreateUserOnGoogleSignIn(
	ctx context.Context, firstName, lastName, email, googleID string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlCreateUserOnGoogleSignIn, firstName, lastName, email, googleID)
	if err != nil {
		s.logger.Error(ctx, "failed to create user on google sign-in", err)
		return User{}, fmt.Errorf("failed to create user on google sign-in: %w", err)
	}
	return user, nil
}

const sqlGetUserByEmail = `
SELECT id, first_name, last_name, email, hashed_password, google_id, created_at
FROM users
WHERE email = $1`

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByEmail, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by email", err)
		return User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

const sqlGetUserByID = `
SELECT id, first_name, last_name, email, hashed_password, google_id, created_at
FROM users
WHERE id = $1`

func (s *Store) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by id", err)
		return User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

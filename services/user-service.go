package services

import (
	"context"
	"errors"
	"time"

	"github.com/shii2003/TaskManagementApp/apperrors"
	"github.com/shii2003/TaskManagementApp/logging"
	"github.com/shii2003/TaskManagementApp/models"
	"github.com/shii2003/TaskManagementApp/repositories"
	"github.com/shii2003/TaskManagementApp/utils"
)

type UserService struct {
	Users  repositories.UserRepository
	Tokens *TokenService
}

func NewUserService(users repositories.UserRepository, tokens *TokenService) *UserService {
	return &UserService{Users: users, Tokens: tokens}
}

// Register creates an account and logs it straight in. The uniqueness check
// here is check-then-insert; the unique index on email catches the race two
// concurrent registrations could otherwise win together.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	email = utils.NormalizeEmail(email)

	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.Conflict("User with this email already exists")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		logging.Logger.Errorf("Event ID: REGISTER_LOOKUP_FAILED, Description: Error checking existing user: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while creating user")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logging.Logger.Errorf("Event ID: REGISTER_HASH_FAILED, Description: Failed to hash password: %v", err)
		return nil, apperrors.Internal("Something went wrong while creating user")
	}

	now := time.Now().UTC()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.Users.Insert(ctx, user)
	if err != nil {
		logging.Logger.Errorf("Event ID: REGISTER_INSERT_FAILED, Description: Error creating user: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while creating user")
	}
	user.ID = id

	token, err := s.Tokens.GenerateToken(user.ID.Hex(), user.Email, user.Name)
	if err != nil {
		return nil, apperrors.WrapInternal(err, "Something went wrong while creating user")
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: New user registered: %s", user.Email)

	return &models.AuthResponse{Token: token, User: user.Public()}, nil
}

// Login verifies credentials and issues a token. The "user does not exist" and
// "wrong password" messages are deliberately distinct; that matches the
// observed behavior even though it leaks which emails are registered.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	email = utils.NormalizeEmail(email)

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthorized("User does not exist.")
		}
		logging.Logger.Errorf("Event ID: LOGIN_LOOKUP_FAILED, Description: Error logging in user: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while logging in")
	}

	if !utils.CheckPassword(password, user.Password) {
		return nil, apperrors.Unauthorized("Wrong password.")
	}

	token, err := s.Tokens.GenerateToken(user.ID.Hex(), user.Email, user.Name)
	if err != nil {
		return nil, apperrors.WrapInternal(err, "Something went wrong while logging in")
	}

	logging.Logger.Infof("Event ID: USER_LOGGED_IN, Description: User logged in: %s", user.Email)

	return &models.AuthResponse{Token: token, User: user.Public()}, nil
}

// GetUsers returns the redacted directory used by the assignee picker.
func (s *UserService) GetUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.Users.FindAll(ctx)
	if err != nil {
		logging.Logger.Errorf("Event ID: USERS_FETCH_FAILED, Description: Error fetching users: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while fetching users")
	}
	if len(users) == 0 {
		return nil, apperrors.NotFound("No users found")
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}

// SeedCollaborators provisions the four fixed assignable accounts on an empty
// database. Runs at startup; a non-empty users collection skips seeding.
func (s *UserService) SeedCollaborators(ctx context.Context) error {
	count, err := s.Users.Count(ctx)
	if err != nil {
		return apperrors.WrapInternal(err, "Something went wrong while seeding users")
	}
	if count > 0 {
		logging.Logger.Info("Event ID: SEED_SKIPPED, Description: Users already exist. Skipping seeding.")
		return nil
	}

	seed := []struct {
		name  string
		email string
	}{
		{"John Doe", "john.doe@example.com"},
		{"Jane Smith", "jane.smith@example.com"},
		{"Mike Johnson", "mike.johnson@example.com"},
		{"Sarah Wilson", "sarah.wilson@example.com"},
	}

	for _, entry := range seed {
		hashed, err := utils.HashPassword("Password@123")
		if err != nil {
			return apperrors.Internal("Something went wrong while seeding users")
		}
		now := time.Now().UTC()
		user := &models.User{
			Name:      entry.name,
			Email:     entry.email,
			Password:  hashed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.Users.Insert(ctx, user); err != nil {
			return apperrors.WrapInternal(err, "Something went wrong while seeding users")
		}
	}

	logging.Logger.Info("Event ID: SEED_COMPLETED, Description: Collaborator accounts seeded successfully.")
	return nil
}

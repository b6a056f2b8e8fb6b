package service

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Signup(ctx context.Context, creds domain.Credentials, profile domain.Profile) (domain.UserId, error)
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	Refresh(ctx context.Context, userId domain.UserId) (string, error)
}

type AuthStorage interface {
	SaveUser(ctx context.Context, user domain.User, profile domain.Profile) error
	User(ctx context.Context, email domain.Email) (domain.User, error)
	UserById(ctx context.Context, id domain.UserId) (domain.User, error)
	Profile(ctx context.Context, id domain.UserId) (domain.Profile, error)
}

type Email interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type Auth struct {
	storage AuthStorage
	email   Email
	jwt     Jwt
	cfg     *config.Public
}

func NewAuth(storage AuthStorage, email Email, jwt Jwt, cfg *config.Public) *Auth {
	return &Auth{
		storage: storage,
		email:   email,
		jwt:     jwt,
		cfg:     cfg,
	}
}

var errInvalidCredentials = errors.Unauthorized("Invalid credentials")

// Signup creates the account and its pending profile. The user signs in
// separately afterwards.
func (a *Auth) Signup(ctx context.Context, creds domain.Credentials, profile domain.Profile) (domain.UserId, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if err := a.email.IsCorrect(email); err != nil {
		return uuid.Nil, err
	}
	if utf8.RuneCountInString(creds.Password) < a.cfg.PasswordMinLen {
		return uuid.Nil, errors.BadRequest("Password is too short")
	}
	// bcrypt ignores everything past 72 bytes
	if len(creds.Password) > 72 {
		return uuid.Nil, errors.BadRequest("Password is too long")
	}
	if profile.BloodType != "" && !profile.BloodType.Valid() {
		return uuid.Nil, errors.BadRequest("Unknown blood type")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return uuid.Nil, err
	}

	user := domain.User{Id: uuid.New(), Email: email, PassHash: string(passHash)}
	profile.Name = utils.SanitizeText(profile.Name)
	profile.City = utils.SanitizeText(profile.City)
	profile.Region = utils.SanitizeText(profile.Region)
	if err := a.storage.SaveUser(ctx, user, profile); err != nil {
		return uuid.Nil, err
	}

	logger.Log.Info("user signed up", "user_id", user.Id)
	return user.Id, nil
}

// Login checks the credentials and returns an access token. Unknown email and
// wrong password look the same to the caller.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if err := a.email.IsCorrect(email); err != nil {
		return "", err
	}

	user, err := a.storage.User(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		logger.Log.Debug("password verification failed", "user_id", user.Id)
		return "", errInvalidCredentials
	}

	return a.issue(ctx, user)
}

// Refresh reissues the token with the admin flag as it is stored now.
func (a *Auth) Refresh(ctx context.Context, userId domain.UserId) (string, error) {
	user, err := a.storage.UserById(ctx, userId)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.Unauthorized("Account no longer exists")
		}
		return "", err
	}
	return a.issue(ctx, user)
}

func (a *Auth) issue(ctx context.Context, user domain.User) (string, error) {
	profile, err := a.storage.Profile(ctx, user.Id)
	if err != nil && !errors.IsNotFound(err) {
		return "", err
	}
	if err == nil && profile.Status() == domain.StatusBanned {
		return "", errors.New("Account suspended", http.StatusForbidden)
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", err
	}
	return token, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inbox_service/internal/apperror"
	"inbox_service/internal/lib/jwt"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/lib/verification"
	"inbox_service/internal/models"
	"inbox_service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

type Auth struct {
	log          *slog.Logger
	usrSaver     UserSaver
	usrProvider  UserProvider
	publisher    verification.Publisher
	secret       string
	tokenTTL     time.Duration
	codeTTL      time.Duration
	emailSubject string
	now          func() time.Time
}

type UserSaver interface {
	SaveUser(ctx context.Context, user models.User) (int64, error)
	UpdateUnverifiedUser(ctx context.Context, user models.User) error
	SetVerified(ctx context.Context, id int64) error
}

type UserProvider interface {
	UserByIdentifier(ctx context.Context, identifier string) (models.User, error)
	UserByUsername(ctx context.Context, username string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

type Options struct {
	Secret       string
	TokenTTL     time.Duration
	CodeTTL      time.Duration
	EmailSubject string
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	publisher verification.Publisher,
	opts Options,
) *Auth {
	return &Auth{
		log:          log,
		usrSaver:     userSaver,
		usrProvider:  userProvider,
		publisher:    publisher,
		secret:       opts.Secret,
		tokenTTL:     opts.TokenTTL,
		codeTTL:      opts.CodeTTL,
		emailSubject: opts.EmailSubject,
		now:          time.Now,
	}
}

// * Login checks the credentials and issues a session token.
// identifier is matched exactly against username or email.
func (a *Auth) Login(ctx context.Context, identifier, password string) (models.Session, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")

			return models.Session{}, apperror.NewNotFound("No user found with the credentials", err)
		}

		log.Error("failed to get user", sl.Err(err))

		return models.Session{}, apperror.NewInternal("Failed to sign in", fmt.Errorf("%s: %w", op, err))
	}

	if !user.IsVerified {
		log.Info("login attempt on unverified account", slog.Int64("uid", user.ID))

		return models.Session{}, apperror.NewNotVerified("Please verify your account before login")
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return models.Session{}, apperror.NewBadCredentials("Incorrect password")
	}

	token, expiresAt, err := jwt.NewToken(user, a.secret, a.tokenTTL, a.now())
	if err != nil {
		log.Error("failed to generate session token", sl.Err(err))

		return models.Session{}, apperror.NewInternal("Failed to sign in", fmt.Errorf("%s: %w", op, err))
	}

	log.Info("user logged in successfully", slog.Int64("uid", user.ID))

	return models.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Claims:    user.Claims(),
	}, nil
}

// ValidateSession decodes a session token. Only signature and expiry are checked.
func (a *Auth) ValidateSession(token string) (models.Claims, error) {
	claims, err := jwt.ParseToken(token, a.secret)
	if err != nil {
		return models.Claims{}, apperror.NewUnauthenticated("Not authenticated", err)
	}

	return claims, nil
}

// * Register creates an unverified account, or refreshes an unverified one
// registered with the same email, and sends a verification code.
func (a *Auth) Register(ctx context.Context, username, email, password string) error {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op))

	byName, err := a.usrProvider.UserByUsername(ctx, username)
	switch {
	case err == nil && byName.IsVerified:
		return apperror.NewConflict("Username is already taken")
	case err != nil && !errors.Is(err, storage.ErrUserNotFound):
		log.Error("failed to check username", sl.Err(err))

		return apperror.NewInternal("Failed to register user", fmt.Errorf("%s: %w", op, err))
	}

	code, err := verification.NewCode()
	if err != nil {
		log.Error("failed to generate verification code", sl.Err(err))

		return apperror.NewInternal("Failed to register user", fmt.Errorf("%s: %w", op, err))
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return apperror.NewInternal("Failed to register user", fmt.Errorf("%s: %w", op, err))
	}

	expiry := a.now().Add(a.codeTTL)

	byEmail, err := a.usrProvider.UserByEmail(ctx, email)
	switch {
	case err == nil && byEmail.IsVerified:
		return apperror.NewConflict("User already exists with this email")

	case err == nil:
		byEmail.PassHash = passHash
		byEmail.VerifyCode = code
		byEmail.VerifyCodeExpiry = expiry

		if err := a.usrSaver.UpdateUnverifiedUser(ctx, byEmail); err != nil {
			log.Error("failed to update unverified user", sl.Err(err))

			return apperror.NewInternal("Failed to register user", fmt.Errorf("%s: %w", op, err))
		}

		username = byEmail.Username

	case errors.Is(err, storage.ErrUserNotFound):
		id, err := a.usrSaver.SaveUser(ctx, models.User{
			Username:            username,
			Email:               email,
			PassHash:            passHash,
			VerifyCode:          code,
			VerifyCodeExpiry:    expiry,
			IsVerified:          false,
			IsAcceptingMessages: true,
		})
		if err != nil {
			if errors.Is(err, storage.ErrUserExists) {
				log.Warn("user already exists")

				return apperror.NewConflict("Username is already taken")
			}

			log.Error("failed to save user", sl.Err(err))

			return apperror.NewInternal("Failed to register user", fmt.Errorf("%s: %w", op, err))
		}

		log.Info("user registered", slog.Int64("uid", id))

	default:
		log.Error("failed to check email", sl.Err(err))

		return apperror.NewInternal("Failed to register user", fmt.Errorf("%s: %w", op, err))
	}

	if err := verification.SendCode(ctx, log, a.publisher, a.emailSubject, email, username, code); err != nil {
		return apperror.NewInternal("Failed to send verification email", err)
	}

	return nil
}

// VerifyCode marks the account verified when code matches and has not expired.
func (a *Auth) VerifyCode(ctx context.Context, username, code string) error {
	const op = "auth.VerifyCode"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apperror.NewNotFound("User not found", err)
		}

		log.Error("failed to get user", sl.Err(err))

		return apperror.NewInternal("Failed to verify user", fmt.Errorf("%s: %w", op, err))
	}

	if user.IsVerified {
		return nil
	}

	if user.VerifyCode == "" || user.VerifyCode != code {
		return apperror.NewInvalidCode("Incorrect verification code")
	}

	if user.IsCodeExpired(a.now()) {
		return apperror.NewCodeExpired("Verification code has expired, please sign up again to get a new code")
	}

	if err := a.usrSaver.SetVerified(ctx, user.ID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apperror.NewNotFound("User not found", err)
		}

		log.Error("failed to mark user verified", sl.Err(err))

		return apperror.NewInternal("Failed to verify user", fmt.Errorf("%s: %w", op, err))
	}

	log.Info("user verified", slog.Int64("uid", user.ID))

	return nil
}

// ResendCode issues a fresh code for an unverified account.
func (a *Auth) ResendCode(ctx context.Context, email string) error {
	const op = "auth.ResendCode"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apperror.NewNotFound("User not found", err)
		}

		log.Error("failed to get user", sl.Err(err))

		return apperror.NewInternal("Failed to resend code", fmt.Errorf("%s: %w", op, err))
	}

	if user.IsVerified {
		return nil
	}

	code, err := verification.NewCode()
	if err != nil {
		return apperror.NewInternal("Failed to resend code", fmt.Errorf("%s: %w", op, err))
	}

	user.VerifyCode = code
	user.VerifyCodeExpiry = a.now().Add(a.codeTTL)

	if err := a.usrSaver.UpdateUnverifiedUser(ctx, user); err != nil {
		log.Error("failed to store new code", sl.Err(err))

		return apperror.NewInternal("Failed to resend code", fmt.Errorf("%s: %w", op, err))
	}

	if err := verification.SendCode(ctx, log, a.publisher, a.emailSubject, user.Email, user.Username, code); err != nil {
		return apperror.NewInternal("Failed to send verification email", err)
	}

	return nil
}

// UsernameAvailable reports whether no verified account holds username.
func (a *Auth) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	const op = "auth.UsernameAvailable"

	user, err := a.usrProvider.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return true, nil
		}

		a.log.Error("failed to check username", slog.String("op", op), sl.Err(err))

		return false, apperror.NewInternal("Error checking username", fmt.Errorf("%s: %w", op, err))
	}

	return !user.IsVerified, nil
}

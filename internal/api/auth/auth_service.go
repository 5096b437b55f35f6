package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/parkpal/app/observability/metrics"
	"github.com/FACorreiaa/parkpal/config"
	"github.com/FACorreiaa/parkpal/internal/api"
	"github.com/FACorreiaa/parkpal/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// Register creates the user and opens a session for it.
	Register(ctx context.Context, req types.RegisterRequest) (*types.User, string, error)
	// Login checks credentials and opens a session. Unknown user and wrong password
	// both return api.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*types.User, string, error)
	// Logout deletes the session behind token. Invalid tokens are ignored.
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a session token to its user, or api.ErrUnauthenticated.
	Authenticate(ctx context.Context, token string) (*types.User, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	repo     UserRepository
	sessions SessionStore
	cfg      config.SessionConfig
	hashCost int
	now      func() time.Time
}

func NewService(repo UserRepository, sessions SessionStore, cfg config.SessionConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		sessions: sessions,
		cfg:      cfg,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (*types.User, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"), slog.String("username", req.Username))

	if _, err := s.repo.GetUserByUsername(ctx, req.Username); err == nil {
		span.SetStatus(codes.Error, "username taken")
		return nil, "", api.NewError(api.ErrUsernameTaken, "Username already exists")
	} else if !errors.Is(err, api.ErrNotFound) {
		span.RecordError(err)
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, req.Username, string(hash), req.Email, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create user failed")
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "")
	return user, token, nil
}

func (s *ServiceImpl) Login(ctx context.Context, username, password string) (*types.User, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			s.countLogin(ctx, "unknown_user")
			span.SetStatus(codes.Error, "invalid credentials")
			return nil, "", api.NewError(api.ErrInvalidCredentials, "Invalid username or password")
		}
		span.RecordError(err)
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.countLogin(ctx, "bad_password")
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, "", api.NewError(api.ErrInvalidCredentials, "Invalid username or password")
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	s.countLogin(ctx, "success")
	span.SetStatus(codes.Ok, "")
	return user, token, nil
}

func (s *ServiceImpl) Logout(ctx context.Context, token string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Logout")
	defer span.End()

	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

func (s *ServiceImpl) Authenticate(ctx context.Context, token string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Authenticate")
	defer span.End()

	l := s.logger.With(slog.String("method", "Authenticate"))

	claims, err := s.parseToken(token)
	if err != nil {
		l.DebugContext(ctx, "Session token rejected", slog.Any("error", err))
		span.SetStatus(codes.Error, "invalid token")
		return nil, fmt.Errorf("%w: %v", api.ErrUnauthenticated, err)
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			span.SetStatus(codes.Error, "session gone")
			return nil, fmt.Errorf("%w: session ended", api.ErrUnauthenticated)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.UserID.String() != claims.UserID {
		span.SetStatus(codes.Error, "session user mismatch")
		return nil, fmt.Errorf("%w: session user mismatch", api.ErrUnauthenticated)
	}

	user, err := s.repo.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("%w: user gone", api.ErrUnauthenticated)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	return user, nil
}

func (s *ServiceImpl) openSession(ctx context.Context, userID uuid.UUID) (string, error) {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	claims := Claims{
		SessionID: sess.ID,
		UserID:    userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

func (s *ServiceImpl) parseToken(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, errors.New("token has no session id")
	}
	return claims, nil
}

func (s *ServiceImpl) countLogin(ctx context.Context, outcome string) {
	metrics.Get().LoginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// traceUser is shared by handlers that annotate spans with the session user.
func traceUser(span trace.Span, user *types.User) {
	if user != nil {
		span.SetAttributes(attribute.String("user.id", user.ID.String()))
	}
}

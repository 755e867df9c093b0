package auth

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/hitecare/carehome-api/internal/config"
	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/repository"
	"github.com/hitecare/carehome-api/internal/session"
	"github.com/hitecare/carehome-api/pkg/auth"
	apperrors "github.com/hitecare/carehome-api/pkg/errors"
	"github.com/hitecare/carehome-api/pkg/logger"
	"github.com/hitecare/carehome-api/pkg/metrics"
	"github.com/hitecare/carehome-api/pkg/security"
)

type Service struct {
	userRepo repository.UserRepository
	sessions *session.Manager
	tokens   auth.TokenService
	cfg      config.AuthConfig
	log      *logger.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewService(userRepo repository.UserRepository, sessions *session.Manager,
	tokens auth.TokenService, cfg config.AuthConfig, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		userRepo: userRepo,
		sessions: sessions,
		tokens:   tokens,
		cfg:      cfg,
		log:      log,
		metrics:  m,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiterFor throttles login attempts per username so guessing one account
// cannot lock everyone else out.
func (s *Service) limiterFor(username string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[username]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.LoginRate), s.cfg.LoginBurst)
		s.limiters[username] = limiter
	}
	return limiter
}

// Login verifies the credentials against the stored digest and establishes a
// session. Unknown usernames and wrong passwords are indistinguishable to the
// caller. When hash upgrading is enabled, a successful login against a legacy
// SHA-256 digest rewrites the stored hash as bcrypt.
func (s *Service) Login(ctx context.Context, username, password string) (*model.TokenResponse, error) {
	if !s.limiterFor(username).Allow() {
		s.metrics.LoginAttempts.WithLabelValues("throttled").Inc()
		return nil, apperrors.NewAuthentication("too many login attempts, try again later")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		s.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.NewAuthentication("invalid credentials")
	}

	if err := security.Verify(user.PasswordHash, password); err != nil {
		s.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.NewAuthentication("invalid credentials")
	}

	if s.cfg.UpgradeHashes && security.IsLegacyHash(user.PasswordHash) {
		if rehash, err := security.VerifyAndUpgrade(user.PasswordHash, password, s.cfg.BcryptCost); err == nil && rehash != "" {
			if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, rehash); err != nil {
				// Login still succeeds; the old digest keeps working.
				s.log.Error(err, "failed to upgrade password hash", "username", username)
			}
		}
	}

	sess := s.sessions.Create(session.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})

	token, err := s.tokens.GenerateSessionToken(sess.ID, user.Username)
	if err != nil {
		s.sessions.Revoke(sess.ID)
		return nil, apperrors.NewStorage(err)
	}

	s.metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.metrics.SessionsActive.Set(float64(s.sessions.Count()))
	s.log.Info("user logged in", "username", user.Username, "role", user.Role)

	return &model.TokenResponse{
		AccessToken: token,
		Username:    user.Username,
		Role:        user.Role,
	}, nil
}

// Resolve maps a bearer token to its live session, sliding the idle timer.
func (s *Service) Resolve(token string) (*session.Session, error) {
	sid, err := s.tokens.ValidateSessionToken(token)
	if err != nil {
		return nil, apperrors.NewAuthentication("invalid token")
	}
	return s.sessions.Get(sid)
}

// Logout revokes the session behind the token. Revoking an already expired
// session is not an error.
func (s *Service) Logout(token string) {
	if sid, err := s.tokens.ValidateSessionToken(token); err == nil {
		s.sessions.Revoke(sid)
		s.metrics.SessionsActive.Set(float64(s.sessions.Count()))
	}
}

// CreateUser registers a new account. Only admins may manage accounts.
func (s *Service) CreateUser(ctx context.Context, actor *session.Session, req *model.CreateUserRequest) (*model.User, error) {
	if !actor.Principal.IsAdmin() {
		return nil, apperrors.NewAuthorization("only admins may manage user accounts")
	}

	hash, err := security.NewBcryptHasher(s.cfg.BcryptCost).Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewValidation("could not hash password")
	}

	user := &model.User{
		FirstName:    req.FirstName,
		Surname:      req.Surname,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

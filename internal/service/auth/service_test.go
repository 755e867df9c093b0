package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitecare/carehome-api/internal/config"
	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/session"
	pkgauth "github.com/hitecare/carehome-api/pkg/auth"
	apperrors "github.com/hitecare/carehome-api/pkg/errors"
	"github.com/hitecare/carehome-api/pkg/logger"
	"github.com/hitecare/carehome-api/pkg/metrics"
	"github.com/hitecare/carehome-api/pkg/security"
)

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if _, exists := f.users[u.Username]; exists {
		return apperrors.NewConstraint("user already exists", nil)
	}
	u.ID = f.nextID
	f.nextID++
	stored := *u
	f.users[u.Username] = &stored
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id int64) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFound("user")
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, apperrors.NewNotFound("user")
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return apperrors.NewNotFound("user")
}

var testMetrics = metrics.NewMetrics("auth_service_test")

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		LoginRate:  100,
		LoginBurst: 100,
		BcryptCost: 4,
	}
}

func newTestService(t *testing.T, cfg config.AuthConfig) (*Service, *fakeUserRepo, *session.Manager) {
	t.Helper()
	repo := newFakeUserRepo()
	log := logger.NewLogger(nil)
	sessions := session.NewManager(time.Minute, log)
	tokens := pkgauth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	return NewService(repo, sessions, tokens, cfg, log, testMetrics), repo, sessions
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password, role string) {
	t.Helper()
	hash, err := security.NewLegacyHasher().Hash(password)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &model.User{
		FirstName:    "Udo",
		Surname:      "Mann",
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}))
}

func TestLogin(t *testing.T) {
	svc, repo, _ := newTestService(t, testConfig())
	seedUser(t, repo, "u.mann", "geheim", model.RoleAdmin)

	resp, err := svc.Login(context.Background(), "u.mann", "geheim")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "u.mann", resp.Username)
	assert.Equal(t, model.RoleAdmin, resp.Role)

	sess, err := svc.Resolve(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u.mann", sess.Principal.Username)
	assert.True(t, sess.Principal.IsAdmin())
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, sessions := newTestService(t, testConfig())
	seedUser(t, repo, "u.mann", "geheim", model.RoleAdmin)

	_, err := svc.Login(context.Background(), "u.mann", "wrong")
	assert.True(t, apperrors.IsAuthentication(err))
	assert.Zero(t, sessions.Count(), "no session established")
}

func TestLoginUnknownUsername(t *testing.T) {
	svc, _, sessions := newTestService(t, testConfig())

	_, err := svc.Login(context.Background(), "nobody", "geheim")
	assert.True(t, apperrors.IsAuthentication(err))
	assert.Zero(t, sessions.Count())
}

func TestLoginThrottled(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRate = 0.001
	cfg.LoginBurst = 1
	svc, repo, _ := newTestService(t, cfg)
	seedUser(t, repo, "u.mann", "geheim", model.RoleAdmin)
	seedUser(t, repo, "a.suarez", "pflege1", model.RoleStaff)

	_, err := svc.Login(context.Background(), "u.mann", "geheim")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "u.mann", "geheim")
	assert.True(t, apperrors.IsAuthentication(err))

	// Throttling is per username; other accounts stay unaffected.
	_, err = svc.Login(context.Background(), "a.suarez", "pflege1")
	assert.NoError(t, err)
}

func TestLoginKeepsLegacyHashByDefault(t *testing.T) {
	svc, repo, _ := newTestService(t, testConfig())
	seedUser(t, repo, "u.mann", "geheim", model.RoleAdmin)
	before := repo.users["u.mann"].PasswordHash

	_, err := svc.Login(context.Background(), "u.mann", "geheim")
	require.NoError(t, err)
	assert.Equal(t, before, repo.users["u.mann"].PasswordHash, "stored digest untouched")
}

func TestLoginUpgradesLegacyHashWhenEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.UpgradeHashes = true
	svc, repo, _ := newTestService(t, cfg)
	seedUser(t, repo, "u.mann", "geheim", model.RoleAdmin)

	_, err := svc.Login(context.Background(), "u.mann", "geheim")
	require.NoError(t, err)
	assert.False(t, security.IsLegacyHash(repo.users["u.mann"].PasswordHash), "digest rehashed to bcrypt")

	// The rehash keeps working on the next login.
	_, err = svc.Login(context.Background(), "u.mann", "geheim")
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	svc, repo, sessions := newTestService(t, testConfig())
	seedUser(t, repo, "u.mann", "geheim", model.RoleAdmin)

	resp, err := svc.Login(context.Background(), "u.mann", "geheim")
	require.NoError(t, err)

	svc.Logout(resp.AccessToken)
	assert.Zero(t, sessions.Count())

	_, err = svc.Resolve(resp.AccessToken)
	assert.True(t, apperrors.IsAuthentication(err))
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	svc, repo, sessions := newTestService(t, testConfig())
	_ = repo

	staff := sessions.Create(session.Principal{UserID: 2, Username: "a.suarez", Role: model.RoleStaff})
	_, err := svc.CreateUser(context.Background(), staff, &model.CreateUserRequest{
		FirstName: "Lin", Surname: "Park", Username: "l.park", Password: "park-geheim", Role: model.RoleStaff,
	})
	assert.True(t, apperrors.IsAuthorization(err))

	admin := sessions.Create(session.Principal{UserID: 1, Username: "u.mann", Role: model.RoleAdmin})
	user, err := svc.CreateUser(context.Background(), admin, &model.CreateUserRequest{
		FirstName: "Lin", Surname: "Park", Username: "l.park", Password: "park-geheim", Role: model.RoleStaff,
	})
	require.NoError(t, err)
	assert.False(t, security.IsLegacyHash(user.PasswordHash), "new accounts start on bcrypt")
}

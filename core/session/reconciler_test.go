package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"spoty/core/auth"
	"spoty/core/session"
	"spoty/model"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeProvider returns canned values; every unused method fails loudly so a
// test exercising the wrong path is visible.
type fakeProvider struct {
	signInCred  *model.Credential
	signInErr   error
	createCred  *model.Credential
	createErr   error
	exchCred    *model.Credential
	exchErr     error
	claims      *auth.Claims
	verifyErr   error
	issuedToken string
	issueErr    error
	revokeErr   error
	revoked     []string
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (*model.Credential, error) {
	return p.signInCred, p.signInErr
}

func (p *fakeProvider) CreateCredential(ctx context.Context, email, password, displayName string) (*model.Credential, error) {
	return p.createCred, p.createErr
}

func (p *fakeProvider) ExchangeFederated(ctx context.Context, kind, code string) (*model.Credential, error) {
	return p.exchCred, p.exchErr
}

func (p *fakeProvider) FederatedConsentURL(kind, state string) (string, error) {
	return "https://consent.example.com/" + kind + "?state=" + state, nil
}

func (p *fakeProvider) UpdateDisplayName(ctx context.Context, credentialID, displayName string) error {
	return nil
}

func (p *fakeProvider) IssueToken(cred *model.Credential) (string, error) {
	return p.issuedToken, p.issueErr
}

func (p *fakeProvider) VerifyToken(ctx context.Context, token string) (*auth.Claims, error) {
	return p.claims, p.verifyErr
}

func (p *fakeProvider) RevokeToken(ctx context.Context, token string) error {
	p.revoked = append(p.revoked, token)
	return p.revokeErr
}

// fakeUserRepo is an in-memory UserRepository whose reads can be forced to
// fail.
type fakeUserRepo struct {
	users     map[string]*model.User
	getErr    error
	createErr error
	created   []*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = user
	r.created = append(r.created, user)
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	if u, ok := r.users[id]; ok {
		u.Role = role
	}
	return nil
}

func claimsFor(id, email, name string) *auth.Claims {
	return &auth.Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: id,
			ID:      "jti-1",
		},
	}
}

func TestRestore_EmptyTokenResolvesToNil(t *testing.T) {
	provider := &fakeProvider{}
	users := newFakeUserRepo()
	rec := session.NewReconciler(provider, users)

	require.Nil(t, rec.Restore(context.Background(), ""))
	require.Nil(t, rec.Sessions().Current())
}

func TestRestore_BadTokenResolvesToNil(t *testing.T) {
	provider := &fakeProvider{verifyErr: errors.New("token is expired")}
	users := newFakeUserRepo()
	rec := session.NewReconciler(provider, users)

	require.Nil(t, rec.Restore(context.Background(), "stale-token"))
	require.Nil(t, rec.Sessions().Current())
}

func TestRestore_PublishesStoredUser(t *testing.T) {
	name := "Alice"
	stored := &model.User{
		ID: "u1", Email: "old@example.com", DisplayName: &name,
		Role: model.RoleAdmin, CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	provider := &fakeProvider{claims: claimsFor("u1", "alice@example.com", "Alice L")}
	users := newFakeUserRepo()
	users.users["u1"] = stored
	rec := session.NewReconciler(provider, users)

	got := rec.Restore(context.Background(), "good-token")
	require.NotNil(t, got)
	// The credential owns email; the stored display name wins.
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "Alice", *got.DisplayName)
	require.Equal(t, model.RoleAdmin, got.Role)
	require.Equal(t, got, rec.Sessions().Current())
}

func TestRestore_DegradedStoreSynthesizesSession(t *testing.T) {
	provider := &fakeProvider{claims: claimsFor("u1", "alice@example.com", "Alice")}
	users := newFakeUserRepo()
	users.getErr = &mysql.MySQLError{Number: 1045, Message: "Access denied for user"}
	rec := session.NewReconciler(provider, users)

	before := time.Now()
	got := rec.Restore(context.Background(), "good-token")
	require.NotNil(t, got)
	require.Equal(t, "u1", got.ID)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "Alice", *got.DisplayName)
	// The synthesized session never grants elevated rights and its creation
	// time is the fallback moment, not the real record's.
	require.Equal(t, model.RoleUser, got.Role)
	require.False(t, got.CreatedAt.Before(before))
	require.Equal(t, got, rec.Sessions().Current())
}

func TestRestore_DegradedStoreDefaultsMissingName(t *testing.T) {
	provider := &fakeProvider{claims: claimsFor("u1", "alice@example.com", "")}
	users := newFakeUserRepo()
	users.getErr = errors.New("client is offline")
	rec := session.NewReconciler(provider, users)

	got := rec.Restore(context.Background(), "good-token")
	require.NotNil(t, got)
	require.Equal(t, "User", *got.DisplayName)
}

func TestRestore_UnclassifiedStoreFailureResolvesToNil(t *testing.T) {
	provider := &fakeProvider{claims: claimsFor("u1", "alice@example.com", "Alice")}
	users := newFakeUserRepo()
	users.getErr = errors.New("invalid value for column role")
	rec := session.NewReconciler(provider, users)

	require.Nil(t, rec.Restore(context.Background(), "good-token"))
	require.Nil(t, rec.Sessions().Current())
}

func TestSignInWithPassword_MissingRecordIsError(t *testing.T) {
	provider := &fakeProvider{
		signInCred:  &model.Credential{ID: "u1", Email: "alice@example.com"},
		issuedToken: "tok",
	}
	users := newFakeUserRepo() // no record for u1
	rec := session.NewReconciler(provider, users)

	user, token, err := rec.SignInWithPassword(context.Background(), "alice@example.com", "pw")
	require.ErrorIs(t, err, session.ErrUserRecordMissing)
	require.Nil(t, user)
	require.Empty(t, token)
	// No record must be created on the sign-in path.
	require.Empty(t, users.created)
}

func TestSignInWithPassword_BadCredentialPropagates(t *testing.T) {
	provider := &fakeProvider{signInErr: auth.ErrInvalidCredentials}
	rec := session.NewReconciler(provider, newFakeUserRepo())

	_, _, err := rec.SignInWithPassword(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignInWithPassword_DegradedStoreSynthesizesSession(t *testing.T) {
	provider := &fakeProvider{
		signInCred:  &model.Credential{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"},
		issuedToken: "tok",
	}
	users := newFakeUserRepo()
	users.getErr = errors.New("missing or insufficient permissions")
	rec := session.NewReconciler(provider, users)

	user, token, err := rec.SignInWithPassword(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok", token)
	require.Equal(t, model.RoleUser, user.Role)
	require.Equal(t, user, rec.Sessions().Current())
}

func TestSignUp_CreatesExactlyOneUserRecord(t *testing.T) {
	provider := &fakeProvider{
		createCred:  &model.Credential{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"},
		issuedToken: "tok",
	}
	users := newFakeUserRepo()
	rec := session.NewReconciler(provider, users)

	user, token, err := rec.SignUp(context.Background(), "alice@example.com", "pw", "Alice")
	require.NoError(t, err)
	require.Equal(t, "tok", token)
	require.Len(t, users.created, 1)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, model.RoleUser, user.Role)
	require.Equal(t, "Alice", *user.DisplayName)
	require.Equal(t, user, rec.Sessions().Current())
}

func TestSignUp_RecordFailurePropagatesAfterCredentialCreated(t *testing.T) {
	provider := &fakeProvider{
		createCred:  &model.Credential{ID: "u1", Email: "alice@example.com"},
		issuedToken: "tok",
	}
	users := newFakeUserRepo()
	users.createErr = errors.New("driver: bad connection")
	rec := session.NewReconciler(provider, users)

	_, _, err := rec.SignUp(context.Background(), "alice@example.com", "pw", "Alice")
	require.Error(t, err)
	require.Nil(t, rec.Sessions().Current())
}

func TestSignInWithFederated_FirstLoginCreatesRecord(t *testing.T) {
	provider := &fakeProvider{
		exchCred:    &model.Credential{ID: "g1", Email: "bob@example.com", DisplayName: "Bob", Provider: model.ProviderGoogle},
		issuedToken: "tok",
	}
	users := newFakeUserRepo()
	rec := session.NewReconciler(provider, users)

	user, token, notice, err := rec.SignInWithFederated(context.Background(), "google", "code-1")
	require.NoError(t, err)
	require.Equal(t, "tok", token)
	require.Empty(t, notice)
	require.Len(t, users.created, 1)
	require.Equal(t, model.RoleUser, user.Role)
	require.Equal(t, "Bob", *user.DisplayName)
}

func TestSignInWithFederated_RepeatLoginPreservesRoleAndCreatedAt(t *testing.T) {
	promoted := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	name := "Bob"
	provider := &fakeProvider{
		exchCred:    &model.Credential{ID: "g1", Email: "bob@example.com", DisplayName: "Robert"},
		issuedToken: "tok",
	}
	users := newFakeUserRepo()
	users.users["g1"] = &model.User{
		ID: "g1", Email: "bob@example.com", DisplayName: &name,
		Role: model.RoleAdmin, CreatedAt: promoted,
	}
	rec := session.NewReconciler(provider, users)

	user, _, notice, err := rec.SignInWithFederated(context.Background(), "google", "code-2")
	require.NoError(t, err)
	require.Empty(t, notice)
	require.Empty(t, users.created)
	require.Equal(t, model.RoleAdmin, user.Role)
	require.Equal(t, promoted, user.CreatedAt)
	require.Equal(t, "Bob", *user.DisplayName)
}

func TestSignInWithFederated_DegradedStoreReturnsNotice(t *testing.T) {
	provider := &fakeProvider{
		exchCred:    &model.Credential{ID: "g1", Email: "bob@example.com", DisplayName: "Bob"},
		issuedToken: "tok",
	}
	users := newFakeUserRepo()
	users.getErr = errors.New("client is offline")
	rec := session.NewReconciler(provider, users)

	user, token, notice, err := rec.SignInWithFederated(context.Background(), "google", "code-3")
	require.NoError(t, err)
	require.Equal(t, "tok", token)
	require.Equal(t, session.LimitedNotice, notice)
	require.Equal(t, model.RoleUser, user.Role)
}

func TestEndSession_RevokesAndClears(t *testing.T) {
	provider := &fakeProvider{
		claims:      claimsFor("u1", "alice@example.com", "Alice"),
		issuedToken: "tok",
	}
	users := newFakeUserRepo()
	users.users["u1"] = &model.User{ID: "u1", Email: "alice@example.com", Role: model.RoleUser}
	rec := session.NewReconciler(provider, users)

	require.NotNil(t, rec.Restore(context.Background(), "tok"))

	ch, cancel := rec.Sessions().Subscribe()
	defer cancel()
	require.NotNil(t, <-ch)

	require.NoError(t, rec.EndSession(context.Background(), "tok"))
	require.Equal(t, []string{"tok"}, provider.revoked)
	require.Nil(t, rec.Sessions().Current())
	require.Nil(t, <-ch)
}

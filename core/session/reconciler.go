package session

import (
	"context"
	"errors"
	"time"

	"spoty/core/auth"
	"spoty/logger"
	"spoty/model"
	"spoty/repository"
)

// ErrUserRecordMissing is returned by password sign-in when the credential is
// valid but no user record exists. That path never auto-creates: a password
// credential implies the record was written at sign-up, so absence is an
// error state, not a first visit.
var ErrUserRecordMissing = errors.New("no user record exists for this credential")

// LimitedNotice is the non-blocking informational message surfaced when a
// federated sign-in falls back to a synthesized session.
const LimitedNotice = "You're connected! Some features may be limited."

// Reconciler owns the mapping from a provider credential to an application
// user, including creation on first federated sign-in and the degraded
// fallback when the user store is unreachable. It is the only writer of the
// session cell.
type Reconciler struct {
	provider auth.Provider
	users    repository.UserRepository
	cell     *Cell
}

// NewReconciler creates a Reconciler.
func NewReconciler(provider auth.Provider, users repository.UserRepository) *Reconciler {
	return &Reconciler{
		provider: provider,
		users:    users,
		cell:     NewCell(),
	}
}

// Sessions exposes the published session value for observers.
func (r *Reconciler) Sessions() *Cell {
	return r.cell
}

// Restore resolves a raw credential to a definite user-or-nil and publishes
// it. It never returns an error: a broken token or an unclassified store
// failure both resolve to nil, and a store failure classified as
// connectivity-or-permission resolves to a synthesized user so callers are
// never blocked on a degraded backend. Role-gated work must not start before
// this resolves.
func (r *Reconciler) Restore(ctx context.Context, rawToken string) *model.User {
	if rawToken == "" {
		r.cell.publish(nil)
		return nil
	}

	claims, err := r.provider.VerifyToken(ctx, rawToken)
	if err != nil {
		logger.Warn("session restore: credential rejected", logger.ErrorField(err))
		r.cell.publish(nil)
		return nil
	}

	user, err := r.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if repository.IsConnectivityOrPermission(err) {
			logger.Warn("session restore: user store degraded, synthesizing session",
				logger.String("credentialId", claims.Subject),
				logger.ErrorField(err))
			fallback := syntheticUser(claims.Subject, claims.Email, claims.Name)
			r.cell.publish(fallback)
			return fallback
		}
		logger.Error("session restore: user fetch failed", logger.ErrorField(err))
		r.cell.publish(nil)
		return nil
	}
	if user == nil {
		r.cell.publish(nil)
		return nil
	}

	reconcileProviderFields(user, claims.Email, claims.Name)
	r.cell.publish(user)
	return user
}

// SignInWithPassword exchanges an email/password pair and resolves the user
// record with the same fetch-or-fallback rule as Restore, except that a
// cleanly missing record is a hard error.
func (r *Reconciler) SignInWithPassword(ctx context.Context, email, password string) (*model.User, string, error) {
	cred, err := r.provider.SignIn(ctx, email, password)
	if err != nil {
		logger.Warn("password sign-in failed", logger.String("email", email), logger.ErrorField(err))
		return nil, "", err
	}

	user, err := r.users.GetByID(ctx, cred.ID)
	if err != nil {
		if repository.IsConnectivityOrPermission(err) {
			logger.Warn("password sign-in: user store degraded, synthesizing session",
				logger.String("credentialId", cred.ID),
				logger.ErrorField(err))
			user = syntheticUser(cred.ID, cred.Email, cred.DisplayName)
			return r.finishSignIn(cred, user)
		}
		logger.Error("password sign-in: user fetch failed", logger.ErrorField(err))
		return nil, "", err
	}
	if user == nil {
		logger.Error("password sign-in: credential has no user record",
			logger.String("credentialId", cred.ID))
		return nil, "", ErrUserRecordMissing
	}

	reconcileProviderFields(user, cred.Email, cred.DisplayName)
	return r.finishSignIn(cred, user)
}

// SignUp creates a provider credential and exactly one new user record.
// The two writes are not transactional: if the record insert fails, the
// credential is left behind and the error propagates. That gap is accepted,
// not remediated here.
func (r *Reconciler) SignUp(ctx context.Context, email, password, displayName string) (*model.User, string, error) {
	cred, err := r.provider.CreateCredential(ctx, email, password, displayName)
	if err != nil {
		logger.Warn("sign-up: credential creation failed", logger.String("email", email), logger.ErrorField(err))
		return nil, "", err
	}

	user := &model.User{
		ID:        cred.ID,
		Email:     cred.Email,
		Role:      model.RoleUser,
		CreatedAt: time.Now(),
	}
	if displayName != "" {
		user.DisplayName = &displayName
	}

	if err := r.users.Create(ctx, user); err != nil {
		logger.Error("sign-up: user record creation failed, credential orphaned",
			logger.String("credentialId", cred.ID),
			logger.ErrorField(err))
		return nil, "", err
	}

	return r.finishSignIn(cred, user)
}

// SignInWithFederated completes a federated consent flow and get-or-creates
// the user record. An existing record is returned unchanged: role and
// createdAt survive repeated logins, so admin promotions stick. A store
// failure classified as connectivity-or-permission degrades to a synthesized
// session plus a notice instead of an error.
func (r *Reconciler) SignInWithFederated(ctx context.Context, kind, code string) (*model.User, string, string, error) {
	cred, err := r.provider.ExchangeFederated(ctx, kind, code)
	if err != nil {
		logger.Warn("federated sign-in failed", logger.String("kind", kind), logger.ErrorField(err))
		return nil, "", "", err
	}

	user, err := r.getOrCreateUser(ctx, cred)
	if err != nil {
		if repository.IsConnectivityOrPermission(err) {
			logger.Warn("federated sign-in: user store degraded, synthesizing session",
				logger.String("credentialId", cred.ID),
				logger.ErrorField(err))
			fallback := syntheticUser(cred.ID, cred.Email, cred.DisplayName)
			u, token, err := r.finishSignIn(cred, fallback)
			return u, token, LimitedNotice, err
		}
		logger.Error("federated sign-in: get-or-create failed", logger.ErrorField(err))
		return nil, "", "", err
	}

	u, token, err := r.finishSignIn(cred, user)
	return u, token, "", err
}

// FederatedConsentURL returns the provider's consent page URL for a kind.
func (r *Reconciler) FederatedConsentURL(kind, state string) (string, error) {
	return r.provider.FederatedConsentURL(kind, state)
}

// EndSession revokes the credential and publishes the empty session.
func (r *Reconciler) EndSession(ctx context.Context, rawToken string) error {
	err := r.provider.RevokeToken(ctx, rawToken)
	r.cell.publish(nil)
	if err != nil {
		logger.Error("end session: revocation failed", logger.ErrorField(err))
		return err
	}
	return nil
}

func (r *Reconciler) getOrCreateUser(ctx context.Context, cred *model.Credential) (*model.User, error) {
	user, err := r.users.GetByID(ctx, cred.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		reconcileProviderFields(user, cred.Email, cred.DisplayName)
		return user, nil
	}

	user = &model.User{
		ID:        cred.ID,
		Email:     cred.Email,
		Role:      model.RoleUser,
		CreatedAt: time.Now(),
	}
	name := cred.DisplayName
	if name == "" {
		name = "User"
	}
	user.DisplayName = &name

	if err := r.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Reconciler) finishSignIn(cred *model.Credential, user *model.User) (*model.User, string, error) {
	token, err := r.provider.IssueToken(cred)
	if err != nil {
		logger.Error("sign-in: token issue failed", logger.ErrorField(err))
		return nil, "", err
	}
	r.cell.publish(user)
	return user, token, nil
}

// syntheticUser builds a session from provider-supplied fields only. The role
// is forced to user and createdAt to now; both may be wrong until the store
// is reachable again, which is the accepted cost of never blocking the UI.
func syntheticUser(id, email, displayName string) *model.User {
	if displayName == "" {
		displayName = "User"
	}
	return &model.User{
		ID:          id,
		Email:       email,
		DisplayName: &displayName,
		Role:        model.RoleUser,
		CreatedAt:   time.Now(),
	}
}

// reconcileProviderFields overlays the provider's live fields on a stored
// record: the provider owns email, and its display name fills a gap but never
// overwrites a stored one.
func reconcileProviderFields(user *model.User, email, displayName string) {
	if email != "" {
		user.Email = email
	}
	if user.DisplayName == nil && displayName != "" {
		user.DisplayName = &displayName
	}
}

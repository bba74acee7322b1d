package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"spoty/config"
	"spoty/model"
	"spoty/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

var (
	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnknownProviderKind is returned for a federated kind we don't support.
	ErrUnknownProviderKind = errors.New("unknown federated provider kind")
)

// Provider is the identity provider: it issues and verifies credentials.
// It knows nothing about the users collection; that mapping belongs to the
// session reconciler.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*model.Credential, error)
	CreateCredential(ctx context.Context, email, password, displayName string) (*model.Credential, error)
	ExchangeFederated(ctx context.Context, kind, code string) (*model.Credential, error)
	FederatedConsentURL(kind, state string) (string, error)
	UpdateDisplayName(ctx context.Context, credentialID, displayName string) error
	IssueToken(cred *model.Credential) (string, error)
	VerifyToken(ctx context.Context, token string) (*Claims, error)
	RevokeToken(ctx context.Context, token string) error
}

// federatedProfile is the subset of an OAuth userinfo response we consume.
type federatedProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LocalProvider implements Provider against the credentials table, with
// HS256 tokens and OAuth code exchange for the federated kinds.
type LocalProvider struct {
	creds  repository.CredentialRepository
	tokens *TokenManager

	oauthConfigs map[string]*oauth2.Config
	userInfoURLs map[string]string
	httpClient   *http.Client
}

// NewLocalProvider creates a LocalProvider from the application config.
func NewLocalProvider(cfg *config.Config, creds repository.CredentialRepository, tokens *TokenManager) *LocalProvider {
	return &LocalProvider{
		creds:  creds,
		tokens: tokens,
		oauthConfigs: map[string]*oauth2.Config{
			model.ProviderGoogle: {
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.OAuthRedirectURL,
				Scopes:       []string{"email", "profile"},
				Endpoint:     google.Endpoint,
			},
			model.ProviderFacebook: {
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				RedirectURL:  cfg.OAuthRedirectURL,
				Scopes:       []string{"email"},
				Endpoint:     facebook.Endpoint,
			},
		},
		userInfoURLs: map[string]string{
			model.ProviderGoogle:   "https://www.googleapis.com/oauth2/v2/userinfo",
			model.ProviderFacebook: "https://graph.facebook.com/me?fields=id,name,email",
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SignIn verifies an email/password pair against the stored credential.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*model.Credential, error) {
	cred, err := p.creds.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if cred == nil || cred.PasswordHash == "" || !VerifyPassword(password, cred.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return cred, nil
}

// CreateCredential registers a new password credential.
func (p *LocalProvider) CreateCredential(ctx context.Context, email, password, displayName string) (*model.Credential, error) {
	existing, err := p.creds.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repository.ErrDuplicateCredential
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	cred := &model.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Provider:     model.ProviderPassword,
	}
	if err := p.creds.Create(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// FederatedConsentURL returns the consent page URL for a federated kind.
func (p *LocalProvider) FederatedConsentURL(kind, state string) (string, error) {
	conf, ok := p.oauthConfigs[kind]
	if !ok {
		return "", ErrUnknownProviderKind
	}
	return conf.AuthCodeURL(state), nil
}

// ExchangeFederated completes an OAuth consent flow: exchanges the code,
// fetches the profile, and get-or-creates a credential for that email.
func (p *LocalProvider) ExchangeFederated(ctx context.Context, kind, code string) (*model.Credential, error) {
	conf, ok := p.oauthConfigs[kind]
	if !ok {
		return nil, ErrUnknownProviderKind
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange %s code: %w", kind, err)
	}

	profile, err := p.fetchProfile(ctx, kind, conf, token)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%s profile has no email", kind)
	}

	cred, err := p.creds.GetByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}
	if cred != nil {
		return cred, nil
	}

	cred = &model.Credential{
		ID:          uuid.NewString(),
		Email:       profile.Email,
		DisplayName: profile.Name,
		Provider:    kind,
	}
	if err := p.creds.Create(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

func (p *LocalProvider) fetchProfile(ctx context.Context, kind string, conf *oauth2.Config, token *oauth2.Token) (*federatedProfile, error) {
	client := conf.Client(ctx, token)
	resp, err := client.Get(p.userInfoURLs[kind])
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s profile: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s profile endpoint returned %d", kind, resp.StatusCode)
	}

	profile := &federatedProfile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("failed to decode %s profile: %w", kind, err)
	}
	return profile, nil
}

// UpdateDisplayName sets the display name on the provider's record.
func (p *LocalProvider) UpdateDisplayName(ctx context.Context, credentialID, displayName string) error {
	return p.creds.UpdateDisplayName(ctx, credentialID, displayName)
}

// IssueToken signs a session token for a credential.
func (p *LocalProvider) IssueToken(cred *model.Credential) (string, error) {
	return p.tokens.Issue(cred.ID, cred.Email, cred.DisplayName)
}

// VerifyToken validates a raw session token.
func (p *LocalProvider) VerifyToken(ctx context.Context, token string) (*Claims, error) {
	return p.tokens.Parse(ctx, token)
}

// RevokeToken invalidates a session token.
func (p *LocalProvider) RevokeToken(ctx context.Context, token string) error {
	return p.tokens.Revoke(ctx, token)
}

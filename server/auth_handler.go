package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"spoty/core/auth"
	"spoty/core/session"
	"spoty/logger"
	"spoty/model"
	"spoty/repository"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

const userContextKey contextKey = "sessionUser"

// RegisterRequest is the sign-up request body.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the password sign-in request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FederatedRequest carries the authorization code of a completed consent flow.
type FederatedRequest struct {
	Code string `json:"code"`
}

type sessionResponse struct {
	Token  string      `json:"token,omitempty"`
	User   *model.User `json:"user"`
	Notice string      `json:"notice,omitempty"`
}

// RegisterHandler handles sign-up.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		respondError(w, http.StatusBadRequest, "Email, password and display name are required")
		return
	}

	user, token, err := h.reconciler.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCredential) {
			respondError(w, http.StatusConflict, "An account already exists for this email")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

// LoginHandler handles password sign-in.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.reconciler.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		if errors.Is(err, session.ErrUserRecordMissing) {
			respondError(w, http.StatusConflict, "No account record exists for this sign-in")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// FederatedStartHandler redirects the browser to the provider's consent page.
func (h *APIHandler) FederatedStartHandler(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	url, err := h.reconciler.FederatedConsentURL(kind, uuid.NewString())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown sign-in provider")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// FederatedHandler completes a federated consent flow.
func (h *APIHandler) FederatedHandler(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]

	var req FederatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "Authorization code is required")
		return
	}

	user, token, notice, err := h.reconciler.SignInWithFederated(r.Context(), kind, req.Code)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownProviderKind) {
			respondError(w, http.StatusBadRequest, "Unknown sign-in provider")
			return
		}
		respondError(w, http.StatusBadGateway, "Federated sign-in failed")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: user, Notice: notice})
}

// SessionHandler restores the session for the presented credential. The
// response is always a definite user-or-null; it never errors on a degraded
// backend.
func (h *APIHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	user := h.reconciler.Restore(r.Context(), bearerToken(r))
	respondJSON(w, http.StatusOK, sessionResponse{User: user})
}

// LogoutHandler ends the session.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		respondError(w, http.StatusBadRequest, "No credential presented")
		return
	}
	if err := h.reconciler.EndSession(r.Context(), token); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{User: nil})
}

// AuthMiddleware resolves the session before the wrapped handler runs. The
// restore completes (user or nil) first; handlers never observe a half
// resolved session.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		user := h.reconciler.Restore(r.Context(), token)
		if user == nil {
			respondError(w, http.StatusUnauthorized, "Invalid or expired credential")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// AdminMiddleware additionally requires the admin role. Because the session
// is fully restored by AuthMiddleware before this check, a degraded-mode
// synthetic session (always role user) can never reach an admin handler.
func (h *APIHandler) AdminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		user, err := UserFromContext(r.Context())
		if err != nil || !user.IsAdmin() {
			logger.Warn("admin endpoint rejected non-admin session")
			respondError(w, http.StatusForbidden, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext extracts the restored session user from the request context.
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, errors.New("no session user in context")
	}
	return user, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

package services

import (
	"context"
	"strings"
	"sync"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/storage"
	"spacify/internal/utils"
)

// AuthAPI is the remote side of the session.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (models.AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (models.AuthResult, error)
	Verify(ctx context.Context, token string) (models.User, error)
	Logout(ctx context.Context) error
}

// AuthSession owns the current user's authentication state and mirrors it
// into durable storage so it survives restarts.
type AuthSession struct {
	API       AuthAPI
	Store     storage.Store
	RequestID string

	mu      sync.Mutex
	session models.Session
	token   string
}

func NewAuthSession(api AuthAPI, store storage.Store) *AuthSession {
	return &AuthSession{
		API:     api,
		Store:   store,
		session: models.Session{State: models.SessionUnknown, IsLoading: true},
	}
}

// Snapshot returns a copy of the session.
func (s *AuthSession) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.session
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// Token returns the bearer token of the authenticated user, or "".
func (s *AuthSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Init restores the session from storage. A first visit is recorded and
// settles anonymous without contacting the server; a remembered token is
// verified remotely.
func (s *AuthSession) Init(ctx context.Context) {
	s.mu.Lock()
	s.session.State = models.SessionUnknown
	s.session.IsLoading = true
	s.mu.Unlock()

	visited, err := storage.LoadBool(s.Store, storage.KeyHasVisited)
	if err != nil {
		utils.LogError(s.RequestID, "auth", "init", "read hasVisited", err)
	}
	if !visited {
		s.mu.Lock()
		s.session.State = models.SessionFirstVisit
		s.mu.Unlock()
		if err := storage.SaveBool(s.Store, storage.KeyHasVisited, true); err != nil {
			utils.LogError(s.RequestID, "auth", "init", "save hasVisited", err)
		}
		s.mu.Lock()
		s.session = models.Session{IsFirstVisit: true, State: models.SessionAnonymous}
		s.token = ""
		s.mu.Unlock()
		utils.LogEvent(s.RequestID, "auth", "init", "first visit")
		return
	}

	token, hasToken, err := s.Store.Load(storage.KeyToken)
	if err != nil {
		utils.LogError(s.RequestID, "auth", "init", "read token", err)
	}
	remember, _ := storage.LoadBool(s.Store, storage.KeyRememberMe)
	if !hasToken || token == "" || !remember {
		s.settleAnonymous()
		return
	}

	s.mu.Lock()
	s.session.State = models.SessionChecking
	s.mu.Unlock()
	user, err := s.API.Verify(ctx, token)
	if err != nil {
		utils.LogError(s.RequestID, "auth", "init", "token verification failed", err)
		s.clearAuthKeys()
		s.settleAnonymous()
		return
	}
	if err := storage.SaveJSON(s.Store, storage.KeyUser, user); err != nil {
		utils.LogError(s.RequestID, "auth", "init", "save user", err)
	}
	s.settleAuthenticated(token, user)
	utils.LogEvent(s.RequestID, "auth", "init", "session restored email="+user.Email)
}

// Login authenticates against the server. On failure the session is left
// anonymous and the returned error is a NetworkError, an AuthRejectedError
// or an InternalError.
func (s *AuthSession) Login(ctx context.Context, email, password string, rememberMe bool) error {
	s.setLoading()
	res, err := s.API.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		s.settleAnonymous()
		utils.LogError(s.RequestID, "auth", "login", "email="+email, err)
		return classifyAuthError(err, "Invalid email or password", "Login failed. Please try again.")
	}
	s.persist(res, rememberMe)
	s.settleAuthenticated(res.Token, res.User)
	utils.LogEvent(s.RequestID, "auth", "login", "email="+res.User.Email)
	return nil
}

// Signup registers a new account and signs it in with rememberMe set.
func (s *AuthSession) Signup(ctx context.Context, fullName, email, phone, password string) error {
	s.setLoading()
	res, err := s.API.Register(ctx, RegisterInput{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.TrimSpace(email),
		Phone:    strings.TrimSpace(phone),
		Password: password,
	})
	if err != nil {
		s.settleAnonymous()
		utils.LogError(s.RequestID, "auth", "signup", "email="+email, err)
		return classifyAuthError(err, "User with this email already exists", "Signup failed. Please try again.")
	}
	s.persist(res, true)
	s.settleAuthenticated(res.Token, res.User)
	utils.LogEvent(s.RequestID, "auth", "signup", "email="+res.User.Email)
	return nil
}

// Logout notifies the server and clears the session. Remote failures are
// logged only; the session always ends anonymous.
func (s *AuthSession) Logout(ctx context.Context) error {
	if s.Token() != "" {
		if err := s.API.Logout(ctx); err != nil {
			utils.LogError(s.RequestID, "auth", "logout", "remote logout failed", err)
		}
	}
	err := s.Store.Clear(storage.AuthKeys...)
	s.settleAnonymous()
	utils.LogEvent(s.RequestID, "auth", "logout", "session cleared")
	if err != nil {
		return domain.InternalError{Msg: "failed to clear session", Err: err}
	}
	return nil
}

// Invalidate drops the session after the server rejected the token.
func (s *AuthSession) Invalidate() {
	s.clearAuthKeys()
	s.settleAnonymous()
	utils.LogEvent(s.RequestID, "auth", "invalidate", "token rejected by server")
}

func (s *AuthSession) persist(res models.AuthResult, rememberMe bool) {
	if err := s.Store.Save(storage.KeyToken, res.Token); err != nil {
		utils.LogError(s.RequestID, "auth", "persist", "save token", err)
	}
	if err := storage.SaveJSON(s.Store, storage.KeyUser, res.User); err != nil {
		utils.LogError(s.RequestID, "auth", "persist", "save user", err)
	}
	if err := storage.SaveBool(s.Store, storage.KeyRememberMe, rememberMe); err != nil {
		utils.LogError(s.RequestID, "auth", "persist", "save rememberMe", err)
	}
}

func (s *AuthSession) clearAuthKeys() {
	if err := s.Store.Clear(storage.AuthKeys...); err != nil {
		utils.LogError(s.RequestID, "auth", "clear", "clear auth keys", err)
	}
}

func (s *AuthSession) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.IsLoading = true
}

func (s *AuthSession) settleAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.session = models.Session{
		IsFirstVisit: s.session.IsFirstVisit,
		State:        models.SessionAnonymous,
	}
}

func (s *AuthSession) settleAuthenticated(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.token = token
	s.session = models.Session{
		User:            &u,
		IsAuthenticated: true,
		IsFirstVisit:    s.session.IsFirstVisit,
		State:           models.SessionAuthenticated,
	}
}

func classifyAuthError(err error, rejected, generic string) error {
	switch {
	case domain.IsNetwork(err):
		return err
	case domain.IsAuthRejected(err):
		return err
	case domain.IsValidation(err), domain.IsConflict(err):
		return domain.AuthRejectedError{Status: 400, Msg: messageOr(err, rejected)}
	default:
		return domain.InternalError{Msg: generic, Err: err}
	}
}

func messageOr(err error, fallback string) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return fallback
	}
	return err.Error()
}

// Package session owns the client-side authentication lifecycle: it logs
// users in and out, keeps the in-memory session in step with the persisted
// token pair, and is the only component the rest of the application talks
// to. It is also the sole writer of the token store.
package session

import (
	"context"
	"net/url"
	"sync"

	"github.com/craftsite/go-auth-client/api"
	"github.com/craftsite/go-auth-client/apierror"
	"github.com/craftsite/go-auth-client/redirect"
	"github.com/craftsite/go-auth-client/store"
	"github.com/craftsite/go-auth-client/token"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// State is the manager's public state.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
)

// LogoutTarget is the fixed post-logout destination. Logout does not go
// through the resolver's priority chain.
const LogoutTarget = "/login"

// Event is a one-shot status notification emitted per operation outcome.
type Event string

const (
	EventLogin        Event = "login"
	EventLoginFailed  Event = "login_failed"
	EventSignup       Event = "signup"
	EventSignupFailed Event = "signup_failed"
	EventLogout       Event = "logout"
	EventExpired      Event = "expired"
)

// Notifier receives one-shot status notifications.
type Notifier func(event Event)

// Authenticator is the credential API the manager drives. *api.Client
// implements it.
type Authenticator interface {
	Login(ctx context.Context, request api.LoginRequest) (*api.LoginResponse, error)
	Signup(ctx context.Context, request api.SignupRequest) (*api.SignupResponse, error)
}

// User is the authenticated identity decoded from the access token.
type User struct {
	ID        string
	Email     string
	SubDomain string
}

// Credentials are the login inputs.
type Credentials struct {
	Email    string
	Password string
}

// SignupDetails are the account-creation inputs.
type SignupDetails struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	SubDomain string
}

// Request carries the ambient request context a navigation target is
// resolved from.
type Request struct {
	Query url.Values
	Path  string
	Host  string
}

func (r Request) input() redirect.Input {
	return redirect.Input{Query: r.Query, Path: r.Path, Host: r.Host}
}

// LoginResult is returned on successful login.
type LoginResult struct {
	User       User
	RedirectTo string
}

// SignupResult is returned on successful signup. Signup never
// authenticates; LoginTo is where the caller should send the user to log
// in, resolved for tenant continuity.
type SignupResult struct {
	ID      string
	Email   string
	LoginTo string
}

// Deps bundles the manager's collaborators.
type Deps struct {
	API      Authenticator
	Store    store.Repo
	Resolver *redirect.Resolver
	Flag     redirect.FlagStore
}

// Manager orchestrates login, signup, and logout, and owns the in-memory
// session. Operations are serialized: a second login, signup, or logout
// while one is in flight is rejected rather than interleaved, so the store
// only ever sees one writer.
type Manager struct {
	deps   Deps
	log    zerolog.Logger
	notify Notifier

	mu       sync.Mutex
	state    State
	user     *User
	tokens   *store.Record
	inFlight bool
	closed   bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithNotifier sets the one-shot status notification sink.
func WithNotifier(notify Notifier) Option {
	return func(m *Manager) {
		m.notify = notify
	}
}

// NewManager creates a Manager in the Unauthenticated state.
func NewManager(deps Deps, options ...Option) (*Manager, error) {
	if deps.API == nil {
		return nil, pkgerrors.New("[NewManager] API client is required")
	}
	if deps.Store == nil {
		return nil, pkgerrors.New("[NewManager] token store is required")
	}
	if deps.Resolver == nil {
		return nil, pkgerrors.New("[NewManager] redirect resolver is required")
	}
	if deps.Flag == nil {
		deps.Flag = redirect.NewMemoryFlag()
	}

	m := &Manager{
		deps:  deps,
		log:   zerolog.Nop(),
		state: StateUnauthenticated,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// State returns the current public state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Initialize restores a session from persisted tokens on process start. An
// absent, undecodable, or expired token leaves the manager unauthenticated
// and clears the store.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}

	record, err := m.deps.Store.Load()
	if err != nil {
		return pkgerrors.Wrap(err, "[Manager.Initialize] store.Load")
	}
	if record == nil {
		return nil
	}

	payload, err := token.Decode(record.Access)
	if err != nil || token.IsExpired(payload.Exp) {
		m.log.Info().Msg("persisted token invalid or expired, clearing store")
		_ = m.deps.Store.Clear()
		if err == nil {
			m.emit(EventExpired)
		}
		return nil
	}

	m.user = userFromPayload(payload)
	m.tokens = record
	m.state = StateAuthenticated
	m.log.Info().Str("user_id", m.user.ID).Msg("session restored from storage")
	return nil
}

// Login exchanges credentials for tokens, persists them, and resolves the
// post-login destination. A login attempted while another operation is in
// flight returns ErrOperationInFlight. Failures surface as *AuthError.
func (m *Manager) Login(ctx context.Context, credentials Credentials, request Request) (*LoginResult, error) {
	opID := uuid.New().String()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if m.inFlight {
		m.mu.Unlock()
		return nil, ErrOperationInFlight
	}
	m.inFlight = true
	m.state = StateAuthenticating
	m.mu.Unlock()

	m.log.Debug().Str("op_id", opID).Str("email", credentials.Email).Msg("login started")

	response, apiErr := m.deps.API.Login(ctx, api.LoginRequest{
		Email:    credentials.Email,
		Password: credentials.Password,
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if m.closed {
		// The manager was disposed mid-flight; discard the outcome.
		return nil, ErrManagerClosed
	}

	if apiErr != nil {
		m.state = StateUnauthenticated
		normalized := normalizedCause(apiErr)
		m.log.Info().Str("op_id", opID).Int("status", normalized.StatusCode).Msg("login rejected")
		m.emit(EventLoginFailed)
		return nil, &AuthError{Message: loginFailureMessage(normalized), Cause: normalized}
	}

	payload, err := token.Decode(response.Tokens.Access)
	if err != nil {
		m.state = StateUnauthenticated
		m.log.Warn().Str("op_id", opID).Err(err).Msg("login returned an undecodable access token")
		m.emit(EventLoginFailed)
		cause := &apierror.Normalized{
			Kind:        apierror.KindInvalidToken,
			Message:     "server returned a malformed token",
			FieldErrors: map[string][]string{},
		}
		return nil, &AuthError{Message: genericLoginMessage, Cause: cause}
	}
	if token.IsExpired(payload.Exp) {
		m.state = StateUnauthenticated
		m.log.Warn().Str("op_id", opID).Msg("login returned an already expired access token")
		m.emit(EventLoginFailed)
		cause := &apierror.Normalized{
			Kind:        apierror.KindExpiredToken,
			Message:     "server returned an expired token",
			FieldErrors: map[string][]string{},
		}
		return nil, &AuthError{Message: genericLoginMessage, Cause: cause}
	}

	record := &store.Record{Access: response.Tokens.Access, Refresh: response.Tokens.Refresh}
	_ = m.deps.Store.Save(record)

	m.user = userFromPayload(payload)
	m.tokens = record
	m.state = StateAuthenticated
	m.emit(EventLogin)
	m.log.Info().Str("op_id", opID).Str("user_id", m.user.ID).Msg("login succeeded")

	input := request.input()
	input.Flag = m.deps.Flag
	input.Fallback = identityTarget(m.user)

	return &LoginResult{
		User:       *m.user,
		RedirectTo: m.deps.Resolver.Resolve(input),
	}, nil
}

// Signup creates an account. It never authenticates: the caller routes the
// user to login afterwards, at the destination in the result. The transient
// redirect flag is left untouched so the subsequent login can consume it.
func (m *Manager) Signup(ctx context.Context, details SignupDetails, request Request) (*SignupResult, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if m.inFlight {
		m.mu.Unlock()
		return nil, ErrOperationInFlight
	}
	m.inFlight = true
	m.mu.Unlock()

	response, apiErr := m.deps.API.Signup(ctx, api.SignupRequest{
		Email:     details.Email,
		Password:  details.Password,
		FirstName: details.FirstName,
		LastName:  details.LastName,
		SubDomain: details.SubDomain,
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if m.closed {
		return nil, ErrManagerClosed
	}

	if apiErr != nil {
		normalized := normalizedCause(apiErr)
		m.emit(EventSignupFailed)
		return nil, &AuthError{Message: signupFailureMessage(normalized), Cause: normalized}
	}

	m.emit(EventSignup)

	input := request.input()
	input.Fallback = LogoutTarget

	return &SignupResult{
		ID:      response.ID,
		Email:   response.Email,
		LoginTo: m.deps.Resolver.Resolve(input),
	}, nil
}

// Logout tears the session down: in-memory state, persisted tokens, and
// the transient redirect flag. It returns the fixed logout destination.
func (m *Manager) Logout() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", ErrManagerClosed
	}
	if m.inFlight {
		return "", ErrOperationInFlight
	}

	m.user = nil
	m.tokens = nil
	m.state = StateUnauthenticated
	_ = m.deps.Store.Clear()
	m.deps.Flag.Clear()
	m.emit(EventLogout)
	m.log.Info().Msg("logged out")
	return LogoutTarget, nil
}

// Current returns the authenticated identity, detecting expiry passively:
// an expired session is torn down and nil is returned.
func (m *Manager) Current() *User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.expireLocked() {
		return nil
	}
	copied := *m.user
	return &copied
}

// AccessToken returns the bearer for request decoration, or "" when the
// session is absent or expired.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.expireLocked() {
		return ""
	}
	return m.tokens.Access
}

// Close disposes the manager. Any in-flight operation's eventual
// completion is discarded: no store writes, no state transitions, no
// notifications after Close.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.user = nil
	m.tokens = nil
	m.state = StateUnauthenticated
}

// expireLocked reports whether a live session exists, tearing down an
// expired one as a side effect. Callers hold m.mu.
func (m *Manager) expireLocked() bool {
	if m.state != StateAuthenticated || m.user == nil || m.tokens == nil {
		return false
	}
	if !token.Expired(m.tokens.Access) {
		return true
	}

	m.log.Info().Str("user_id", m.user.ID).Msg("session expired")
	m.user = nil
	m.tokens = nil
	m.state = StateUnauthenticated
	_ = m.deps.Store.Clear()
	m.emit(EventExpired)
	return false
}

func (m *Manager) emit(event Event) {
	if m.notify != nil {
		m.notify(event)
	}
}

func userFromPayload(payload *token.Payload) *User {
	return &User{
		ID:        payload.Sub,
		Email:     payload.Email,
		SubDomain: payload.SubDomain,
	}
}

// identityTarget is the resolver's last-resort destination, derived from
// the authenticated identity.
func identityTarget(user *User) string {
	if user.ID != "" {
		return "/users/" + user.ID + "/dashboard"
	}
	if user.Email != "" {
		return "/users/" + user.Email + "/dashboard"
	}
	return ""
}

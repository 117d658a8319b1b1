// Package identity implements service.Identity using the Google Identity
// Toolkit API (Firebase email/password accounts).
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"taskboard/internal/service"
)

const (
	// APITimeout is the timeout for identity API calls.
	APITimeout = 10 * time.Second

	// SecureTokenURL exchanges a refresh token for a fresh ID token.
	SecureTokenURL = "https://securetoken.googleapis.com/v1/token"
)

type subscriber struct {
	id int
	fn func(*service.User)
}

// Client implements service.Identity. The session token is an oauth2.Token
// whose access token is the Firebase ID token.
type Client struct {
	svc       *identitytoolkit.Service
	oauth     *oauth2.Config
	http      *http.Client // nil uses the default client for refreshes
	tokenPath string
	logger    zerolog.Logger
	now       func() time.Time

	refreshMu sync.Mutex

	mu     sync.Mutex
	user   *service.User
	token  *oauth2.Token
	gen    int // bumped on every session change
	subs   []subscriber
	nextID int
}

// Options configures a Client.
type Options struct {
	APIKey    string
	TokenPath string
	Logger    zerolog.Logger

	// Endpoint, TokenURL and HTTPClient override the Google endpoints (for testing).
	Endpoint   string
	TokenURL   string
	HTTPClient *http.Client
}

// New creates an identity client and restores a persisted session, if any.
func New(ctx context.Context, opts Options) (*Client, error) {
	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := identitytoolkit.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %w", err)
	}

	tokenURL := opts.TokenURL
	if tokenURL == "" {
		tokenURL = SecureTokenURL
	}

	c := &Client{
		svc: svc,
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL + "?key=" + url.QueryEscape(opts.APIKey),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		http:      opts.HTTPClient,
		tokenPath: opts.TokenPath,
		logger:    opts.Logger,
		now:       time.Now,
	}

	if stored, err := loadToken(c.tokenPath); err != nil {
		c.logger.Warn().Err(err).Msg("ignoring unreadable session token")
	} else if stored != nil {
		c.user = stored.user()
		tok := stored.Token
		c.token = &tok
	}

	return c, nil
}

// CurrentUser implements service.Identity.
func (c *Client) CurrentUser() *service.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// SignIn implements service.Identity.
func (c *Client) SignIn(ctx context.Context, email, password string) (*service.User, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	return c.establish(resp.LocalId, resp.Email, resp.IdToken, resp.RefreshToken, resp.ExpiresIn)
}

// SignUp implements service.Identity.
func (c *Client) SignUp(ctx context.Context, email, password string) (*service.User, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	return c.establish(resp.LocalId, resp.Email, resp.IdToken, resp.RefreshToken, resp.ExpiresIn)
}

// SignOut implements service.Identity. It only drops the local session.
func (c *Client) SignOut(ctx context.Context) error {
	if _, err := c.setSession(anyGen, nil, nil); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// OnAuthStateChanged implements service.Identity.
func (c *Client) OnAuthStateChanged(fn func(*service.User)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	current := c.user
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// TokenSource returns a token source that always reflects the current
// session. It fails with service.ErrSignedOut when nobody is signed in.
func (c *Client) TokenSource() oauth2.TokenSource {
	return sessionTokenSource{c: c}
}

type sessionTokenSource struct {
	c *Client
}

func (s sessionTokenSource) Token() (*oauth2.Token, error) {
	return s.c.Token(context.Background())
}

// Token returns a valid ID token, refreshing it when expired. A refresh the
// token endpoint rejects ends the session.
func (c *Client) Token(ctx context.Context) (*oauth2.Token, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.Lock()
	tok, user, gen := c.token, c.user, c.gen
	c.mu.Unlock()

	if tok == nil {
		return nil, service.ErrSignedOut
	}
	if tok.Valid() {
		return tok, nil
	}

	if c.http != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	refreshed, err := c.oauth.TokenSource(ctx, tok).Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if !errors.As(err, &re) {
			return nil, fmt.Errorf("failed to refresh session: %w", err)
		}
		c.logger.Warn().Err(err).Msg("session refresh rejected, signing out")
		applied, rmErr := c.setSession(gen, nil, nil)
		if rmErr != nil {
			c.logger.Error().Err(rmErr).Msg("failed to remove token")
		}
		if !applied {
			return c.currentToken()
		}
		return nil, service.ErrSignedOut
	}

	applied, err := c.setSession(gen, user, refreshed)
	if !applied {
		c.logger.Debug().Msg("session changed during refresh, discarding token")
		return c.currentToken()
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to save refreshed token")
	}
	c.logger.Debug().Time("expiry", refreshed.Expiry).Msg("refreshed session token")
	return refreshed, nil
}

// currentToken returns the session token as it is now.
func (c *Client) currentToken() (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == nil {
		return nil, service.ErrSignedOut
	}
	return c.token, nil
}

func (c *Client) establish(uid, email, idToken, refreshToken string, expiresIn int64) (*service.User, error) {
	user := &service.User{UID: uid, Email: email}
	tok := &oauth2.Token{
		AccessToken:  idToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
		Expiry:       c.now().Add(time.Duration(expiresIn) * time.Second),
	}

	if _, err := c.setSession(anyGen, user, tok); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	c.logger.Debug().Str("uid", uid).Msg("signed in")
	return user, nil
}

// anyGen makes setSession apply regardless of the current generation.
const anyGen = -1

// setSession persists and installs a session, then notifies subscribers when
// the user changed. It does nothing and reports false when gen is not the
// current generation. A nil token removes the persisted session. The file is
// written under the lock. Subscribers run outside it, in registration order.
func (c *Client) setSession(gen int, user *service.User, tok *oauth2.Token) (bool, error) {
	c.mu.Lock()
	if gen != anyGen && gen != c.gen {
		c.mu.Unlock()
		return false, nil
	}

	var err error
	if tok == nil {
		err = removeToken(c.tokenPath)
	} else {
		err = saveToken(c.tokenPath, user, tok)
	}
	if err != nil {
		c.mu.Unlock()
		return true, err
	}

	changed := user != c.user
	c.user = user
	c.token = tok
	c.gen++
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	if changed {
		for _, s := range subs {
			s.fn(user)
		}
	}
	return true, nil
}

// wrapError maps identity API errors to service errors.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return service.ErrTimeout
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	msg := apiErr.Message
	switch {
	case strings.HasPrefix(msg, "INVALID_PASSWORD"),
		strings.HasPrefix(msg, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(msg, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(msg, "INVALID_EMAIL"):
		return service.ErrInvalidCredentials
	case strings.HasPrefix(msg, "EMAIL_EXISTS"):
		return service.ErrEmailExists
	case strings.HasPrefix(msg, "WEAK_PASSWORD"):
		detail := strings.TrimPrefix(strings.TrimPrefix(msg, "WEAK_PASSWORD"), " : ")
		if detail == "" {
			return service.ErrWeakPassword
		}
		return fmt.Errorf("%w: %s", service.ErrWeakPassword, detail)
	case apiErr.Code == http.StatusForbidden:
		return service.ErrPermission
	}
	return err
}

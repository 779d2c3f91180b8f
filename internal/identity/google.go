package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Google runs the OAuth authorization code flow against Google.
type Google struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	userInfoURL string
	stateTTL    time.Duration
	states      *stateStore
}

// NewGoogle builds a Google provider. It returns nil when client id, secret
// or redirect URL is missing.
func NewGoogle(clientID, clientSecret, redirectURL, uiRedirect string) *Google {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil
	}
	return &Google{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect:  uiRedirect,
		userInfoURL: googleUserInfoURL,
		stateTTL:    5 * time.Minute,
		states:      newStateStore(),
	}
}

// AuthURL starts a flow and returns the consent page URL.
func (g *Google) AuthURL() string {
	state := uuid.NewString()
	g.states.put(state, time.Now().Add(g.stateTTL))
	return g.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange validates state, trades code for a token and fetches the user.
func (g *Google) Exchange(ctx context.Context, state, code string) (GoogleUser, error) {
	if state == "" || code == "" {
		return GoogleUser{}, errors.New("missing state or code")
	}
	if !g.states.consume(state, time.Now()) {
		return GoogleUser{}, errors.New("invalid or expired state")
	}
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("exchange code: %w", err)
	}
	return g.fetchUserInfo(ctx, token)
}

// RedirectWithToken appends the session token to the UI redirect URL.
func (g *Google) RedirectWithToken(token string) (string, error) {
	return appendToken(g.uiRedirect, token)
}

// googleUserInfo covers both userinfo shapes: v2 reports id and
// verified_email, the OpenID endpoint sub and email_verified.
type googleUserInfo struct {
	Sub           string `json:"sub"`
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (g *Google) fetchUserInfo(ctx context.Context, token *oauth2.Token) (GoogleUser, error) {
	client := g.oauthConfig.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return GoogleUser{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return GoogleUser{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoogleUser{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return GoogleUser{}, err
	}
	// v2 userinfo uses "id" instead of "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return GoogleUser{
		Sub:           info.Sub,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail || info.EmailVerified,
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}

type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, v := range s.items {
		if now.After(v) {
			delete(s.items, k)
		}
	}
	s.items[state] = exp
}

// consume removes state and reports whether it was live at now.
func (s *stateStore) consume(state string, now time.Time) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	return ok && !now.After(exp)
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

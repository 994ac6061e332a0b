package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrNoSession means the request carried no access token.
	ErrNoSession = errors.New("no session")
	// ErrInvalidToken means a token was present but did not verify.
	ErrInvalidToken = errors.New("invalid access token")
)

// DefaultAccessCookie is the cookie the browser client stores the Supabase
// access token in.
const DefaultAccessCookie = "sb-access-token"

// Resolver turns an incoming request into the caller's session.
type Resolver interface {
	Resolve(r *http.Request) (*Session, error)
}

type userMetadata struct {
	FullName string `json:"full_name,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Claims is the payload of a Supabase access token.
type Claims struct {
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	UserMetadata userMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// SupabaseResolver verifies HS256 access tokens issued by Supabase auth with
// the project's JWT secret.
type SupabaseResolver struct {
	secret     []byte
	cookieName string
	audience   string
	leeway     time.Duration
}

type SupabaseOption func(*SupabaseResolver)

func WithAccessCookie(name string) SupabaseOption {
	return func(r *SupabaseResolver) {
		if strings.TrimSpace(name) != "" {
			r.cookieName = name
		}
	}
}

func WithLeeway(d time.Duration) SupabaseOption {
	return func(r *SupabaseResolver) { r.leeway = d }
}

func NewSupabaseResolver(jwtSecret string, opts ...SupabaseOption) *SupabaseResolver {
	r := &SupabaseResolver{
		secret:     []byte(jwtSecret),
		cookieName: DefaultAccessCookie,
		audience:   "authenticated",
		leeway:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve reads the token from the Authorization header, falling back to the
// access cookie.
func (s *SupabaseResolver) Resolve(r *http.Request) (*Session, error) {
	raw := bearerToken(r)
	if raw == "" {
		if c, err := r.Cookie(s.cookieName); err == nil {
			raw = strings.TrimSpace(c.Value)
		}
	}
	if raw == "" {
		return nil, ErrNoSession
	}
	return s.Verify(raw)
}

// Verify parses and validates one access token.
func (s *SupabaseResolver) Verify(raw string) (*Session, error) {
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: resolver has no jwt secret", ErrInvalidToken)
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	user := User{ID: claims.Subject, Email: claims.Email}
	name := claims.UserMetadata.FullName
	if name == "" {
		name = claims.UserMetadata.Name
	}
	if name != "" {
		user.FullName = &name
	}

	sess := &Session{User: user}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

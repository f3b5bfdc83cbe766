// internal/common/auth/session.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserType is the role claim issued by the auth service.
type UserType string

const (
	UserTypeBrand    UserType = "brand"
	UserTypeProvider UserType = "3pl"
	UserTypeAdmin    UserType = "admin"
)

func (u UserType) Valid() bool {
	switch u {
	case UserTypeBrand, UserTypeProvider, UserTypeAdmin:
		return true
	}
	return false
}

var (
	ErrTokenMissing     = errors.New("session token missing")
	ErrTokenInvalid     = errors.New("session token invalid")
	ErrSubjectMissing   = errors.New("session subject missing")
	ErrUserTypeInvalid  = errors.New("session user type invalid")
	ErrUserTypeMismatch = errors.New("user type not permitted")
)

// MismatchError reports a valid session whose user type is not allowed.
type MismatchError struct {
	Got     UserType
	Allowed []UserType
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUserTypeMismatch, e.Got)
}

func (e *MismatchError) Unwrap() error {
	return ErrUserTypeMismatch
}

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email    string   `json:"email"`
	UserType UserType `json:"user_type"`
}

// Session is the identity resolved from a verified token.
type Session struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	UserType  UserType  `json:"userType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionVerifier checks HS256 session tokens signed with a shared secret.
type SessionVerifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

func NewSessionVerifier(secret, issuer, audience string, leeway time.Duration) (*SessionVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is empty")
	}
	return &SessionVerifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		leeway:   leeway,
	}, nil
}

// Verify parses and validates token. When required is non-empty the session
// must carry one of those user types.
func (v *SessionVerifier) Verify(token string, required ...UserType) (*Session, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrSubjectMissing
	}
	if !claims.UserType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUserTypeInvalid, claims.UserType)
	}
	if len(required) > 0 && !containsUserType(required, claims.UserType) {
		return nil, &MismatchError{Got: claims.UserType, Allowed: required}
	}

	session := &Session{
		UserID:   claims.Subject,
		Email:    claims.Email,
		UserType: claims.UserType,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return session, nil
}

// Issue signs a token for the given identity. Production tokens come from
// the auth service; this is used by tests and local tooling.
func (v *SessionVerifier) Issue(userID, email string, userType UserType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    email,
		UserType: userType,
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func containsUserType(list []UserType, u UserType) bool {
	for _, candidate := range list {
		if candidate == u {
			return true
		}
	}
	return false
}

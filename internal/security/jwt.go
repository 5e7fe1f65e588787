package security

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
)

var (
	ErrMalformedToken = errors.New("invalid token format")
	ErrBadSignature   = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("token expired")
)

// JWTProvider signs and verifies HS256 access tokens. Tokens are issued by the
// identity service; this API only needs Generate for tooling and tests.
type JWTProvider struct {
	secret []byte
	now    func() time.Time
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), now: func() time.Time { return time.Now().UTC() }}
}

// Claims carries the granted roles and the selected one next to the
// registered claims. Older tokens only set sub, so UserID falls back to it.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"user_id,omitempty"`
	Roles  []string `json:"roles"`
	Role   string   `json:"role,omitempty"`
}

func (p *JWTProvider) Generate(userID common.UUID, roles []user.Role, activeRole user.Role, ttl time.Duration) (string, time.Time, error) {
	issuedAt := p.now()
	expiresAt := issuedAt.Add(ttl)
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
		UserID: userID.String(),
		Roles:  names,
		Role:   string(activeRole),
	})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return signed, expiresAt, nil
}

func (p *JWTProvider) Parse(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, errors.Mark(errors.Wrap(err, "parse token"), ErrMalformedToken)
		}
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return &claims, nil
}

// ActiveRole resolves the role the caller acts in. An explicit role must be one
// of the granted roles; a single granted role is used when none is selected.
func (c Claims) ActiveRole() (user.Role, bool) {
	selected := strings.TrimSpace(c.Role)
	if selected == "" && len(c.Roles) == 1 {
		selected = c.Roles[0]
	}
	role, ok := user.ParseRole(selected)
	if !ok {
		return "", false
	}
	for _, granted := range c.Roles {
		if parsed, ok := user.ParseRole(granted); ok && parsed == role {
			return role, true
		}
	}
	return "", false
}

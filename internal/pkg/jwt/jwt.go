package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenLifetime = 5 * time.Minute
)

var ErrInvalidClaims = errors.New("invalid session claims")

// Claims is the session identity carried by every token. Login lives outside this service;
// tokens are only minted here for SSE hand-off and local tooling.
type Claims struct {
	EmployeeID int64
	Role       employee.Role
	BranchID   *int64
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateSSEToken(claims Claims) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, token, err = j.tokenAuth.Encode(claims.toMap(TokenTypeAccess, expiresAt))
	return token, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for EventSource clients, which cannot send headers
func (j *JWTService) GenerateSSEToken(claims Claims) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(sseTokenLifetime).Unix()

	_, token, err = j.tokenAuth.Encode(claims.toMap(TokenTypeSSE, expiresAt))
	if err != nil {
		return "", 0, err
	}
	return token, int(sseTokenLifetime.Seconds()), nil
}

// ValidateSSEToken verifies signature, expiry and token type
func (j *JWTService) ValidateSSEToken(tokenString string) (Claims, error) {
	if j.IsTokenRevoked(tokenString) {
		return Claims{}, jwt.ErrInvalidJWT()
	}

	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return Claims{}, jwt.ErrInvalidJWT()
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Claims{}, err
	}
	return ClaimsFromMap(claims)
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (c Claims) toMap(tokenType string, expiresAt int64) map[string]any {
	claims := map[string]any{
		"employee_id": strconv.FormatInt(c.EmployeeID, 10),
		"role":        string(c.Role),
		"type":        tokenType,
		"exp":         expiresAt,
	}
	if c.BranchID != nil {
		claims["branch_id"] = strconv.FormatInt(*c.BranchID, 10)
	}
	return claims
}

// ClaimsFromMap reads the session identity out of decoded token claims.
func ClaimsFromMap(m map[string]any) (Claims, error) {
	raw, ok := m["employee_id"].(string)
	if !ok || raw == "" {
		return Claims{}, fmt.Errorf("%w: employee_id missing", ErrInvalidClaims)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Claims{}, fmt.Errorf("%w: employee_id %q", ErrInvalidClaims, raw)
	}

	role, _ := m["role"].(string)
	switch employee.Role(role) {
	case employee.RoleAdmin, employee.RoleBranchManager, employee.RoleEmployee:
	default:
		return Claims{}, fmt.Errorf("%w: role %q", ErrInvalidClaims, role)
	}

	claims := Claims{EmployeeID: id, Role: employee.Role(role)}
	if rawBranch, ok := m["branch_id"].(string); ok && rawBranch != "" {
		branchID, err := strconv.ParseInt(rawBranch, 10, 64)
		if err != nil {
			return Claims{}, fmt.Errorf("%w: branch_id %q", ErrInvalidClaims, rawBranch)
		}
		claims.BranchID = &branchID
	}
	return claims, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type JWT struct {
	logger    *zap.SugaredLogger
	jwtSecret string
}

type JWTInterface interface {
	GenerateRefreshAndAccessToken(payload JWTPayload) (*string, *string, error)
	VerifyJwtToken(token string) (*JWTClaims, error)
}

func NewJwt(cfg config.AuthConfig, logger *zap.SugaredLogger) *JWT {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("test")
	}

	return &JWT{
		jwtSecret: cfg.JWT_SECRET,
		logger:    logger,
	}
}

// JWTPayload is the principal every protected route receives.
type JWTPayload struct {
	ID        uint              `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Role      constant.UserRole `json:"role"`
}

func (p JWTPayload) HasRole(roles ...constant.UserRole) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type JWTClaims struct {
	User JWTPayload `json:"user"`
	Type string     `json:"type"`
	jwt.RegisteredClaims
}

func (j JWT) sign(payload JWTPayload, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		User: payload,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.jwtSecret))
}

// Return refreshToken, accessToken, error
func (j JWT) GenerateRefreshAndAccessToken(payload JWTPayload) (*string, *string, error) {
	j.logger.Debugf("Generate refresh and access token for user id: %d", payload.ID)

	if j.jwtSecret == "" {
		return nil, nil, errors.New("jwt secret is not configured")
	}

	refreshToken, err := j.sign(payload, constant.JWT_TYPE_REFRESH, RefreshTokenTTL)
	if err != nil {
		return nil, nil, err
	}

	accessToken, err := j.sign(payload, constant.JWT_TYPE_ACCESS, AccessTokenTTL)
	if err != nil {
		return nil, nil, err
	}

	return &refreshToken, &accessToken, nil
}

func (j JWT) VerifyJwtToken(token string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(j.jwtSecret), nil
	})
	if err != nil {
		j.logger.Debugf("Failed to verify jwt token. Error: %v", err)
		return nil, err
	}

	if !parsedToken.Valid {
		j.logger.Debug("Jwt token is not valid")
		return nil, errors.New("jwt token is not valid")
	}

	if claims.User.ID == 0 || !claims.User.Role.IsValid() {
		return nil, errors.New("invalid token: user field is missing or malformed")
	}

	return claims, nil
}

package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sm8ta/customer_microservice/internal/core/domain"
	"github.com/sm8ta/customer_microservice/internal/core/ports"
)

const defaultTokenDuration = 24 * time.Hour

type accessClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type JWTTokenService struct {
	secretKey  []byte
	expiration time.Duration
	logger     ports.LoggerPort
	now        func() time.Time
}

func NewJWTTokenService(secretKey string, duration time.Duration, logger ports.LoggerPort) *JWTTokenService {
	if duration <= 0 {
		logger.Warn("Invalid token duration, using default 24h", map[string]interface{}{
			"duration": duration.String(),
		})
		duration = defaultTokenDuration
	}

	return &JWTTokenService{
		secretKey:  []byte(secretKey),
		expiration: duration,
		logger:     logger,
		now:        time.Now,
	}
}

var _ ports.TokenService = (*JWTTokenService)(nil)

func (j *JWTTokenService) CreateToken(user *domain.User) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		j.logger.Error("Failed to generate uuid", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
			"method":  "CreateToken",
		})
		return "", err
	}

	issuedAt := j.now()
	claims := accessClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

func (j *JWTTokenService) VerifyToken(token string) (domain.TokenPayload, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		j.logger.Debug("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return domain.TokenPayload{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return domain.TokenPayload{}, fmt.Errorf("%w: invalid jti", domain.ErrInvalidToken)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.TokenPayload{}, fmt.Errorf("%w: invalid subject", domain.ErrInvalidToken)
	}

	payload := domain.TokenPayload{
		ID:        id,
		UserID:    userID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}

	return payload, nil
}

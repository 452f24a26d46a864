package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/validation"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AdminDataKey       = "admin"
	DefaultTokenExpiry = 24 * time.Hour
)

var ErrNoSecret = errors.New("JWT_SECRET is not configured")

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTokenExpiry
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) GenerateToken(data types.AdminWithAuth) (string, *time.Time, error) {
	if len(m.secret) == 0 {
		return "", nil, ErrNoSecret
	}
	if err := validation.Validate(data); err != nil {
		return "", nil, err
	}

	now := time.Now()
	exp := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"exp":        exp.Unix(),
		"iat":        now.Unix(),
		"sub":        data.ID.String(),
		AdminDataKey: data,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, &exp, nil
}

func (m *Manager) ValidateToken(jwtToken string) (*types.AdminWithAuth, error) {
	if len(m.secret) == 0 {
		return nil, ErrNoSecret
	}

	token, err := jwt.Parse(jwtToken, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims[AdminDataKey] == nil {
		return nil, fmt.Errorf("admin data not found in token claims")
	}

	raw, err := json.Marshal(claims[AdminDataKey])
	if err != nil {
		return nil, fmt.Errorf("error marshalling admin data: %w", err)
	}

	var admin types.AdminWithAuth
	if err := json.Unmarshal(raw, &admin); err != nil {
		return nil, fmt.Errorf("error unmarshalling admin data: %w", err)
	}
	if err := validation.Validate(admin); err != nil {
		return nil, err
	}

	return &admin, nil
}

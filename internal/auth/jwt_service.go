package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DeviceTokenExpiry is how long a device cookie stays valid without being reissued.
const DeviceTokenExpiry = 365 * 24 * time.Hour

const deviceIssuer = "househunt-gateway"

// DeviceClaims identifies a browser to the gateway.
type DeviceClaims struct {
	DeviceID string `json:"did"`
	jwt.RegisteredClaims
}

// JWTService issues and validates device tokens.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// NewDeviceID generates a fresh device identifier.
func NewDeviceID() string {
	return uuid.NewString()
}

// GenerateDeviceToken signs a token for deviceID.
func (s *JWTService) GenerateDeviceToken(deviceID string) (string, error) {
	now := s.now()
	claims := &DeviceClaims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    deviceIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(DeviceTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateDeviceToken validates a device token and returns its claims.
func (s *JWTService) ValidateDeviceToken(tokenString string) (*DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DeviceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*DeviceClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.DeviceID == "" || claims.Issuer != deviceIssuer {
		return nil, errors.New("invalid device token")
	}

	return claims, nil
}

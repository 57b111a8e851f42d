package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config carries the signing parameters. It is built once at process start
// and passed in explicitly; there is no package-level state.
type Config struct {
	Secret   string
	Audience string
	Issuer   string
	TTL      time.Duration
}

type JWT struct {
	config Config
}

func NewJWT(config Config) *JWT {
	if config.TTL == 0 {
		config.TTL = time.Hour
	}
	return &JWT{
		config: config,
	}
}

// IssueToken signs an HS256 access token carrying the user ID.
func (j *JWT) IssueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"userId": userID.String(),
		"aud":    j.config.Audience,
		"iss":    j.config.Issuer,
		"iat":    now.Unix(),
		"exp":    now.Add(j.config.TTL).Unix(),
	})
	return token.SignedString([]byte(j.config.Secret))
}

// ParseToken validates the signature, audience, issuer and expiry, and
// returns the user ID the token was issued for.
func (j *JWT) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwtlib.Parse(
		tokenString,
		func(token *jwtlib.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(j.config.Secret), nil
		},
		jwtlib.WithAudience(j.config.Audience),
		jwtlib.WithIssuer(j.config.Issuer),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected claims type")
	}

	raw, ok := claims["userId"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing userId claim")
	}

	return uuid.Parse(raw)
}

package util

import (
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"k8s.io/klog/v2"

	"github.com/orgforge-labs/orgforge/pkg/config"
)

type (
	JWTClaims struct {
		SessionID string `json:"si"`
		jwt.RegisteredClaims
	}
	JWTMessage struct {
		SessionID string `json:"sessionID"`
	}
)

type TokenManager struct {
	secretKey     string
	tokenTTLHours int
}

var (
	once     sync.Once
	tokenMgr *TokenManager
)

func GetTokenMgr() *TokenManager {
	once.Do(func() {
		conf := config.GetConfig()
		ttl := conf.Auth.TokenExpiryHour
		if ttl <= 0 {
			ttl = 24
		}
		tokenMgr = &TokenManager{
			secretKey:     conf.Auth.AccessTokenSecret,
			tokenTTLHours: ttl,
		}
	})
	return tokenMgr
}

// CreateToken signs a session token. Sessions are anonymous; the only
// claim is the session id the holder may operate on.
func (tm *TokenManager) CreateToken(msg *JWTMessage) (string, error) {
	expiresAt := time.Now().Add(time.Hour * time.Duration(tm.tokenTTLHours))

	claims := &JWTClaims{
		SessionID: msg.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(tm.secretKey))
	if err != nil {
		klog.Error(err)
		return "", err
	}
	return signed, nil
}

func (tm *TokenManager) CheckToken(requestToken string) (JWTMessage, error) {
	claims := JWTClaims{}
	_, err := jwt.ParseWithClaims(requestToken, &claims, func(_ *jwt.Token) (any, error) {
		return []byte(tm.secretKey), nil
	})
	return JWTMessage{SessionID: claims.SessionID}, err
}

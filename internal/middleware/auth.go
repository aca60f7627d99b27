package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"github.com/stayledger/backend/internal/chain"
)

type contextKey string

// AccountKey holds the authenticated wallet address in the request context.
const AccountKey contextKey = "account"

// AuthMiddleware validates the wallet-session bearer token issued by the
// identity collaborator and puts the checksummed acting account into the
// request context. It asserts who the caller claims to be; whether that
// account may perform a given mutation is the ledger's decision alone.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		account, err := validateToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AccountKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountFromContext returns the authenticated acting account, if any.
func AccountFromContext(ctx context.Context) string {
	account, _ := ctx.Value(AccountKey).(string)
	return account
}

func validateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(viper.GetString("jwt.secret_key")), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session claims")
	}

	account, _ := claims["account"].(string)
	normalized, err := chain.NormalizeAddress(account)
	if err != nil {
		return "", fmt.Errorf("session token account: %w", err)
	}
	return normalized, nil
}

// IssueSessionToken signs a wallet-session token for an account. The identity
// collaborator calls this after verifying wallet ownership; tests use it to
// mint sessions directly.
func IssueSessionToken(account string, ttl time.Duration) (string, error) {
	normalized, err := chain.NormalizeAddress(account)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account": normalized,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	})
	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}

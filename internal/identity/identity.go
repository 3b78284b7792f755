// Package identity verifies bearer tokens issued for the mobile app and
// exposes the caller's user id to handlers.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type userIDKey struct{}

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// WithUserID returns a copy of ctx carrying a verified user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the verified user id, if the request carried one.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}

// Verifier checks HS256 tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify parses the "Bearer <token>" header value and returns the subject.
func (v *Verifier) Verify(header string) (string, error) {
	scheme, rawToken, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(rawToken) == "" {
		return "", ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := v.parser.ParseWithClaims(strings.TrimSpace(rawToken), claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}); err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Middleware rejects requests under pathPrefix without a valid token and
// stores the token subject for the rest.
func Middleware(verifier *Verifier, pathPrefix string, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !strings.HasPrefix(req.URL.Path, pathPrefix) || req.Method == http.MethodOptions {
				next.ServeHTTP(w, req)
				return
			}

			userID, err := verifier.Verify(req.Header.Get("Authorization"))
			if err != nil {
				logger.WithError(err).WithField("path", req.URL.Path).Warn("identity.Middleware.rejected")
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, req.WithContext(WithUserID(req.Context(), userID)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="ledger"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Non autorisé"})
}

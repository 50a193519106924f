// Package middleware содержит HTTP middleware сервиса студии.
package middleware

import (
	"context"
	"crypto/rand"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const adminKey contextKey = "admin"

const (
	authCookieName = "hu_admin_session"
	authCookieTTL  = 30 * 24 * time.Hour
	tokenIssuer    = "hucreative-studio"

	// LoginPath задаёт путь страницы входа панели администратора.
	LoginPath = "/admin/login"
)

// Authenticator сообщает, выполнен ли вход администратора.
type Authenticator interface {
	IsAuthenticated() bool
}

// AuthMiddleware охраняет маршруты администратора: нужен и флаг входа, и подписанный cookie.
type AuthMiddleware struct {
	secretKey []byte
	gate      Authenticator
	loginURL  string
}

// AuthOption настраивает AuthMiddleware.
type AuthOption func(*AuthMiddleware)

// WithLoginURL задаёт адрес страницы входа для перенаправления. Обычно это страница SPA на другом origin.
func WithLoginURL(url string) AuthOption {
	return func(a *AuthMiddleware) {
		if url != "" {
			a.loginURL = url
		}
	}
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware. Пустой secret заменяется случайным ключом.
// Без WithLoginURL неавторизованная навигация перенаправляется на LoginPath.
func NewAuthMiddleware(secret string, gate Authenticator, opts ...AuthOption) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	a := &AuthMiddleware{
		secretKey: key,
		gate:      gate,
		loginURL:  LoginPath,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoginURL возвращает адрес, на который перенаправляется неавторизованная навигация.
func (a *AuthMiddleware) LoginURL() string {
	return a.loginURL
}

// Middleware пропускает запрос дальше, только если вход выполнен.
// Навигация (GET, HEAD) перенаправляется на страницу входа с заменой адреса, остальные методы получают 401.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := a.authorize(r)
		if !ok {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				w.Header().Set("Cache-Control", "no-store")
				http.Redirect(w, r, a.loginURL, http.StatusSeeOther)
				return
			}
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), adminKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *AuthMiddleware) authorize(r *http.Request) (string, bool) {
	if a.gate == nil || !a.gate.IsAuthenticated() {
		return "", false
	}

	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return "", false
	}

	return a.parseToken(cookie.Value)
}

// SetAuthCookie устанавливает подписанный cookie сессии администратора.
func (a *AuthMiddleware) SetAuthCookie(w http.ResponseWriter, username string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(authCookieTTL)),
	})

	value, err := token.SignedString(a.secretKey)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    value,
		Path:     "/",
		Expires:  now.Add(authCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearAuthCookie удаляет cookie сессии администратора.
func (a *AuthMiddleware) ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *AuthMiddleware) parseToken(value string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return a.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", false
	}
	return claims.Subject, true
}

// GetAdminFromContext извлекает имя администратора из контекста запроса.
func GetAdminFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(adminKey).(string)
	return name, ok
}

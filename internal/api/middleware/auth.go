// auth.go — middleware админ-доступа.
// Все админ-эндпоинты защищены одним общим секретом в заголовке
// Authorization: Bearer <secret>. Без rate limiting, без персональных
// токенов, без audit log — секрет ротируется переконфигурацией.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/ukftt/registration-module/internal/api/errors"
)

// TokenVerifier — проверка административного credential.
// Интерфейс позволяет заменить статический секрет на персональные
// токены, не трогая вызывающий код.
type TokenVerifier interface {
	// Verify возвращает true, если credential даёт админ-доступ.
	Verify(credential string) bool
}

// StaticTokenVerifier — сравнение credential с общим секретом.
type StaticTokenVerifier struct {
	secret string
}

// NewStaticTokenVerifier создаёт verifier со статическим секретом.
func NewStaticTokenVerifier(secret string) *StaticTokenVerifier {
	return &StaticTokenVerifier{secret: secret}
}

// Verify сравнивает credential с секретом за константное время.
func (v *StaticTokenVerifier) Verify(credential string) bool {
	return subtle.ConstantTimeCompare([]byte(credential), []byte(v.secret)) == 1
}

// AdminAuth возвращает middleware, требующий валидный Bearer credential.
// Отсутствующий или некорректный заголовок — 401, неподходящий
// credential — 403.
func AdminAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Unauthorized")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				apierrors.Unauthorized(w, "Unauthorized")
				return
			}

			if !verifier.Verify(parts[1]) {
				logger.Warn("Отклонён админ-запрос с неверным credential",
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Forbidden(w, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

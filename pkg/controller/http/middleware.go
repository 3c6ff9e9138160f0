package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

// authMiddleware resolves the bearer token to the calling user
func authMiddleware(authUC *usecase.AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				handleError(r.Context(), w, goerr.Wrap(model.ErrUnauthenticated, "bearer token is required"))
				return
			}

			user, err := authUC.Authenticate(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				handleError(r.Context(), w, err)
				return
			}

			ctx := model.ContextWithUserID(r.Context(), user.ID)
			ctx = logging.With(ctx, logging.From(ctx).With(model.UserIDKey, user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// callerID returns the user set by authMiddleware
func callerID(r *http.Request) model.UserID {
	id, _ := model.UserIDFromContext(r.Context())
	return id
}

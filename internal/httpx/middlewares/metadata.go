package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lhardev/storefront/internal/pkg/requestmeta"
)

// AttachRequestMetadata copies the chi request id and the caller's
// idempotency key into the context, where the service layer reads them.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestmeta.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ctx = requestmeta.WithIdempotencyKey(ctx, r.Header.Get(requestmeta.HeaderIdempotencyKey))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

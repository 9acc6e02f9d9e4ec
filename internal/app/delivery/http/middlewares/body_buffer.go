package middlewares

import (
	"net/http"
)

const defaultBodyLimitInMegabyte = 1

// BodyLimit caps request bodies so a misbehaving client cannot stream an unbounded offline
// backlog in one request. Decoding past the cap fails with a JSON error.
func (m *Middlewares) BodyLimit(next http.Handler) http.Handler {
	limit := int64(m.InternalConfig.App.RequestBodyLimitInMegabyte)
	if limit <= 0 {
		limit = defaultBodyLimitInMegabyte
	}
	limit <<= 20

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}

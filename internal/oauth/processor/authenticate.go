package processor

import (
	"net/http"
	"strings"
)

// ExtractBearerToken reads the access token from the Authorization header.
// Returns the empty string when the header is absent or not Bearer-shaped;
// OAuth accepts no other header forms.
func ExtractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return ""
	}
	return token
}

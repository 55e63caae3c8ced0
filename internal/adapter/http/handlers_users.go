package adapthttp

import "net/http"

// handleUsersMe returns the profile of the authenticated user. The password
// hash never leaves the server.
func (s *Server) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFrom(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
	})
}

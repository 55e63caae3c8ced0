package adapthttp

import (
	"net/http"
	"strconv"
	"strings"

	"contactbook/internal/domain"
)

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listContacts(w, r)
	case http.MethodPost:
		s.createContact(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	limit := intQuery(r, "limit", domain.DefaultPageSize)
	offset := intQuery(r, "offset", 0)

	items, err := s.contacts.List(r.Context(), user.ID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var input domain.ContactInput
	if err := parseJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	contact, err := s.contacts.Create(r.Context(), user.ID, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

// handleContactByID serves /contacts/{id} for GET, PATCH and DELETE.
func (s *Server) handleContactByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/contacts/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	user := userFrom(r)

	switch r.Method {
	case http.MethodGet:
		contact, err := s.contacts.Get(r.Context(), user.ID, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, contact)
	case http.MethodPatch:
		var patch domain.ContactPatch
		if err := parseJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		contact, err := s.contacts.Update(r.Context(), user.ID, id, patch)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, contact)
	case http.MethodDelete:
		contact, err := s.contacts.Remove(r.Context(), user.ID, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, contact)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleContactSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFrom(r)

	items, err := s.contacts.Search(r.Context(), user.ID, r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleContactBirthdays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFrom(r)

	items, err := s.contacts.UpcomingBirthdays(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

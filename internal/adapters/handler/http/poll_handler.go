package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

// ListActive godoc
// @Summary      Lists the active polls
// @Tags         polls
// @Produce      json
// @Success      200  {array}  domain.Poll
// @Router       /polls [get]
func (h *PollHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListActive(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, polls)
}

// GetPoll godoc
// @Summary      Gets a poll with its questions
// @Description  Includes the poll status and whether the caller already answered it. Anonymous callers are identified by the anonymous_id query parameter or cookie.
// @Tags         polls
// @Produce      json
// @Param        id            path   string  true   "Poll ID"
// @Param        anonymous_id  query  string  false  "Anonymous voter id"
// @Success      200  {object}  ports.PollDetail
// @Failure      400
// @Failure      404
// @Router       /polls/{id} [get]
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, r, domain.ErrInvalidPollID)
		return
	}

	var voter *domain.VoterIdentity
	if uid, ok := userID(r); ok {
		v := domain.UserVoter(uid)
		voter = &v
	} else if anon := knownAnonymousID(r); anon != "" {
		v := domain.AnonymousVoter(anon)
		voter = &v
	}

	poll, err := h.service.GetPoll(r.Context(), id, voter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, poll)
}

func knownAnonymousID(r *http.Request) string {
	if id := strings.TrimSpace(r.URL.Query().Get(ports.AnonymousIDKey)); id != "" {
		return id
	}
	if cookie, err := r.Cookie(ports.AnonymousIDKey); err == nil {
		return cookie.Value
	}
	return ""
}

// ListForAdmin godoc
// @Summary      Searches every poll
// @Tags         admin
// @Produce      json
// @Param        search      query  string  false  "Matches title or description"
// @Param        status      query  string  false  "all, active or inactive"
// @Param        start_date  query  string  false  "RFC 3339 or YYYY-MM-DD"
// @Param        end_date    query  string  false  "RFC 3339 or YYYY-MM-DD"
// @Success      200  {array}  domain.Poll
// @Failure      400
// @Router       /admin/polls [get]
func (h *PollHandler) ListForAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ports.PollFilter{
		Search: q.Get("search"),
		Active: ports.ActiveFilter(q.Get("status")),
	}

	var err error
	if filter.StartDate, err = parseDate(q.Get("start_date")); err != nil {
		respondError(w, r, err)
		return
	}
	if filter.EndDate, err = parseDate(q.Get("end_date")); err != nil {
		respondError(w, r, err)
		return
	}

	polls, err := h.service.ListForAdmin(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, polls)
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, &domain.ValidationError{Reason: "invalid date " + v}
}

// GetForAdmin godoc
// @Summary      Gets any poll with its questions
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "Poll ID"
// @Success      200  {object}  domain.Poll
// @Failure      404
// @Router       /admin/polls/{id} [get]
func (h *PollHandler) GetForAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pollIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	poll, err := h.service.GetForAdmin(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, poll)
}

// CreatePoll godoc
// @Summary      Creates a poll
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        poll  body  ports.CreatePollInput  true  "Poll"
// @Success      201  {object}  domain.Poll
// @Failure      400
// @Router       /admin/polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var input ports.CreatePollInput
	if err := decodeJSON(r, &input); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var createdBy *uuid.UUID
	if uid, ok := userID(r); ok {
		createdBy = &uid
	}

	poll, err := h.service.Create(r.Context(), createdBy, input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusCreated, poll)
}

// UpdatePoll godoc
// @Summary      Updates a poll
// @Description  Questions are replaced only while the poll has no responses.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Poll ID"
// @Param        poll  body  ports.UpdatePollInput  true  "Changes"
// @Success      200  {object}  domain.Poll
// @Failure      400
// @Failure      404
// @Router       /admin/polls/{id} [put]
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	id, err := pollIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var input ports.UpdatePollInput
	if err := decodeJSON(r, &input); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	poll, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll godoc
// @Summary      Deletes a poll and its responses
// @Tags         admin
// @Param        id  path  string  true  "Poll ID"
// @Success      204
// @Failure      404
// @Router       /admin/polls/{id} [delete]
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	id, err := pollIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pollIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.ErrInvalidPollID
	}
	return id, nil
}

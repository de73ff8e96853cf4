package http

import (
	"net/http"
	"strings"

	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type VoteHandler struct {
	service      ports.VoteService
	identity     ports.IdentityService
	cookieDomain string
	cookieSecure bool
}

func NewVoteHandler(service ports.VoteService, identity ports.IdentityService, cookieDomain string, cookieSecure bool) *VoteHandler {
	return &VoteHandler{
		service:      service,
		identity:     identity,
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
	}
}

type submitResponseRequest struct {
	AnonymousID string               `json:"anonymous_id"`
	Answers     []domain.AnswerInput `json:"answers"`
}

// SubmitResponse godoc
// @Summary      Answers a poll
// @Description  Authenticated users vote as themselves. Other callers vote with the anonymous id from the body, or with the one kept in the anonymous_id cookie, which is created with the first accepted vote.
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        id        path  string                  true  "Poll ID"
// @Param        response  body  submitResponseRequest   true  "Answers"
// @Success      201  {object}  domain.Response
// @Failure      400
// @Failure      401
// @Failure      404
// @Failure      409
// @Router       /polls/{id}/responses [post]
func (h *VoteHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req submitResponseRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store := newCookieStore(w, r, h.cookieDomain, h.cookieSecure)
	voter, err := h.voter(r, store, req.AnonymousID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	response, err := h.service.Submit(r.Context(), ports.SubmitResponseInput{
		PollID:  pollID,
		Voter:   voter,
		Answers: req.Answers,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	// A new anonymous id is only kept once a vote was recorded with it.
	store.commit()
	JSONResponse(w, http.StatusCreated, response)
}

func (h *VoteHandler) voter(r *http.Request, store ports.KeyValueStore, anonymousID string) (domain.VoterIdentity, error) {
	if uid, ok := userID(r); ok {
		return domain.UserVoter(uid), nil
	}
	if id := strings.TrimSpace(anonymousID); id != "" {
		return domain.AnonymousVoter(id), nil
	}

	id, err := h.identity.ResolveAnonymousID(r.Context(), store)
	if err != nil {
		return domain.VoterIdentity{}, err
	}
	return domain.AnonymousVoter(id), nil
}

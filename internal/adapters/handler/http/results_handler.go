package http

import (
	"net/http"

	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type ResultsHandler struct {
	service ports.ResultsService
}

func NewResultsHandler(service ports.ResultsService) *ResultsHandler {
	return &ResultsHandler{
		service: service,
	}
}

// GetResults godoc
// @Summary      Gets the aggregated results of a poll
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "Poll ID"
// @Success      200  {object}  domain.PollResults
// @Failure      404
// @Router       /admin/polls/{id}/results [get]
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, err := pollIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	results, err := h.service.GetResults(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, results)
}

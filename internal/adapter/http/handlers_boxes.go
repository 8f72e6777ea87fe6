package adapthttp

import (
	"errors"
	"net/http"

	"boxtracker/internal/app"
	"boxtracker/internal/domain"
)

type boxesResponse struct {
	Boxes          []int   `json:"boxes"`
	LastUpdateDate *string `json:"lastUpdateDate"`
}

func toBoxesResponse(rec *domain.BoxRecord) boxesResponse {
	boxes := rec.Boxes
	if boxes == nil {
		boxes = []int{}
	}
	return boxesResponse{Boxes: boxes, LastUpdateDate: rec.LastUpdateDay}
}

func (s *Server) handleBoxes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleBoxesGet(w, r)
	case http.MethodPost:
		s.handleBoxesPost(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleBoxesGet(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	rec, err := s.boxes.Get(r.Context(), user.ID)
	if err != nil {
		s.log.WithError(err).Error("get boxes failed")
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toBoxesResponse(rec))
}

func (s *Server) handleBoxesPost(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var body struct {
		Index     int  `json:"index"`
		Completed bool `json:"completed"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.boxes.SetBoxState(r.Context(), user.ID, body.Index, body.Completed)
	if errors.Is(err, app.ErrInvalidIndex) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		s.log.WithError(err).Error("set box state failed")
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toBoxesResponse(rec))
}

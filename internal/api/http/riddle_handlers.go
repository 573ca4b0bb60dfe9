package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	appArbitration "github.com/lantern-hub/lantern/internal/application/arbitration"
	appRiddle "github.com/lantern-hub/lantern/internal/application/riddle"
	domainRiddle "github.com/lantern-hub/lantern/internal/domain/riddle"
)

type riddleRequest struct {
	Question string   `json:"question" validate:"notblank,max=500"`
	Answer   string   `json:"answer" validate:"notblank,max=200"`
	Options  []string `json:"options" validate:"max=20,dive,max=200"`
	Remark   *string  `json:"remark,omitempty" validate:"omitempty,max=500"`
}

func (req riddleRequest) input() appRiddle.Input {
	return appRiddle.Input{
		Question: req.Question,
		Answer:   req.Answer,
		Options:  req.Options,
		Remark:   req.Remark,
	}
}

type answerRequest struct {
	Answer string `json:"answer" validate:"notblank,max=200"`
}

// adminRiddle exposes the answer, which participant views never carry.
type adminRiddle struct {
	*domainRiddle.WithWinner
	Answer string `json:"answer"`
}

func newAdminRiddle(r *domainRiddle.WithWinner) adminRiddle {
	return adminRiddle{WithWinner: r, Answer: r.Answer}
}

type submitResponse struct {
	*appArbitration.Result
	Message string `json:"message"`
}

var outcomeMessages = map[appArbitration.Outcome]string{
	appArbitration.OutcomeWin:              "恭喜你！抢答成功！",
	appArbitration.OutcomeWrongAnswer:      "答案不对，请再接再厉！",
	appArbitration.OutcomeAlreadyAttempted: "你已经猜过该题了！",
	appArbitration.OutcomeLostRace:         "手慢了，已被抢答！",
	appArbitration.OutcomeContestNotActive: "活动不在进行中",
}

// riddleFeed lists unsolved riddles for participants.
func (s *Server) riddleFeed(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r, 10, 100)
	var exclude []uuid.UUID
	for _, raw := range splitCSV(r.URL.Query().Get("exclude_ids")) {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid exclude_ids")
			return
		}
		exclude = append(exclude, id)
	}
	items, err := s.riddleSvc.Feed(r.Context(), exclude, p.limit(), p.offset())
	if err != nil {
		s.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) getRiddle(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "riddleId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid riddleId")
		return
	}
	item, err := s.riddleSvc.Get(r.Context(), id)
	if err != nil {
		s.respondRiddleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	if auth == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	id, err := parseUUIDParam(r, "riddleId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid riddleId")
		return
	}
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}

	start := time.Now()
	res, err := s.arbitrationSvc.Submit(r.Context(), appArbitration.SubmitInput{
		UserID:   auth.UserID,
		RiddleID: id,
		Answer:   req.Answer,
	})
	if err != nil {
		switch {
		case errors.Is(err, appArbitration.ErrInvalidInput):
			s.observeSubmission("INVALID_INPUT", start)
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		case errors.Is(err, appArbitration.ErrRiddleNotFound), errors.Is(err, appArbitration.ErrUserNotFound):
			s.observeSubmission("NOT_FOUND", start)
			respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		default:
			s.observeSubmission("STORAGE_FAILURE", start)
			s.respondInternal(w, r, err)
		}
		return
	}
	s.observeSubmission(string(res.Outcome), start)
	respondJSON(w, http.StatusOK, submitResponse{Result: res, Message: outcomeMessages[res.Outcome]})
}

func (s *Server) observeSubmission(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(outcome, time.Since(start))
	}
}

func (s *Server) listRiddles(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r, 10, 100)
	in := appRiddle.ListInput{
		Keyword: r.URL.Query().Get("keyword"),
		Limit:   p.limit(),
		Offset:  p.offset(),
	}
	switch r.URL.Query().Get("solved") {
	case "true", "1":
		v := true
		in.Solved = &v
	case "false", "0":
		v := false
		in.Solved = &v
	}
	items, total, err := s.riddleSvc.List(r.Context(), in)
	if err != nil {
		s.respondInternal(w, r, err)
		return
	}
	list := make([]adminRiddle, 0, len(items))
	for _, item := range items {
		list = append(list, newAdminRiddle(item))
	}
	respondJSON(w, http.StatusOK, newPageResponse(p, total, list))
}

func (s *Server) createRiddle(w http.ResponseWriter, r *http.Request) {
	var req riddleRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	created, err := s.riddleSvc.Create(r.Context(), req.input())
	if err != nil {
		s.respondRiddleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newAdminRiddle(&domainRiddle.WithWinner{Riddle: *created}))
}

func (s *Server) getRiddleAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "riddleId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid riddleId")
		return
	}
	item, err := s.riddleSvc.Get(r.Context(), id)
	if err != nil {
		s.respondRiddleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newAdminRiddle(item))
}

func (s *Server) updateRiddle(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "riddleId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid riddleId")
		return
	}
	var req riddleRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	updated, err := s.riddleSvc.Update(r.Context(), id, req.input())
	if err != nil {
		s.respondRiddleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newAdminRiddle(&domainRiddle.WithWinner{Riddle: *updated}))
}

func (s *Server) deleteRiddle(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "riddleId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid riddleId")
		return
	}
	if err := s.riddleSvc.Delete(r.Context(), id); err != nil {
		s.respondRiddleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
}

func (s *Server) respondRiddleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, appRiddle.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domainRiddle.ErrQuestionRequired), errors.Is(err, domainRiddle.ErrAnswerRequired):
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	default:
		s.respondInternal(w, r, err)
	}
}

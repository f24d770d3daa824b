package transaction

import (
	"context"
	"errors"
	"net/http"

	"github.com/amiskov/spendahead/pkg/common"
	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/session"
)

type iService interface {
	List(ctx context.Context, q Query) ([]*Transaction, error)
	Add(ctx context.Context, in *NewTransaction) (*Transaction, error)
	Summary(ctx context.Context, q Query) (*Summary, error)
}

type handler struct {
	service iService
}

func NewTransactionHandler(s iService) *handler {
	return &handler{
		service: s,
	}
}

func queryFrom(r *http.Request) Query {
	v := r.URL.Query()
	return Query{
		Search:   v.Get("search"),
		Category: v.Get("category"),
		Type:     v.Get("type"),
		Period:   v.Get("period"),
	}
}

func (h *handler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.List(r.Context(), queryFrom(r))
	if h.writeErr(w, err) {
		return
	}
	common.WriteRespJSON(w, txs)
}

func (h *handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context(), queryFrom(r))
	if h.writeErr(w, err) {
		return
	}
	common.WriteRespJSON(w, sum)
}

func (h *handler) Add(w http.ResponseWriter, r *http.Request) {
	in := new(NewTransaction)
	if err := common.ParseReqBody(r.Body, in); err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as transaction: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	t, err := h.service.Add(r.Context(), in)
	if h.writeErr(w, err) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	common.WriteRespJSON(w, t)
}

// writeErr maps service errors to responses and reports whether it wrote one.
func (h *handler) writeErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, session.ErrNoAuth):
		common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
	case errors.Is(err, errUnknownPeriod), errors.Is(err, errBadType):
		common.WriteMsg(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errZeroAmount), errors.Is(err, errNoDescription), errors.Is(err, errUnknownAccount):
		common.WriteMsg(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		common.WriteMsg(w, "can't process transactions", http.StatusInternalServerError)
	}
	return true
}

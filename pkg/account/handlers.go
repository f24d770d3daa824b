package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/amiskov/spendahead/pkg/common"
	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/session"
)

type IAccountService interface {
	GetUserAccounts(ctx context.Context) ([]*Account, error)
	AddAccount(ctx context.Context, in *NewAccount) (*Account, error)
}

type Handler struct {
	service IAccountService
}

func NewAccountHandler(s IAccountService) *Handler {
	return &Handler{
		service: s,
	}
}

func (ah Handler) GetAccountsList(w http.ResponseWriter, r *http.Request) {
	accounts, err := ah.service.GetUserAccounts(r.Context())
	if errors.Is(err, session.ErrNoAuth) {
		common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
		return
	}
	if err != nil {
		common.WriteMsg(w, "can't get user accounts", http.StatusInternalServerError)
		return
	}
	common.WriteRespJSON(w, accounts)
}

// AddAccount status codes:
//   - 201 account created;
//   - 400 bad request format or fields;
//   - 401 not authenticated;
//   - 422 card number failed validation;
//   - 500 internal error.
func (ah Handler) AddAccount(w http.ResponseWriter, r *http.Request) {
	in := new(NewAccount)
	if err := common.ParseReqBody(r.Body, in); err != nil {
		logger.Log(r.Context()).Errorf("account/handlers: can't parse request body as account, %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	a, err := ah.service.AddAccount(r.Context(), in)
	switch {
	case errors.Is(err, session.ErrNoAuth):
		common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
		return
	case errors.Is(err, errInvalidNumber):
		common.WriteMsg(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, errNoName), errors.Is(err, errBadType), errors.Is(err, errBadCurrency):
		common.WriteMsg(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		common.WriteMsg(w, "can't add account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	common.WriteRespJSON(w, a)
}

package http

import (
	"net/http"

	"drinksales/internal/core"
	applog "drinksales/internal/log"
)

type optionsResponse struct {
	Accounts   []string `json:"accounts"`
	Categories []string `json:"categories"`
}

func records(txs []core.Transaction) []core.Record {
	out := make([]core.Record, 0, len(txs))
	for _, t := range txs {
		out = append(out, core.RecordOf(t))
	}
	return out
}

// handleListTransactions returns the valid transactions in the range in
// their wire shape.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseRange(r.URL.Query(), s.today())
	if err != nil {
		s.fail(w, r, applog.OpParse, err)
		return
	}
	txs, err := s.deps.Dashboard.Transactions(r.Context(), rng)
	if err != nil {
		s.fail(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Body(records(txs)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	draft, err := NewRequestBodyParser(w, r).Draft()
	if err != nil {
		s.fail(w, r, applog.OpParse, err)
		return
	}

	t, err := s.deps.Creator.Create(r.Context(), draft)
	if err != nil {
		s.fail(w, r, applog.OpCreate, err)
		return
	}
	s.metrics.created.Add(1)

	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogTransactionCreated(r.Context(), t.ID, string(t.Flow), t.Category, t.Account, t.Amount.Cents)

	resp := NewJSONResponse().Status(http.StatusCreated)
	if t.ID != "" {
		resp.Header("Location", "/api/transactions/"+t.ID)
	}
	resp.Body(core.RecordOf(t)).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.deps.Getter.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(core.RecordOf(t)).Write(w)
}

// handleOptions lists the accounts and categories already in use, for
// the entry form's suggestions.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	accounts, categories, err := s.deps.Options.ListOptions(r.Context())
	if err != nil {
		s.fail(w, r, applog.OpList, err)
		return
	}
	if accounts == nil {
		accounts = []string{}
	}
	if categories == nil {
		categories = []string{}
	}
	NewJSONResponse().Body(optionsResponse{Accounts: accounts, Categories: categories}).Write(w)
}

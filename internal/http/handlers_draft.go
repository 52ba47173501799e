package http

import (
	"net/http"

	"billpay/internal/core"
	applog "billpay/internal/log"
	"billpay/internal/services"
)

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	id, c, err := s.drafts.Create(r.Context())
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Location("/drafts/" + id).
		Body(s.view(r, id, c)).
		Write(w)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := s.drafts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(s.view(r, id, c)).Write(w)
}

func (s *Server) handleCloseDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.drafts.Close(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpClose, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleAppendEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := s.drafts.Append(r.Context(), id)
	if err != nil {
		writeError(w, r, applog.OpAppend, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(s.view(r, id, c)).Write(w)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	index, err := ParseEntryIndex(r)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	upd, err := ParseFieldUpdate(r)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}

	c, err := s.drafts.UpdateField(r.Context(), id, index, upd.Field, upd.Value)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(s.view(r, id, c)).Write(w)
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	index, err := ParseEntryIndex(r)
	if err != nil {
		writeError(w, r, applog.OpRemove, err)
		return
	}

	c, err := s.drafts.Remove(r.Context(), id, index)
	if err != nil {
		writeError(w, r, applog.OpRemove, err)
		return
	}
	NewJSONResponse().Body(s.view(r, id, c)).Write(w)
}

func (s *Server) handleListOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options.List(r.Context())
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Body(optionsResponse(opts)).Write(w)
}

// view renders a draft. Payee hints are best effort: a catalog failure
// leaves them empty.
func (s *Server) view(r *http.Request, id string, c core.Collection) services.DraftView {
	opts, err := s.options.List(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Option catalog unavailable, rendering without hints",
			applog.FieldError, err.Error())
	}
	return services.NewDraftView(id, c, opts)
}

type optionJSON struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Hint  string `json:"hint,omitempty"`
}

type optionsJSON struct {
	Accounts []optionJSON `json:"accounts"`
	Payees   []optionJSON `json:"payees"`
	Repeats  []optionJSON `json:"repeats"`
}

func optionsResponse(opts core.Options) optionsJSON {
	convert := func(in []core.Option) []optionJSON {
		out := make([]optionJSON, len(in))
		for i, o := range in {
			out[i] = optionJSON{Value: o.Value, Label: o.Label, Hint: o.Hint}
		}
		return out
	}
	return optionsJSON{
		Accounts: convert(opts.Accounts),
		Payees:   convert(opts.Payees),
		Repeats:  convert(opts.Repeats),
	}
}

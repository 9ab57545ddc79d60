package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

// resource wires the CRUD routes of one table:
//
//	POST   /{single}          create
//	GET    /{plural}          list
//	GET    /{single}/{key...} get
//	PUT    /{single}/{key...} update
//	DELETE /{single}/{key...} delete
//
// T is the row type. U is the update body, T itself for tables whose
// update rewrites every column.
type resource[T, U any] struct {
	// label names the table in response messages.
	label  string
	single string
	plural string
	// keys are the path variables of the row key. Defaults to "id".
	keys []string

	create func(context.Context, *T) error
	list   func(context.Context) ([]T, error)
	get    func(context.Context, map[string]string) (*T, error)
	update func(context.Context, *U) error
	remove func(context.Context, map[string]string) error

	// setKey copies the path key into a decoded body before an update.
	setKey func(*U, map[string]string)
	// idOf returns the key of a created row.
	idOf func(*T) string
}

// byID adapts a single-key lookup to the vars-based signature.
func byID[R any](fn func(context.Context, string) (R, error)) func(context.Context, map[string]string) (R, error) {
	return func(ctx context.Context, vars map[string]string) (R, error) {
		return fn(ctx, vars["id"])
	}
}

func deleteByID(fn func(context.Context, string) error) func(context.Context, map[string]string) error {
	return func(ctx context.Context, vars map[string]string) error {
		return fn(ctx, vars["id"])
	}
}

func (res resource[T, U]) keyPath() string {
	keys := res.keys
	if len(keys) == 0 {
		keys = []string{"id"}
	}
	path := "/" + res.single
	for _, k := range keys {
		path += "/{" + k + "}"
	}
	return path
}

func (res resource[T, U]) register(s *Server, r *mux.Router) {
	r.Handle("/"+res.single, s.protect(http.HandlerFunc(res.handleCreate))).Methods(http.MethodPost)
	r.HandleFunc("/"+res.plural, res.handleList).Methods(http.MethodGet)
	r.HandleFunc(res.keyPath(), res.handleGet).Methods(http.MethodGet)
	r.Handle(res.keyPath(), s.protect(http.HandlerFunc(res.handleUpdate))).Methods(http.MethodPut)
	r.Handle(res.keyPath(), s.protect(http.HandlerFunc(res.handleDelete))).Methods(http.MethodDelete)
}

func (res resource[T, U]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var row T
	if err := decodeJSON(w, r, &row); err != nil {
		fail(w, err)
		return
	}
	if err := res.create(r.Context(), &row); err != nil {
		fail(w, err)
		return
	}
	writeMessage(w, res.label+" criado!", res.idOf(&row))
}

func (res resource[T, U]) handleList(w http.ResponseWriter, r *http.Request) {
	rows, err := res.list(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (res resource[T, U]) handleGet(w http.ResponseWriter, r *http.Request) {
	row, err := res.get(r.Context(), mux.Vars(r))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (res resource[T, U]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var row U
	if err := decodeJSON(w, r, &row); err != nil {
		fail(w, err)
		return
	}
	res.setKey(&row, mux.Vars(r))
	if err := res.update(r.Context(), &row); err != nil {
		fail(w, err)
		return
	}
	writeMessage(w, res.label+" atualizado!", "")
}

func (res resource[T, U]) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := res.remove(r.Context(), mux.Vars(r)); err != nil {
		fail(w, err)
		return
	}
	writeMessage(w, res.label+" deletado!", "")
}

package notes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"example.com/notes-registry/internal/stringsx"
)

type Handlers struct {
	store Store
	log   *slog.Logger
}

// Store is the subset of NoteStore the handlers need.
// It allows unit-testing handlers without a real persister.
type Store interface {
	Get(ctx context.Context, name string) (Note, error)
	List(ctx context.Context) (Collection, error)
	Create(ctx context.Context, name, text string) (Note, error)
	Update(ctx context.Context, name, text string) error
	Delete(ctx context.Context, name string) error
}

func NewHandlers(store Store, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{store: store, log: log}
}

// Routes builds the router. mw is applied to every route, outermost first.
func (h *Handlers) Routes(mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/UploadForm.html", h.uploadForm)
	r.Post("/write", h.create)

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.list)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.update)
			r.Delete("/", h.delete)
		})
	})

	return r
}

func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Get(r.Context(), noteName(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, n.Text)
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if err := decodeBody(r, &req, func(form func(string) string) {
		req.Text = form("note")
	}); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := noteName(r)
	if err := h.store.Update(r.Context(), name, req.Text); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.log.Info("note updated", "name", name, "text", stringsx.Preview(req.Text, 40))
	writeText(w, http.StatusOK, "Note updated")
}

func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	name := noteName(r)
	if err := h.store.Delete(r.Context(), name); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.log.Info("note deleted", "name", name)
	writeText(w, http.StatusOK, "Note deleted")
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(items) == 0 {
		writeText(w, http.StatusOK, "No notes found")
		return
	}
	if err := renderList(w, items); err != nil {
		h.log.Error("render note list", "err", err)
	}
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := decodeBody(r, &req, func(form func(string) string) {
		req.Name = form("note_name")
		req.Text = form("note")
	}); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.store.Create(r.Context(), req.Name, req.Text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.log.Info("note created", "name", n.Name, "text", stringsx.Preview(n.Text, 40))
	writeText(w, http.StatusCreated, "Note created")
}

func (h *Handlers) uploadForm(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, []byte(uploadFormHTML))
}

// writeError maps domain errors to statuses. Storage failures are logged with
// their cause but never echoed to the client.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeText(w, http.StatusNotFound, "Note not found")
	case errors.Is(err, ErrAlreadyExists):
		writeText(w, http.StatusBadRequest, "Note already exists")
	case errors.Is(err, ErrInvalidInput):
		writeText(w, http.StatusBadRequest, "Missing required fields")
	default:
		h.log.Error("note store failure",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err)
		writeText(w, http.StatusInternalServerError, "Internal server error")
	}
}

// noteName returns the decoded {name} segment. chi routes on RawPath when the
// request has one, so only then is the parameter still escaped.
func noteName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return raw
	}
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// decodeBody fills dst from a JSON body, or calls fromForm with a lookup over
// urlencoded and multipart fields. An empty JSON body leaves dst untouched.
func decodeBody(r *http.Request, dst any, fromForm func(form func(string) string)) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		err := json.NewDecoder(r.Body).Decode(dst)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	fromForm(r.PostFormValue)
	return nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

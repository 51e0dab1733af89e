package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/renderers/text"
	"github.com/goliatone/go-formsession/pkg/schema"
	"github.com/goliatone/go-formsession/pkg/session"
)

// Query parameters the page reads after a browser form redirect.
const (
	noticeParam = "notice"
	errorParam  = "error"
)

var pageErrors = map[string]string{
	"unknown_form_type": "Unknown form type.",
	"unknown_field":     "Unknown field.",
	"not_found":         "That entry no longer exists.",
	"no_active_form":    "Select a form first.",
	"bad_request":       "The request could not be processed.",
	"too_large":         "The submission is too large.",
}

// Handler serves the page and JSON API for every browser session.
type Handler struct {
	registry *schema.Registry
	opts     Options
	base     string
	store    *sessionStore
	mux      *http.ServeMux
}

type schemasResponse struct {
	Data []schema.FormSchema `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type selectFormRequest struct {
	FormType string `json:"formType"`
}

type setFieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type submitRequest struct {
	Values map[string]string `json:"values"`
}

// NewHandler builds a handler meant to be served at the root path.
func NewHandler(registry *schema.Registry, fns ...OptionFn) (*Handler, error) {
	return HandlerWithOptions(registry, "", NewOptions(fns...))
}

// HandlerWithOptions builds a handler whose page links and redirects point
// under basePath. Callers are expected to pass an Options value produced by
// NewOptions so defaults apply.
func HandlerWithOptions(registry *schema.Registry, basePath string, opts Options) (*Handler, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	opts = NewOptions(func(o *Options) { *o = opts })

	engineOpts := opts.EngineOptions
	if formType := strings.TrimSpace(opts.DefaultFormType); formType != "" {
		if !registry.Has(formType) {
			return nil, fmt.Errorf("httpapi: default form type: %w: %q", session.ErrUnknownFormType, formType)
		}
		engineOpts = append([]session.Option{session.WithFormType(formType)}, engineOpts...)
	}
	if opts.Renderers == nil {
		opts.Renderers = render.NewRegistry(text.New())
	}

	h := &Handler{
		registry: registry,
		opts:     opts,
		base:     normaliseBase(basePath),
		store:    newSessionStore(registry, engineOpts, opts.MaxSessions, opts.SessionTTL, opts.Now),
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.page)
	h.mux.HandleFunc("GET /api/schemas", h.listSchemas)
	h.mux.HandleFunc("GET /api/session", h.getSession)
	h.mux.HandleFunc("POST /api/session/form", h.selectForm)
	h.mux.HandleFunc("POST /api/session/fields", h.setField)
	h.mux.HandleFunc("POST /api/session/submit", h.submit)
	h.mux.HandleFunc("POST /api/entries/{pos}/recall", h.recall)
	h.mux.HandleFunc("DELETE /api/entries/{pos}", h.deleteEntry)
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return
		}
	}
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	}
	if err := applyMethodOverride(r, h.opts.MaxBodyBytes); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.mux.ServeHTTP(w, r)
}

// Sessions reports how many browser sessions are live.
func (h *Handler) Sessions() int {
	return h.store.len()
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	renderer, err := h.opts.Renderers.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		h.writeError(w, r, StatusError{Code: http.StatusNotAcceptable, Err: err})
		return
	}

	var snapshot session.Snapshot
	if err := h.withSession(w, r, false, func(engine *session.Engine) error {
		snapshot = engine.Snapshot()
		return nil
	}); err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := renderer.Render(r.Context(), snapshot, render.RenderOptions{
		FormTypes: render.FormTypeOptions(h.registry),
		Notice:    pageNotice(r.URL.Query()),
		Action:    h.base,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(out)
}

func (h *Handler) listSchemas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, schemasResponse{Data: h.registry.Schemas()})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false, func(engine *session.Engine) (any, error) {
		return engine.Snapshot(), nil
	})
}

func (h *Handler) selectForm(w http.ResponseWriter, r *http.Request) {
	var req selectFormRequest
	if isFormRequest(r) {
		req.FormType = r.PostForm.Get("formType")
	} else if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, true, func(engine *session.Engine) (any, error) {
		return engine.SelectFormType(req.FormType)
	})
}

func (h *Handler) setField(w http.ResponseWriter, r *http.Request) {
	var req setFieldRequest
	if isFormRequest(r) {
		req.Name = r.PostForm.Get("name")
		req.Value = r.PostForm.Get("value")
	} else if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, true, func(engine *session.Engine) (any, error) {
		return engine.SetFieldValue(req.Name, req.Value)
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	browser := isFormRequest(r)
	var req submitRequest
	if !browser {
		if err := decodeJSON(r, &req, true); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	var result session.SubmitResult
	err := h.withSession(w, r, true, func(engine *session.Engine) error {
		form, ok := engine.ActiveSchema()
		if !ok {
			return session.ErrNoActiveForm
		}
		values := req.Values
		if browser {
			values = formValues(form, r.PostForm)
		}
		if err := applyValues(engine, form, values); err != nil {
			return err
		}
		res, err := engine.Submit()
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if browser {
		query := url.Values{}
		if result.Succeeded() {
			query.Set(noticeParam, "submitted")
		}
		h.redirect(w, r, query)
		return
	}
	status := http.StatusOK
	if !result.Succeeded() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, status, result)
}

func (h *Handler) recall(w http.ResponseWriter, r *http.Request) {
	pos, err := positionParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, true, func(engine *session.Engine) (any, error) {
		return engine.RecallAt(pos)
	})
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	pos, err := positionParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, r, true, func(engine *session.Engine) (any, error) {
		return engine.RemoveAt(pos)
	})
}

// respond runs fn against the caller's engine and answers with its result, or
// with a redirect for browser form posts.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, mutate bool, fn func(*session.Engine) (any, error)) {
	var payload any
	err := h.withSession(w, r, mutate, func(engine *session.Engine) error {
		result, err := fn(engine)
		payload = result
		return err
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if isFormRequest(r) {
		h.redirect(w, r, nil)
		return
	}
	writeJSON(w, r, http.StatusOK, payload)
}

// withSession locks the caller's engine for the duration of fn. Only mutating
// calls create a session and set its cookie; reads from callers without a live
// session run against a throwaway engine in the initial state.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, mutate bool, fn func(*session.Engine) error) error {
	var id string
	if cookie, err := r.Cookie(h.opts.CookieName); err == nil {
		id = cookie.Value
	}

	entry, ok := h.store.get(id)
	if !ok {
		if !mutate {
			engine, err := h.store.transient()
			if err != nil {
				return err
			}
			return fn(engine)
		}
		id = h.opts.NewSessionID()
		created, err := h.store.create(id)
		if err != nil {
			return err
		}
		entry = created
		http.SetCookie(w, &http.Cookie{
			Name:     h.opts.CookieName,
			Value:    id,
			Path:     h.cookiePath(),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.engine)
}

func (h *Handler) cookiePath() string {
	if h.base == "" {
		return "/"
	}
	return h.base
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, query url.Values) {
	target := h.base + "/"
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if isFormRequest(r) && status < http.StatusInternalServerError {
		h.redirect(w, r, url.Values{errorParam: []string{errorCode(err, status)}})
		return
	}
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return badRequest(errors.New("httpapi: request body is required"))
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return badRequest(fmt.Errorf("httpapi: decode body: %w", err))
	}
	return nil
}

// applyMethodOverride lets browser forms tunnel DELETE through POST.
func applyMethodOverride(r *http.Request, maxMemory int64) error {
	if r.Method != http.MethodPost || !isFormRequest(r) {
		return nil
	}
	if err := parseForm(r, maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return badRequest(err)
	}
	if override := strings.ToUpper(strings.TrimSpace(r.PostForm.Get(render.MethodOverrideField))); override == http.MethodDelete {
		r.Method = override
	}
	return nil
}

// parseForm keeps multipart parts in memory up to the body limit.
func parseForm(r *http.Request, maxMemory int64) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// formValues picks the active schema's fields out of a browser submission.
// Fields the browser did not send stay untouched.
func formValues(form schema.FormSchema, posted url.Values) map[string]string {
	values := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		if _, ok := posted[field.Name]; ok {
			values[field.Name] = posted.Get(field.Name)
		}
	}
	return values
}

// applyValues sets values in schema order after checking every name, so an
// unknown name leaves the session untouched.
func applyValues(engine *session.Engine, form schema.FormSchema, values map[string]string) error {
	for name := range values {
		if !form.HasField(name) {
			return fmt.Errorf("%w: %q in form %q", session.ErrUnknownField, name, form.Type)
		}
	}
	for _, field := range form.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		if _, err := engine.SetFieldValue(field.Name, value); err != nil {
			return err
		}
	}
	return nil
}

func positionParam(r *http.Request) (int, error) {
	raw := r.PathValue("pos")
	pos, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(fmt.Errorf("httpapi: invalid entry position %q", raw))
	}
	return pos, nil
}

func pageNotice(query url.Values) string {
	if code := query.Get(errorParam); code != "" {
		if message, ok := pageErrors[code]; ok {
			return message
		}
		return pageErrors["bad_request"]
	}
	if query.Get(noticeParam) == "submitted" {
		return session.SubmittedMessage
	}
	return ""
}

func errorCode(err error, status int) string {
	switch {
	case errors.Is(err, session.ErrUnknownFormType):
		return "unknown_form_type"
	case errors.Is(err, session.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, session.ErrIndexOutOfRange), status == http.StatusNotFound:
		return "not_found"
	case errors.Is(err, session.ErrNoActiveForm):
		return "no_active_form"
	case status == http.StatusRequestEntityTooLarge:
		return "too_large"
	default:
		return "bad_request"
	}
}

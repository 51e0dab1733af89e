package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/session"
)

const (
	DefaultCookieName = "formsession_id"
	// DefaultMaxBodyBytes caps request bodies; form payloads are small.
	DefaultMaxBodyBytes = 64 << 10
	// DefaultMaxSessions caps how many browser sessions are kept at once.
	DefaultMaxSessions = 10000
	// DefaultSessionTTL drops sessions nobody has touched for this long.
	DefaultSessionTTL = 30 * time.Minute
)

// GuardFunc can reject a request before it reaches a session. Returning an
// HTTPError picks the status code; anything else answers 403.
type GuardFunc func(r *http.Request) error

type Options struct {
	CookieName      string
	DefaultFormType string
	MaxBodyBytes    int64
	Renderers       *render.Registry
	EngineOptions   []session.Option
	Guard           GuardFunc
	NewSessionID    func() string
	MaxSessions     int
	SessionTTL      time.Duration
	Now             func() time.Time
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		CookieName:   DefaultCookieName,
		MaxBodyBytes: DefaultMaxBodyBytes,
		NewSessionID: uuid.NewString,
		MaxSessions:  DefaultMaxSessions,
		SessionTTL:   DefaultSessionTTL,
		Now:          time.Now,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.NewSessionID == nil {
		opts.NewSessionID = uuid.NewString
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.EngineOptions != nil {
		opts.EngineOptions = append([]session.Option{}, opts.EngineOptions...)
	}
	return opts
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

// WithDefaultFormType selects a form type for every new session.
func WithDefaultFormType(formType string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultFormType = formType
	}
}

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}

// WithRenderers sets the registry the page route negotiates renderers from.
func WithRenderers(renderers *render.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderers = renderers
	}
}

// WithEngineOptions appends options applied to every new engine.
func WithEngineOptions(options ...session.Option) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EngineOptions = append(o.EngineOptions, options...)
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithSessionIDGenerator overrides how session cookie values are generated.
func WithSessionIDGenerator(fn func() string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.NewSessionID = fn
	}
}

// WithSessionLimits caps the number of live sessions and how long an unused
// session survives. A ttl of zero keeps sessions until they are evicted by
// the cap.
func WithSessionLimits(maxSessions int, ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxSessions = maxSessions
		o.SessionTTL = ttl
	}
}

// WithClock overrides the clock used to expire idle sessions.
func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Now = now
	}
}

package lookup

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrUnknownField is returned by a Source for a resource or field it does
	// not serve; the handler answers 404.
	ErrUnknownField = errors.New("lookup: unknown resource field")
	errNoSource     = errors.New("lookup: no source configured")
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type optionsResponse struct {
	Data []Result `json:"data"`
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		resource, field, ok := target(r.URL.Path)
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		if opts.Source == nil {
			http.Error(w, errNoSource.Error(), http.StatusInternalServerError)
			return
		}

		query := r.URL.Query()
		scope := map[string]string{}
		for key, values := range query {
			if key == opts.SearchParam || key == opts.LimitParam || len(values) == 0 {
				continue
			}
			scope[key] = strings.TrimSpace(values[0])
		}

		list, err := opts.Source(r.Context(), resource, field, scope)
		if err != nil {
			code := http.StatusBadGateway
			var httpErr HTTPError
			switch {
			case errors.Is(err, ErrUnknownField):
				code = http.StatusNotFound
			case errors.As(err, &httpErr) && httpErr != nil:
				code = httpErr.StatusCode()
			}
			http.Error(w, err.Error(), code)
			return
		}

		results := toResults(Search(list, query.Get(opts.SearchParam), parseInt(query.Get(opts.LimitParam)), opts))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(optionsResponse{Data: results})
	})
}

// target reads {resource}/{field} from the last two path segments.
func target(path string) (string, string, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 {
		return "", "", false
	}
	resource := strings.TrimSpace(segments[len(segments)-2])
	field := strings.TrimSpace(segments[len(segments)-1])
	if resource == "" || field == "" {
		return "", "", false
	}
	return resource, field, true
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
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

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

// Package docs assembles the OpenAPI description of the HTTP API from route
// declarations and serves it to Swagger UI.
package docs

import (
	"encoding/json"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-openapi/spec"
	"github.com/swaggo/swag"
)

// BearerAuth names the security definition used by authenticated operations.
const BearerAuth = "BearerAuth"

var pathParamPattern = regexp.MustCompile(`\{([^}:]+)(?::[^}]*)?\}`)

// Option customises a single operation.
type Option func(*spec.Operation)

// Summary sets the operation summary.
func Summary(summary string) Option {
	return func(op *spec.Operation) { op.WithSummary(summary) }
}

// Description sets the long-form description.
func Description(description string) Option {
	return func(op *spec.Operation) { op.WithDescription(description) }
}

// Query documents an integer query parameter.
func Query(name, description string) Option {
	return func(op *spec.Operation) {
		op.AddParam(spec.QueryParam(name).Typed("integer", "int32").WithDescription(description))
	}
}

// Body documents a JSON request body.
func Body(description string) Option {
	return func(op *spec.Operation) {
		op.AddParam(spec.BodyParam("body", new(spec.Schema).Typed("object", "")).WithDescription(description).AsRequired())
	}
}

// Returns documents a response status.
func Returns(code int, description string) Option {
	return func(op *spec.Operation) {
		op.RespondsWith(code, spec.NewResponse().WithDescription(description))
	}
}

// Secured marks the operation as requiring a bearer credential.
func Secured() Option {
	return func(op *spec.Operation) { op.SecuredWith(BearerAuth) }
}

// Document is a swagger 2.0 description that grows as routes are declared.
// It satisfies swag.Swagger.
type Document struct {
	mu      sync.RWMutex
	swagger *spec.Swagger
}

// New returns an empty document.
func New(title, version, description string) *Document {
	return &Document{swagger: &spec.Swagger{SwaggerProps: spec.SwaggerProps{
		Swagger:  "2.0",
		BasePath: "/",
		Consumes: []string{"application/json"},
		Produces: []string{"application/json"},
		Info: &spec.Info{InfoProps: spec.InfoProps{
			Title:       title,
			Version:     version,
			Description: description,
		}},
		Paths: &spec.Paths{Paths: map[string]spec.PathItem{}},
		SecurityDefinitions: spec.SecurityDefinitions{
			BearerAuth: spec.APIKeyAuth("Authorization", "header"),
		},
	}}}
}

// Add records an operation for method and the chi route pattern. Path
// parameters are derived from the pattern.
func (d *Document) Add(method, pattern, tag string, opts ...Option) {
	if d == nil {
		return
	}
	path := SwaggerPath(pattern)
	op := spec.NewOperation(operationID(method, path))
	if tag != "" {
		op.WithTags(tag)
	}
	for _, name := range PathParams(pattern) {
		param := spec.PathParam(name)
		if strings.HasSuffix(strings.ToLower(name), "id") {
			param.Typed("integer", "int64")
		} else {
			param.Typed("string", "")
		}
		op.AddParam(param)
	}
	for _, opt := range opts {
		opt(op)
	}
	if !hasSuccess(op) {
		op.RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("OK"))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	item := d.swagger.Paths.Paths[path]
	switch strings.ToUpper(method) {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodPatch:
		item.Patch = op
	case http.MethodDelete:
		item.Delete = op
	case http.MethodHead:
		item.Head = op
	case http.MethodOptions:
		item.Options = op
	default:
		return
	}
	d.swagger.Paths.Paths[path] = item
}

// Operation returns the recorded operation, if any.
func (d *Document) Operation(method, pattern string) (*spec.Operation, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	item, ok := d.swagger.Paths.Paths[SwaggerPath(pattern)]
	if !ok {
		return nil, false
	}
	var op *spec.Operation
	switch strings.ToUpper(method) {
	case http.MethodGet:
		op = item.Get
	case http.MethodPost:
		op = item.Post
	case http.MethodPut:
		op = item.Put
	case http.MethodPatch:
		op = item.Patch
	case http.MethodDelete:
		op = item.Delete
	case http.MethodHead:
		op = item.Head
	case http.MethodOptions:
		op = item.Options
	}
	return op, op != nil
}

// Paths lists the documented paths in lexical order.
func (d *Document) Paths() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	paths := make([]string, 0, len(d.swagger.Paths.Paths))
	for p := range d.swagger.Paths.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ReadDoc renders the document as JSON.
func (d *Document) ReadDoc() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	raw, err := json.Marshal(d.swagger)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// ServeHTTP writes the document for /swagger/doc.json.
func (d *Document) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(d.ReadDoc()))
}

// Register publishes the document under swag's default instance name.
// swag panics on duplicate registration, so call it once per process.
func Register(d *Document) {
	swag.Register(swag.Name, d)
}

// PathParams returns the parameter names of a chi route pattern.
func PathParams(pattern string) []string {
	matches := pathParamPattern.FindAllStringSubmatch(pattern, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// SwaggerPath strips chi regexp constraints from a route pattern.
func SwaggerPath(pattern string) string {
	return pathParamPattern.ReplaceAllString(pattern, "{$1}")
}

func hasSuccess(op *spec.Operation) bool {
	if op.Responses == nil {
		return false
	}
	for code := range op.Responses.StatusCodeResponses {
		if code >= 200 && code < 300 {
			return true
		}
	}
	return false
}

func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, seg := range strings.Split(path, "/") {
		seg = strings.Trim(seg, "{}")
		if seg == "" {
			continue
		}
		b.WriteByte('_')
		b.WriteString(strings.ReplaceAll(seg, "-", "_"))
	}
	return b.String()
}

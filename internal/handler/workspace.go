// Package handler provides the gin REST API and websocket feed over a workspace of entities.
package handler

import (
	"errors"
	"net/http"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/CageChen/fsentity/internal/config"
	"github.com/CageChen/fsentity/internal/entity"
	"github.com/CageChen/fsentity/internal/events"
	mfs "github.com/CageChen/fsentity/internal/fs"
	"github.com/CageChen/fsentity/internal/logger"
	"github.com/CageChen/fsentity/internal/preview"
)

// errInvalidPath is returned for request paths that try to leave the workspace.
var errInvalidPath = errors.New("invalid path")

// errUnencodable is returned for loaded values that have no JSON form.
var errUnencodable = errors.New("value cannot be represented as JSON")

// Workspace owns the filesystem the API operates on. Entity operations
// are serialized through mu.
type Workspace struct {
	mu   sync.Mutex
	cfg  *config.Config
	fsys mfs.FileSystem
	log  logger.Logger
	bus  *events.Bus

	markdown *preview.Markdown
	source   *preview.Source
}

// NewWorkspace creates a workspace. A nil bus is replaced with an empty one.
func NewWorkspace(cfg *config.Config, fsys mfs.FileSystem, log logger.Logger, bus *events.Bus) *Workspace {
	if log == nil {
		log = logger.Nop()
	}
	if bus == nil {
		bus = events.NewBus()
	}
	return &Workspace{
		cfg:      cfg,
		fsys:     fsys,
		log:      log,
		bus:      bus,
		markdown: preview.NewMarkdown(),
		source:   preview.NewSource(),
	}
}

// Bus returns the change bus entity writes are published to.
func (w *Workspace) Bus() *events.Bus {
	return w.bus
}

// resolve turns a request path into a workspace path. The workspace root is ".".
func resolve(p string) (string, error) {
	p = strings.Trim(p, "/")
	// Security: prevent path traversal. Names such as "a..b" are fine.
	if slices.Contains(strings.Split(p, "/"), "..") {
		return "", errInvalidPath
	}
	if p == "" {
		return ".", nil
	}
	return p, nil
}

// format names the codec an entity at p is persisted with.
func (w *Workspace) format(p string) string {
	switch {
	case w.cfg.IsSourceFile(p):
		return "source"
	case w.cfg.IsMarkdownFile(p):
		return "markdown"
	default:
		return "serial"
	}
}

func (w *Workspace) options() []entity.Option {
	return []entity.Option{
		entity.WithFileSystem(w.fsys),
		entity.WithFileMode(w.cfg.FilePerm()),
		entity.WithLogger(w.log.WithComponent("entity")),
	}
}

// file builds the entity for p, using the source codec for source extensions.
func (w *Workspace) file(p string) *entity.File {
	if w.cfg.IsSourceFile(p) {
		return entity.NewSource(p, w.options()...)
	}
	return entity.New(p, w.options()...)
}

func (w *Workspace) dir(p string) (*entity.Dir, error) {
	return entity.NewDir(p, w.options()...)
}

func (w *Workspace) excluded(p string) bool {
	return w.cfg.IsExcluded(path.Base(p))
}

// FlagsResponse reports the lifecycle flags of an entity
type FlagsResponse struct {
	IsNew     bool `json:"isNew"`
	WasNew    bool `json:"wasNew"`
	IsChanged bool `json:"isChanged"`
	IsDeleted bool `json:"isDeleted"`
}

type flagged interface {
	IsNew() bool
	WasNew() bool
	IsChanged() bool
	IsDeleted() bool
}

func flagsOf(e flagged) FlagsResponse {
	return FlagsResponse{
		IsNew:     e.IsNew(),
		WasNew:    e.WasNew(),
		IsChanged: e.IsChanged(),
		IsDeleted: e.IsDeleted(),
	}
}

var kindStatus = map[entity.Kind]int{
	entity.EmptyPath:                http.StatusBadRequest,
	entity.NotExists:                http.StatusNotFound,
	entity.IsDirectory:              http.StatusBadRequest,
	entity.NotDirectory:             http.StatusBadRequest,
	entity.NotReadable:              http.StatusForbidden,
	entity.NotWritable:              http.StatusForbidden,
	entity.NotDeletable:             http.StatusForbidden,
	entity.DeserializeError:         http.StatusUnprocessableEntity,
	entity.MakeError:                http.StatusConflict,
	entity.NotSupportedForDirectory: http.StatusMethodNotAllowed,
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	if s, ok := kindStatus[entity.KindOf(err)]; ok {
		return s
	}
	switch {
	case errors.Is(err, errInvalidPath), errors.Is(err, mfs.ErrReadOnly), errors.Is(err, os.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, errUnencodable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// fail writes the error body and logs it against the request id.
func (w *Workspace) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	if k := entity.KindOf(err); k != 0 {
		body["kind"] = k.String()
	}
	if status >= http.StatusInternalServerError {
		w.log.Error("Request %s failed: %v", c.GetString(requestIDKey), err)
	} else {
		w.log.Debug("Request %s rejected: %v", c.GetString(requestIDKey), err)
	}
	c.AbortWithStatusJSON(status, body)
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CageChen/fsentity/internal/events"
	"github.com/CageChen/fsentity/internal/preview"
	"github.com/CageChen/fsentity/internal/value"
)

// EntityResponse represents the response for a loaded entity
type EntityResponse struct {
	Path   string          `json:"path"`
	Format string          `json:"format"`
	Value  json.RawMessage `json:"value"`
	Flags  FlagsResponse   `json:"flags"`
}

// PutRequest carries the value to persist
type PutRequest struct {
	Value json.RawMessage `json:"value"`
}

// FileHandler handles entity API requests
type FileHandler struct {
	ws *Workspace
}

// NewFileHandler creates a new entity handler
func NewFileHandler(ws *Workspace) *FileHandler {
	return &FileHandler{ws: ws}
}

// GetEntity loads an entity and returns its decoded value
func (h *FileHandler) GetEntity(c *gin.Context) {
	p, err := resolve(c.Param("path"))
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	h.ws.mu.Lock()
	defer h.ws.mu.Unlock()

	f := h.ws.file(p)
	if err := f.Load(); err != nil {
		h.ws.fail(c, err)
		return
	}
	data, err := encodeValue(f.Get())
	if err != nil {
		h.ws.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, EntityResponse{
		Path:   p,
		Format: h.ws.format(p),
		Value:  data,
		Flags:  flagsOf(f),
	})
}

// encodeValue renders v ahead of the response so that values JSON cannot
// carry, such as NAN and INF, fail the request instead of its body.
func encodeValue(v value.Value) (json.RawMessage, error) {
	data, err := value.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnencodable, err)
	}
	return data, nil
}

// PutEntity replaces an entity's value and saves it, creating the file if needed
func (h *FileHandler) PutEntity(c *gin.Context) {
	p, err := resolve(c.Param("path"))
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	var req PutRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Value) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "value is required",
		})
		return
	}
	v, err := value.Decode(req.Value)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "invalid value: " + err.Error(),
		})
		return
	}

	h.ws.mu.Lock()
	defer h.ws.mu.Unlock()

	f := h.ws.file(p)
	created := f.IsNew()
	if err := f.Set(v).Save(); err != nil {
		h.ws.fail(c, err)
		return
	}

	eventType := events.EventWrite
	if created {
		eventType = events.EventCreate
	}
	h.ws.bus.Publish(events.Event{Type: eventType, Path: p})

	c.JSON(http.StatusOK, gin.H{
		"path":  p,
		"flags": flagsOf(f),
	})
}

// DeleteEntity removes an entity's file
func (h *FileHandler) DeleteEntity(c *gin.Context) {
	p, err := resolve(c.Param("path"))
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	h.ws.mu.Lock()
	defer h.ws.mu.Unlock()

	f := h.ws.file(p)
	if err := f.Delete(); err != nil {
		h.ws.fail(c, err)
		return
	}
	h.ws.bus.Publish(events.Event{Type: events.EventRemove, Path: p})

	c.JSON(http.StatusOK, gin.H{
		"path":  p,
		"flags": flagsOf(f),
	})
}

// GetRaw returns the bytes an entity is persisted as
func (h *FileHandler) GetRaw(c *gin.Context) {
	p, err := resolve(c.Param("path"))
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	h.ws.mu.Lock()
	content, err := h.ws.file(p).Raw()
	h.ws.mu.Unlock()
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	contentType := "text/plain; charset=utf-8"
	switch h.ws.format(p) {
	case "markdown":
		contentType = "text/markdown; charset=utf-8"
	case "serial":
		contentType = "application/json"
	}
	c.Data(http.StatusOK, contentType, content)
}

// GetPreview renders Markdown to HTML and highlights everything else
func (h *FileHandler) GetPreview(c *gin.Context) {
	p, err := resolve(c.Param("path"))
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	h.ws.mu.Lock()
	content, err := h.ws.file(p).Raw()
	h.ws.mu.Unlock()
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	var result *preview.Result
	if h.ws.cfg.IsMarkdownFile(p) {
		result, err = h.ws.markdown.Render(content)
	} else {
		result, err = h.ws.source.Render(p, content)
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "failed to render preview: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":    p,
		"format":  h.ws.format(p),
		"preview": result,
	})
}

// GetEval evaluates an entity's bytes as a PHP return-file
func (h *FileHandler) GetEval(c *gin.Context) {
	p, err := resolve(c.Param("path"))
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	h.ws.mu.Lock()
	v, err := h.ws.file(p).Eval()
	h.ws.mu.Unlock()
	if err != nil {
		h.ws.fail(c, err)
		return
	}
	data, err := encodeValue(v)
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":  p,
		"value": data,
	})
}

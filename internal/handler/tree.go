package handler

import (
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CageChen/fsentity/internal/config"
	"github.com/CageChen/fsentity/internal/entity"
	"github.com/CageChen/fsentity/internal/events"
)

// TreeNode represents a file or directory in the tree
type TreeNode struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Path     string      `json:"path,omitempty"`
	Format   string      `json:"format,omitempty"`
	Link     bool        `json:"link,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// MakeDirRequest carries an optional octal mode such as "0750"
type MakeDirRequest struct {
	Mode string `json:"mode"`
}

// TreeHandler handles directory API requests
type TreeHandler struct {
	ws *Workspace
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(ws *Workspace) *TreeHandler {
	return &TreeHandler{ws: ws}
}

// ListDir lists a directory, optionally recursively
func (h *TreeHandler) ListDir(c *gin.Context) {
	p, err := resolve(c.Param("path"))
	if err != nil {
		h.ws.fail(c, err)
		return
	}
	order, ok := entity.ParseOrder(c.Query("order"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "order must be asc, desc or none",
		})
		return
	}
	recursive := c.Query("recursive") == "true"

	h.ws.mu.Lock()
	defer h.ws.mu.Unlock()

	d, err := h.ws.dir(p)
	if err != nil {
		h.ws.fail(c, err)
		return
	}
	var list *entity.List
	if recursive {
		list, err = d.ListRecursive()
	} else {
		list, err = d.List(order)
	}
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	entries := list.Paths()
	if recursive {
		order = entity.OrderAscending
	}
	c.JSON(http.StatusOK, gin.H{
		"path":      p,
		"order":     order.String(),
		"recursive": recursive,
		"entries":   entries,
	})
}

// MakeDir creates a directory
func (h *TreeHandler) MakeDir(c *gin.Context) {
	p, err := resolve(c.Param("path"))
	if err != nil {
		h.ws.fail(c, err)
		return
	}

	var req MakeDirRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid request",
			})
			return
		}
	}
	mode := h.ws.cfg.DirPerm()
	if req.Mode != "" {
		m, err := config.ParseMode(req.Mode)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		mode = m
	}

	h.ws.mu.Lock()
	defer h.ws.mu.Unlock()

	d, err := h.ws.dir(p)
	if err != nil {
		h.ws.fail(c, err)
		return
	}
	if err := d.Make(mode); err != nil {
		h.ws.fail(c, err)
		return
	}
	h.ws.bus.Publish(events.Event{Type: events.EventMkdir, Path: p})

	c.JSON(http.StatusCreated, gin.H{
		"path":  p,
		"mode":  mode.String(),
		"flags": flagsOf(d),
	})
}

// GetTree returns the nested directory tree of the workspace
func (h *TreeHandler) GetTree(c *gin.Context) {
	h.ws.mu.Lock()
	defer h.ws.mu.Unlock()

	d, err := h.ws.dir(".")
	if err != nil {
		h.ws.fail(c, err)
		return
	}
	tree, err := h.buildTree(d, ".")
	if err != nil {
		h.ws.fail(c, err)
		return
	}
	tree.Name = "."
	c.JSON(http.StatusOK, tree)
}

func (h *TreeHandler) buildTree(d *entity.Dir, relativePath string) (*TreeNode, error) {
	list, err := d.List(entity.OrderNone)
	if err != nil {
		return nil, err
	}

	node := &TreeNode{
		Name: path.Base(relativePath),
		Type: "directory",
		Path: relativePath,
	}

	for _, f := range list.All() {
		name := path.Base(f.Path())
		if name == "." || name == ".." {
			continue
		}
		// Skip globally excluded paths
		if h.ws.excluded(name) {
			continue
		}
		childPath := path.Join(relativePath, name)

		isDir, err := f.IsDir()
		if err != nil {
			// Vanished or dangling entries are left out
			continue
		}
		isLink, _ := f.IsLink()

		if isDir && !isLink {
			sub, err := h.ws.dir(childPath)
			if err != nil {
				continue
			}
			child, err := h.buildTree(sub, childPath)
			if err != nil {
				continue
			}
			node.Children = append(node.Children, child)
			continue
		}

		child := &TreeNode{
			Name: name,
			Type: "file",
			Path: childPath,
			Link: isLink,
		}
		if isDir {
			child.Type = "directory"
		} else {
			child.Format = h.ws.format(name)
		}
		node.Children = append(node.Children, child)
	}

	// Sort: directories first, then files, both alphabetically
	sort.Slice(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if (a.Type == "directory") != (b.Type == "directory") {
			return a.Type == "directory"
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return node, nil
}

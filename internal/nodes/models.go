package nodes

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StepLen is the width of one materialized path segment.
const StepLen = 4

const pathAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Node is a vertex of a widget tree. The tree is stored as a materialized
// path: a root owns one StepLen segment and every descendant extends its
// parent's path by one segment.
type Node struct {
	bun.BaseModel `bun:"table:widgy_nodes,alias:wn"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Path        string         `bun:"path,notnull,unique" json:"path"`
	Depth       int            `bun:"depth,notnull" json:"depth"`
	ContentType string         `bun:"content_type,notnull" json:"content_type"`
	Content     map[string]any `bun:"content,type:jsonb" json:"content,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// IsRoot reports whether the node has no ancestors.
func (n *Node) IsRoot() bool {
	return n != nil && len(n.Path) <= StepLen
}

// RootPath returns the path of the node's topmost ancestor.
func (n *Node) RootPath() string {
	if n == nil || len(n.Path) < StepLen {
		return ""
	}
	return n.Path[:StepLen]
}

// ParentPath returns the path of the direct parent, or "" for roots.
func (n *Node) ParentPath() string {
	if n == nil || len(n.Path) <= StepLen {
		return ""
	}
	return n.Path[:len(n.Path)-StepLen]
}

// IsDescendantOf reports whether n sits below ancestor in the same tree.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	if n == nil || ancestor == nil {
		return false
	}
	return len(n.Path) > len(ancestor.Path) && strings.HasPrefix(n.Path, ancestor.Path)
}

// encodeStep renders position as a zero padded base36 path segment.
func encodeStep(position int) (string, error) {
	limit := 1
	for range StepLen {
		limit *= len(pathAlphabet)
	}
	if position < 0 || position >= limit {
		return "", ErrPathExhausted
	}
	buf := make([]byte, StepLen)
	for i := StepLen - 1; i >= 0; i-- {
		buf[i] = pathAlphabet[position%len(pathAlphabet)]
		position /= len(pathAlphabet)
	}
	return string(buf), nil
}

func decodeStep(step string) (int, error) {
	if len(step) != StepLen {
		return 0, ErrInvalidPath
	}
	value := 0
	for _, r := range strings.ToUpper(step) {
		idx := strings.IndexRune(pathAlphabet, r)
		if idx < 0 {
			return 0, ErrInvalidPath
		}
		value = value*len(pathAlphabet) + idx
	}
	return value, nil
}

// nextPath returns the path following last under prefix. An empty last
// yields the first slot.
func nextPath(prefix, last string) (string, error) {
	position := 1
	if last != "" {
		current, err := decodeStep(last[len(last)-StepLen:])
		if err != nil {
			return "", err
		}
		position = current + 1
	}
	step, err := encodeStep(position)
	if err != nil {
		return "", err
	}
	return prefix + step, nil
}

func cloneNode(src *Node) *Node {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.Content != nil {
		cloned.Content = make(map[string]any, len(src.Content))
		for k, v := range src.Content {
			cloned.Content[k] = v
		}
	}
	return &cloned
}

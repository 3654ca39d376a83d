package permission

import (
	"strings"

	autherror "github.com/taskloop/task-service/internal/errors"
)

// Capability names a single permission. Wildcard grants every capability.
type Capability string

const (
	Wildcard Capability = "*"

	TaskRead   Capability = "task.read"
	TaskCreate Capability = "task.create"
	TaskUpdate Capability = "task.update"
	TaskDelete Capability = "task.delete"

	CommentDelete Capability = "comment.delete"
	AdminPanel    Capability = "admin.panel"
)

type Set []Capability

func (s Set) Allows(c Capability) bool {
	for _, have := range s {
		if have == Wildcard || have == c {
			return true
		}
	}

	return false
}

// Check authorizes c against s. An empty set is a provisioning defect and is
// reported as ErrPermissionsNotConfigured, distinct from a deliberate denial.
func Check(s Set, c Capability) error {
	if len(s) == 0 {
		return autherror.ErrPermissionsNotConfigured
	}
	if !s.Allows(c) {
		return autherror.ErrPermissionDenied
	}

	return nil
}

func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = string(c)
	}

	return out
}

// Join renders the set in its persisted form, a comma-joined string.
func Join(s Set) string {
	return strings.Join(s.Strings(), ",")
}

// Parse is the inverse of Join. Empty input yields an empty set.
func Parse(raw string) Set {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make(Set, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, Capability(p))
		}
	}

	return out
}

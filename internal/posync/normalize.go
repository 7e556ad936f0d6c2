package posync

import (
	"strings"

	"github.com/farxc/vendas_sync/internal/store"
)

// NormalizeStatus maps the free-text table state typed at the point of sale
// to a Status. Matching is by substring so "Ocupada", "ABERTO" and
// "mesa livre" all resolve.
func NormalizeStatus(raw string) store.Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return store.StatusUnknown
	case strings.Contains(s, "abert"), strings.Contains(s, "ocup"):
		return store.StatusOpen
	case strings.Contains(s, "fech"), strings.Contains(s, "liv"):
		return store.StatusClosed
	default:
		return store.StatusUnknown
	}
}

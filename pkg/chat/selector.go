package chat

import (
	"fmt"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
)

// SelectActive resolves which session identifier should be active for
// the current interaction cycle.
//
// The one-shot new-session transition fires when a brand-new session was
// just persisted (justCreated is set) while the selector still points at
// the sentinel: the new identifier becomes active. Otherwise the
// previously active identifier stays active as long as it still exists;
// the sentinel domain.NewSession is always considered present.
//
// A previously active identifier that is neither the sentinel nor
// present in available yields domain.ErrStaleSession; callers are
// expected to fall back to the sentinel rather than halt.
func SelectActive(available []string, previous, justCreated string) (string, error) {
	if justCreated != "" && previous == domain.NewSession {
		return justCreated, nil
	}

	if previous == domain.NewSession {
		return previous, nil
	}
	for _, id := range available {
		if id == previous {
			return previous, nil
		}
	}

	return "", fmt.Errorf("%w: %s", domain.ErrStaleSession, previous)
}

package offcloud

import (
	"fmt"
	"strings"
)

// JobKind selects which submission pipeline handles a source locator.
type JobKind string

const (
	// JobInstant converts a link through a proxy and answers immediately.
	JobInstant JobKind = "instant"
	// JobCloud downloads the source into the service's own storage.
	JobCloud JobKind = "cloud"
	// JobRemote pushes the source to an external storage account.
	JobRemote JobKind = "remote"
)

// ParseJobKind validates a user-supplied kind string.
func ParseJobKind(raw string) (JobKind, error) {
	switch JobKind(strings.ToLower(strings.TrimSpace(raw))) {
	case JobInstant:
		return JobInstant, nil
	case JobCloud:
		return JobCloud, nil
	case JobRemote:
		return JobRemote, nil
	}
	return "", fmt.Errorf("unknown job kind %q (want instant, cloud or remote)", raw)
}

// JobHandle identifies a submitted job for later status checks and content
// listing. Handles are plain values and safe to copy.
type JobHandle struct {
	RequestID string
	Kind      JobKind
}

func (h JobHandle) String() string {
	if h.Kind == "" {
		return h.RequestID
	}
	return string(h.Kind) + "/" + h.RequestID
}

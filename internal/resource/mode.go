package resource

import "strings"

// Mode fixes which operations are legal on a handle. It is chosen at
// construction and never changes afterwards.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
	ModeAppend
	ModeURL
)

var modeNames = map[string]Mode{
	"read":   ModeRead,
	"write":  ModeWrite,
	"append": ModeAppend,
	"url":    ModeURL,
}

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeAppend:
		return "append"
	case ModeURL:
		return "url"
	default:
		return "unknown"
	}
}

// ParseMode resolves a mode name, ignoring case and surrounding
// whitespace.
func ParseMode(name string) (Mode, error) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errf(KindInvalidArgument, "parse mode", name,
			"unknown mode, valid modes are read, write, append, url")
	}
	return m, nil
}

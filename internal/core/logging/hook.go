package logging

import (
	"github.com/rs/zerolog"
)

// ContextHook copies the Scope of an event's context onto the event as
// command, base_dir and storage_name.
type ContextHook struct{}

func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	s := ScopeFrom(ctx)
	for _, f := range [...]struct{ key, val string }{
		{"command", s.Command},
		{"base_dir", s.BaseDir},
		{"storage_name", s.StorageName},
	} {
		if f.val != "" {
			e.Str(f.key, f.val)
		}
	}
}

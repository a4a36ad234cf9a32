package plugin

import (
	"context"
	"log/slog"
	"sync"

	"braces.dev/errtrace"

	"github.com/wireproto/headerline/internal/errorutil"
	"github.com/wireproto/headerline/internal/log"
	"github.com/wireproto/headerline/internal/util"
)

// Registry holds named plugins and drives their lifecycle.
// All methods are safe for concurrent use.
type Registry struct {
	entries sync.Map // map[string]*entry
	logger  *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger falls back to the
// package default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = log.Def
	}
	return &Registry{logger: logger}
}

// Register adds the plugin under its name.
// A nil plugin or a blank name is reported with [ErrInvalidArgument];
// a name already in use with [ErrAlreadyRegistered].
func (reg *Registry) Register(p Plugin) error {
	if p == nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("nil plugin"))
	}
	name := p.Name()
	if util.TrimSP(name) == "" {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("blank plugin name %q", name))
	}
	if _, loaded := reg.entries.LoadOrStore(name, newEntry(p)); loaded {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrAlreadyRegistered, "%q", name))
	}
	reg.logger.Debug("plugin registered", "plugin", name)
	return nil
}

// Instance returns the plugin registered under name.
// The second result reports whether such a plugin exists.
func (reg *Registry) Instance(name string) (Plugin, bool) {
	v, ok := reg.entries.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*entry).plugin, true //nolint:forcetypeassert
}

// Deregister removes the plugin registered under name.
// Removing an unknown name is a no-op.
func (reg *Registry) Deregister(name string) { reg.entries.Delete(name) }

// Start activates the named plugin: its Init hook runs as part of the
// registered→active transition. Starting an unknown plugin fails with
// [ErrNotRegistered]; starting an already active or closed one fails with
// the state machine's transition error.
func (reg *Registry) Start(ctx context.Context, name string) error {
	v, ok := reg.entries.Load(name)
	if !ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrNotRegistered, "%q", name))
	}
	if err := v.(*entry).fsm.FireCtx(ctx, triggerStart); err != nil { //nolint:forcetypeassert
		return errtrace.Wrap(err)
	}
	reg.logger.Debug("plugin started", "plugin", name)
	return nil
}

// Close deactivates the named plugin: its Close hook runs as part of the
// active→closed transition.
func (reg *Registry) Close(name string) error {
	v, ok := reg.entries.Load(name)
	if !ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrNotRegistered, "%q", name))
	}
	if err := v.(*entry).fsm.Fire(triggerClose); err != nil { //nolint:forcetypeassert
		return errtrace.Wrap(err)
	}
	reg.logger.Debug("plugin closed", "plugin", name)
	return nil
}

// Active reports whether the named plugin is registered and active.
func (reg *Registry) Active(name string) bool {
	v, ok := reg.entries.Load(name)
	if !ok {
		return false
	}
	return v.(*entry).fsm.MustState() == stateActive //nolint:forcetypeassert
}

// CloseAll closes every active plugin, continuing past failures.
// The first error is returned.
func (reg *Registry) CloseAll() error {
	var firstErr error
	reg.entries.Range(func(key, value any) bool {
		e := value.(*entry) //nolint:forcetypeassert
		if e.fsm.MustState() != stateActive {
			return true
		}
		if err := e.fsm.Fire(triggerClose); err != nil {
			reg.logger.Error("close plugin", "plugin", key, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
		return true
	})
	return errtrace.Wrap(firstErr)
}

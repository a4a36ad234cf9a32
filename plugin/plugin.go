// Package plugin provides a named plugin registry with instance lookup and a
// per-plugin lifecycle state machine.
package plugin

//go:generate go tool errtrace -w .
//go:generate go tool mockgen -destination ../internal/testutil/pluginmock/plugin.go -package pluginmock github.com/wireproto/headerline/plugin Plugin

import (
	"context"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"

	"github.com/wireproto/headerline/internal/errorutil"
)

// Error is a string type that implements the error interface.
type Error = errorutil.Error

// Common errors.
const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument

	ErrAlreadyRegistered Error = "plugin already registered"
	ErrNotRegistered     Error = "plugin not registered"
)

// Plugin is a unit of optional functionality registered under a unique name.
type Plugin interface {
	Name() string
	Init(ctx context.Context) error
	Close() error
}

// Lifecycle states and triggers.
const (
	stateRegistered = "registered"
	stateActive     = "active"
	stateClosed     = "closed"

	triggerStart = "start"
	triggerClose = "close"
)

type entry struct {
	plugin Plugin
	fsm    *stateless.StateMachine
}

func newEntry(p Plugin) *entry {
	fsm := stateless.NewStateMachine(stateRegistered)
	fsm.Configure(stateRegistered).
		Permit(triggerStart, stateActive)
	fsm.Configure(stateActive).
		OnEntry(func(ctx context.Context, _ ...any) error {
			return errtrace.Wrap(p.Init(ctx))
		}).
		Permit(triggerClose, stateClosed)
	fsm.Configure(stateClosed).
		OnEntry(func(_ context.Context, _ ...any) error {
			return errtrace.Wrap(p.Close())
		})
	return &entry{plugin: p, fsm: fsm}
}

package plugin_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/wireproto/headerline/internal/log"
	"github.com/wireproto/headerline/internal/testutil/pluginmock"
	"github.com/wireproto/headerline/plugin"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newNamedMock(ctrl *gomock.Controller, name string) *pluginmock.MockPlugin {
	p := pluginmock.NewMockPlugin(ctrl)
	p.EXPECT().Name().Return(name).AnyTimes()
	return p
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("nil plugin", func(t *testing.T) {
		t.Parallel()

		reg := plugin.NewRegistry(log.Noop)
		got := reg.Register(nil)
		if diff := cmp.Diff(got, error(plugin.ErrInvalidArgument), cmpopts.EquateErrors()); diff != "" {
			t.Errorf("reg.Register(nil) error = %v, want %v\ndiff (-got +want):\n%v",
				got, plugin.ErrInvalidArgument, diff,
			)
		}
	})

	t.Run("blank name", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		reg := plugin.NewRegistry(log.Noop)
		got := reg.Register(newNamedMock(ctrl, "  "))
		if diff := cmp.Diff(got, error(plugin.ErrInvalidArgument), cmpopts.EquateErrors()); diff != "" {
			t.Errorf("reg.Register(p) error = %v, want %v\ndiff (-got +want):\n%v",
				got, plugin.ErrInvalidArgument, diff,
			)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		reg := plugin.NewRegistry(log.Noop)
		if err := reg.Register(newNamedMock(ctrl, "cache")); err != nil {
			t.Fatalf("reg.Register(p) error = %v, want nil", err)
		}
		got := reg.Register(newNamedMock(ctrl, "cache"))
		if diff := cmp.Diff(got, error(plugin.ErrAlreadyRegistered), cmpopts.EquateErrors()); diff != "" {
			t.Errorf("second reg.Register(p) error = %v, want %v\ndiff (-got +want):\n%v",
				got, plugin.ErrAlreadyRegistered, diff,
			)
		}
	})
}

func TestRegistry_Instance(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := plugin.NewRegistry(log.Noop)
	p := newNamedMock(ctrl, "cache")
	if err := reg.Register(p); err != nil {
		t.Fatalf("reg.Register(p) error = %v, want nil", err)
	}

	if got, ok := reg.Instance("cache"); !ok || got != p {
		t.Errorf(`reg.Instance("cache") = (%v, %v), want (p, true)`, got, ok)
	}
	if got, ok := reg.Instance("unknown"); ok || got != nil {
		t.Errorf(`reg.Instance("unknown") = (%v, %v), want (nil, false)`, got, ok)
	}

	reg.Deregister("cache")
	if _, ok := reg.Instance("cache"); ok {
		t.Error(`reg.Instance("cache") after Deregister: ok = true, want false`)
	}
	// Deregistering an unknown name is a no-op.
	reg.Deregister("unknown")
}

func TestRegistry_Lifecycle(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := plugin.NewRegistry(log.Noop)

	p := newNamedMock(ctrl, "cache")
	p.EXPECT().Init(gomock.Any()).Return(nil).Times(1)
	p.EXPECT().Close().Return(nil).Times(1)
	if err := reg.Register(p); err != nil {
		t.Fatalf("reg.Register(p) error = %v, want nil", err)
	}

	if reg.Active("cache") {
		t.Error(`reg.Active("cache") before Start = true, want false`)
	}
	if err := reg.Start(context.Background(), "cache"); err != nil {
		t.Fatalf(`reg.Start(ctx, "cache") error = %v, want nil`, err)
	}
	if !reg.Active("cache") {
		t.Error(`reg.Active("cache") after Start = false, want true`)
	}

	// A second start is an invalid transition.
	if err := reg.Start(context.Background(), "cache"); err == nil {
		t.Error(`second reg.Start(ctx, "cache") error = nil, want transition error`)
	}

	if err := reg.Close("cache"); err != nil {
		t.Fatalf(`reg.Close("cache") error = %v, want nil`, err)
	}
	if reg.Active("cache") {
		t.Error(`reg.Active("cache") after Close = true, want false`)
	}
}

func TestRegistry_StartUnknown(t *testing.T) {
	t.Parallel()

	reg := plugin.NewRegistry(log.Noop)
	got := reg.Start(context.Background(), "unknown")
	if diff := cmp.Diff(got, error(plugin.ErrNotRegistered), cmpopts.EquateErrors()); diff != "" {
		t.Errorf("reg.Start(ctx, \"unknown\") error = %v, want %v\ndiff (-got +want):\n%v",
			got, plugin.ErrNotRegistered, diff,
		)
	}
}

func TestRegistry_InitErrorSurfaced(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := plugin.NewRegistry(log.Noop)

	p := newNamedMock(ctrl, "broken")
	p.EXPECT().Init(gomock.Any()).Return(plugin.Error("init failed")).Times(1)
	if err := reg.Register(p); err != nil {
		t.Fatalf("reg.Register(p) error = %v, want nil", err)
	}

	if err := reg.Start(context.Background(), "broken"); err == nil {
		t.Fatal(`reg.Start(ctx, "broken") error = nil, want init error`)
	}
}

func TestRegistry_CloseAll(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	reg := plugin.NewRegistry(log.Noop)

	active := newNamedMock(ctrl, "active")
	active.EXPECT().Init(gomock.Any()).Return(nil).Times(1)
	active.EXPECT().Close().Return(nil).Times(1)

	idle := newNamedMock(ctrl, "idle")

	for _, p := range []plugin.Plugin{active, idle} {
		if err := reg.Register(p); err != nil {
			t.Fatalf("reg.Register(p) error = %v, want nil", err)
		}
	}
	if err := reg.Start(context.Background(), "active"); err != nil {
		t.Fatalf(`reg.Start(ctx, "active") error = %v, want nil`, err)
	}

	if err := reg.CloseAll(); err != nil {
		t.Fatalf("reg.CloseAll() error = %v, want nil", err)
	}
	if reg.Active("active") {
		t.Error(`reg.Active("active") after CloseAll = true, want false`)
	}
}

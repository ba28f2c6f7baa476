package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	verrors "github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/host"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// Engine renders virtual node trees into a host tree.
type Engine struct {
	adapter  *countingAdapter
	registry *Registry
	patcher  *Patcher
	norm     *vdom.Normalizer
	opts     Options
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer

	stack   []*Instance
	pending []hook
	errs    []error
}

// hook is a lifecycle callback waiting for the end of the pass.
type hook struct {
	inst   *Instance
	update bool
}

// New creates an engine that mutates the host tree through adapter.
func New(adapter host.Adapter, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.applyDefaults()

	counted := &countingAdapter{Adapter: adapter, metrics: o.Metrics}
	return &Engine{
		adapter:  counted,
		registry: o.Registry,
		patcher:  newPatcher(counted, adapter),
		norm:     vdom.NewNormalizer(),
		opts:     o,
		logger:   o.Logger,
		metrics:  o.Metrics,
		tracer:   o.Tracer,
	}
}

// Registry returns the engine's identity registry.
func (e *Engine) Registry() *Registry { return e.registry }

// InstanceAt returns the outermost instance bound to a host node.
func (e *Engine) InstanceAt(h host.Node) *Instance {
	return e.registry.InstanceOf(h)
}

// InvalidateAll drops the render cache of every live instance. The next
// pass calls Render on all of them.
func (e *Engine) InvalidateAll() {
	for _, inst := range e.registry.Instances() {
		inst.Invalidate()
	}
}

// RenderToTree renders v into mount. The first call on a mount point
// replaces whatever it contains; later calls reconcile against the previous
// pass. Lifecycle hooks run after the host tree is updated, children before
// parents.
//
// A panic escaping the pass replaces the content of mount with a diagnostic
// view. Errors are logged; they are returned unless Options.Production is
// set.
func (e *Engine) RenderToTree(ctx context.Context, v *vdom.VNode, mount host.Node) (err error) {
	_, span := e.tracer.Start(ctx, "vcore.render_to_tree",
		trace.WithAttributes(attribute.String("vcore.root", v.Name())),
	)
	defer span.End()

	start := e.begin()
	defer func() {
		if r := recover(); r != nil {
			err = e.abort(mount, r)
		}
		e.finish(span, "render", start, err)
	}()

	root, ok := e.registry.Root(mount)
	if !ok {
		root = &Root{Mount: mount}
		e.clear(mount)
		e.registry.SetRoot(mount, root)
	}

	e.reconcileChildren(mount, vdom.Flatten([]*vdom.VNode{v}))
	root.VNode = v
	root.Passes++

	e.flush()
	return e.passError()
}

// Update re-renders one instance in place after its state changed. The
// render cache is bypassed; props and slot content are those of the last
// render.
func (e *Engine) Update(ctx context.Context, inst *Instance) (err error) {
	if inst == nil || inst.disposed || inst.host == nil || inst.vnode == nil {
		return verrors.New("E106").WithSubject(inst)
	}

	_, span := e.tracer.Start(ctx, "vcore.update",
		trace.WithAttributes(
			attribute.String("vcore.instance", inst.ID),
			attribute.String("vcore.component", inst.name()),
		),
	)
	defer span.End()

	start := e.begin()
	defer func() {
		if r := recover(); r != nil {
			if mount := e.mountOf(inst.host); mount != nil {
				err = e.abort(mount, r)
			} else {
				err = e.aborted(r)
			}
		}
		e.finish(span, "update", start, err)
	}()

	inst.Invalidate()
	_, out := e.renderComponent(inst.vnode, inst)
	e.applyOutput(inst, out)

	e.flush()
	return e.passError()
}

// Unmount tears down every instance under mount and empties it.
func (e *Engine) Unmount(mount host.Node) {
	e.clear(mount)
	e.registry.DropRoot(mount)
}

// begin resets per-pass state.
func (e *Engine) begin() time.Time {
	e.registry.beginPass()
	e.norm.Reset()
	e.stack = e.stack[:0]
	e.pending = e.pending[:0]
	e.errs = nil
	e.adapter.count = 0
	return time.Now()
}

func (e *Engine) finish(span trace.Span, pass string, start time.Time, err error) {
	d := time.Since(start)
	e.metrics.pass(d)
	span.SetAttributes(
		attribute.Int("vcore.mutations", e.adapter.count),
		attribute.Int("vcore.errors", len(e.errs)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	e.logger.Debug("pass complete",
		"pass", pass,
		"mutations", e.adapter.count,
		"errors", len(e.errs),
		"duration", d,
	)
}

// passError joins the contained errors of the pass.
func (e *Engine) passError() error {
	if len(e.errs) == 0 || e.opts.Production {
		return nil
	}
	return errors.Join(e.errs...)
}

// abort replaces the content of mount with a diagnostic view after a panic
// escaped the pass.
func (e *Engine) abort(mount host.Node, r any) error {
	err := e.aborted(r)

	func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("cleanup after aborted pass failed", "panic", fmt.Sprint(r))
			}
		}()
		e.clear(mount)
	}()
	e.registry.DropRoot(mount)

	msg := "Rendering failed"
	if !e.opts.Production {
		msg = err.Error()
	}
	diag := e.adapter.CreateElement(ErrorTag)
	e.adapter.SetAttribute(diag, "role", "alert")
	e.adapter.AppendChild(diag, e.adapter.CreateText(msg))
	e.adapter.AppendChild(mount, diag)

	if e.opts.Production {
		return nil
	}
	return err
}

// aborted logs a panic that escaped a pass and converts it to an E104 error.
func (e *Engine) aborted(r any) error {
	err := verrors.New("E104").WithDetail(fmt.Sprint(r))
	e.logger.Error("render pass aborted", "error", err, "stack", string(debug.Stack()))
	e.stack = e.stack[:0]
	e.pending = e.pending[:0]
	if e.opts.Production {
		return nil
	}
	return err
}

// mountOf returns the mount point whose tree contains h.
func (e *Engine) mountOf(h host.Node) host.Node {
	for n := h; n != nil; n = e.adapter.ParentOf(n) {
		if _, ok := e.registry.Root(n); ok {
			return n
		}
	}
	return nil
}

// clear tears down and removes every child of n.
func (e *Engine) clear(n host.Node) {
	for _, c := range e.adapter.ChildrenOf(n) {
		e.teardown(c)
		e.adapter.RemoveChild(n, c)
	}
}

// teardown releases h and its subtree depth first: instances are disposed,
// listeners released and registry records dropped.
func (e *Engine) teardown(h host.Node) {
	for _, c := range e.adapter.ChildrenOf(h) {
		e.teardown(c)
	}
	if inst := e.registry.InstanceOf(h); inst != nil {
		e.dispose(inst)
	}
	e.patcher.Release(h)
	e.registry.Forget(h)
}

// dispose runs OnUnmount for inst and its inner chain, innermost first.
func (e *Engine) dispose(inst *Instance) {
	if inst == nil || inst.disposed {
		return
	}
	e.dispose(inst.inner)
	inst.disposed = true
	inst.cache = nil
	if inst.mounted {
		e.metrics.instanceDisposed()
	}
	if u, ok := inst.Component.(vdom.Unmounter); ok && inst.initialized {
		e.safeHook(inst, "OnUnmount", u.OnUnmount)
	}
}

// queue schedules OnMount (update false) or OnUpdate for the end of the pass.
func (e *Engine) queue(inst *Instance, update bool) {
	e.pending = append(e.pending, hook{inst: inst, update: update})
}

// flush runs the queued lifecycle hooks.
func (e *Engine) flush() {
	pending := e.pending
	e.pending = nil
	for _, h := range pending {
		inst := h.inst
		if inst.disposed {
			continue
		}
		if !inst.mounted {
			inst.mounted = true
			e.metrics.instanceMounted()
			if m, ok := inst.Component.(vdom.Mounter); ok {
				e.safeHook(inst, "OnMount", m.OnMount)
			}
			continue
		}
		if h.update {
			if u, ok := inst.Component.(vdom.Updater); ok {
				e.safeHook(inst, "OnUpdate", u.OnUpdate)
			}
		}
	}
}

// safeHook runs a lifecycle hook, containing panics.
func (e *Engine) safeHook(inst *Instance, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := verrors.New("E103").
				WithDetail(fmt.Sprintf("%s: %v", name, r)).
				WithSubject(inst)
			e.renderFailed(inst, err)
		}
	}()
	fn()
}

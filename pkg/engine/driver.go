package engine

import (
	"fmt"
	"runtime/debug"

	verrors "github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// Reserved host tags.
const (
	// ErrorTag marks a placeholder for a failed render or a diagnostic view.
	ErrorTag = "vc-error"
	// FragmentTag wraps a component output holding more than one node.
	FragmentTag = "vc-fragment"
	// RawTag holds trusted raw markup in its innerHTML property.
	RawTag = "vc-raw"
	// MarkerTag stands in for a slot outlet that was never projected.
	MarkerTag = "vc-slot"

	fragmentStyle = "display: contents"
)

// renderComponent renders v for inst, creating the instance when inst is
// nil. The returned output has slots projected. A failing render yields an
// error placeholder instead.
func (e *Engine) renderComponent(v *vdom.VNode, inst *Instance) (*Instance, *vdom.VNode) {
	slots := vdom.SplitBySlot(v.Children)
	if slots.Empty() && inst != nil && !inst.slots.Empty() {
		slots = inst.slots
	}

	props := v.Props
	if props == nil {
		props = vdom.Props{}
	}
	if inst == nil {
		inst = newInstance(v.Def, e.current())
	}
	inst.Props = props
	inst.vnode = v
	inst.slots = slots

	raw, err := e.renderRaw(inst)
	if err != nil {
		e.renderFailed(inst, err)
		return inst, e.errorView(inst, err)
	}

	out := vdom.Project(raw, slots)
	if out == nil {
		out = vdom.Empty()
	}
	if inst.host != nil {
		e.registry.Note(inst.host, out)
	}
	return inst, out
}

// renderRaw runs Initialize and Render, or serves the cached output when the
// props fingerprint is unchanged. Panics become E103 errors.
func (e *Engine) renderRaw(inst *Instance) (raw *vdom.VNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			inst.cache = nil
			e.logger.Debug("render panic", "instance", inst.ID, "stack", string(debug.Stack()))
			err = verrors.New("E103").
				WithDetail(fmt.Sprint(r)).
				WithSubject(inst)
		}
	}()

	e.push(inst)
	defer e.pop()

	if ps, ok := inst.Component.(vdom.PropsSetter); ok {
		ps.SetProps(inst.Props)
	}
	if !inst.initialized {
		if in, ok := inst.Component.(vdom.Initializer); ok {
			in.Initialize()
		}
		inst.initialized = true
	}

	fp, cacheable := fingerprint(inst.Props)
	cacheable = cacheable && !e.opts.DisableRenderCache
	if cacheable && inst.cache != nil && inst.cache.fingerprint == fp {
		e.metrics.render("cache_hit")
		return inst.cache.raw, nil
	}

	raw = inst.Component.Render()
	e.metrics.render("render")
	if cacheable {
		inst.cache = &renderCacheEntry{fingerprint: fp, raw: raw}
	} else {
		inst.cache = nil
	}
	return raw, nil
}

func (e *Engine) renderFailed(inst *Instance, err error) {
	e.logger.Error("component render failed",
		"instance", inst.ID,
		"component", inst.name(),
		"error", err,
	)
	e.metrics.renderError()
	e.errs = append(e.errs, err)
}

// errorView is the placeholder shown in place of a component whose render
// failed.
func (e *Engine) errorView(inst *Instance, err error) *vdom.VNode {
	msg := "Component failed to render"
	if !e.opts.Production {
		msg = err.Error()
		if ve, ok := err.(*verrors.Error); ok {
			msg = ve.Message + ": " + ve.Detail
		}
	}
	return vdom.El(ErrorTag,
		vdom.Data("component", inst.name()),
		vdom.Data("instance", inst.ID),
		vdom.Role("alert"),
		vdom.Text(msg),
	)
}

// push makes inst the instance being rendered.
func (e *Engine) push(inst *Instance) {
	e.stack = append(e.stack, inst)
}

func (e *Engine) pop() {
	e.stack = e.stack[:len(e.stack)-1]
}

// current returns the instance being rendered, or nil.
func (e *Engine) current() *Instance {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

// within runs fn with inst as the instance being rendered, so instances
// created while materializing its output get it as parent.
func within[T any](e *Engine, inst *Instance, fn func() T) T {
	e.push(inst)
	defer e.pop()
	return fn()
}

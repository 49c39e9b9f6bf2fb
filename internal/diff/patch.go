package diff

import (
	"github.com/livefir/neon/internal/dom"
)

// nullValue is the literal an unset binding renders as.
const nullValue = "null"

// patch brings live's own state in line with fresh. Children are left to the
// caller.
func (r *reconciler) patch(live, fresh *dom.Node) {
	switch {
	case live.IsText():
		if live.Data != fresh.Data {
			r.notify(Change{Op: "text", Type: ChangeTextOnly, Old: live.Data, New: fresh.Data}, live, "")
			live.Data = fresh.Data
		}
		return
	case !live.IsElement():
		return
	case fresh.IsCustom():
		// Custom elements own their attributes and state.
		return
	}

	r.syncAttributes(live, fresh)

	switch fresh.Data {
	case "input":
		r.syncInput(live, fresh)
	case "option":
		r.syncFlag(live, "selected", &live.Selected, fresh.Selected)
	case "textarea":
		r.syncTextarea(live, fresh)
	}
}

func attrSuffix(ns, key string) string {
	if ns != "" {
		return "/@" + ns + ":" + key
	}
	return "/@" + key
}

func (r *reconciler) attrChange(live *dom.Node, ns, key, before, after string) {
	r.notify(Change{Op: "attr", Type: ChangeAttribute, Old: before, New: after}, live, attrSuffix(ns, key))
}

// syncAttributes applies every attribute of fresh to live and drops the ones
// fresh lacks. "null" and "undefined" mean absent.
func (r *reconciler) syncAttributes(live, fresh *dom.Node) {
	for _, a := range fresh.Attr {
		cur, ok := live.GetAttrNS(a.Namespace, a.Key)

		if a.Namespace == "" && (a.Val == nullValue || a.Val == "undefined") {
			if ok {
				live.RemoveAttr(a.Key)
				r.attrChange(live, "", a.Key, cur, "")
			}
			continue
		}

		if !ok || cur != a.Val {
			live.SetAttrNS(a.Namespace, a.Key, a.Val)
			r.attrChange(live, a.Namespace, a.Key, cur, a.Val)
		}
	}

	for i := len(live.Attr) - 1; i >= 0; i-- {
		a := live.Attr[i]
		if !fresh.HasAttrNS(a.Namespace, a.Key) {
			live.RemoveAttrNS(a.Namespace, a.Key)
			r.attrChange(live, a.Namespace, a.Key, a.Val, "")
		}
	}
}

// syncFlag updates a boolean property and its attribute together.
func (r *reconciler) syncFlag(live *dom.Node, name string, field *bool, want bool) {
	if *field == want {
		return
	}
	*field = want
	live.SetBoolAttr(name, want)

	before, after := "false", "true"
	if !want {
		before, after = after, before
	}
	r.notify(Change{Op: name, Type: ChangeAttribute, Old: before, New: after}, live, "")
}

func (r *reconciler) syncInput(live, fresh *dom.Node) {
	r.syncFlag(live, "checked", &live.Checked, fresh.Checked)
	r.syncFlag(live, "disabled", &live.Disabled, fresh.Disabled)
	r.syncFlag(live, "indeterminate", &live.Indeterminate, fresh.Indeterminate)

	if live.InputType() == "file" {
		return
	}

	want := fresh.Value
	if want != live.Value {
		r.notify(Change{Op: "value", Type: ChangeAttribute, Old: live.Value, New: want}, live, "")
		live.SetAttr("value", want)
		live.Value = want
	}

	switch {
	case want == nullValue:
		live.Value = ""
		live.RemoveAttr("value")
	case fresh.HasAttr("value"):
		// Sliders and spinners only move when the value is assigned again.
		if t := live.InputType(); t == "range" || t == "number" {
			live.Value = want
		}
	}
}

func (r *reconciler) syncTextarea(live, fresh *dom.Node) {
	want, ok := fresh.GetAttr("value")
	if !ok {
		want = fresh.Value
	}

	if want != live.Value {
		r.notify(Change{Op: "value", Type: ChangeAttribute, Old: live.Value, New: want}, live, "")
		live.Value = want
	}

	first := live.FirstChild()
	if first == nil || !first.IsText() || first.Data == want {
		return
	}
	// Some environments report the placeholder as the text; an empty update
	// would wipe it.
	if placeholder, _ := live.GetAttr("placeholder"); want == "" && first.Data == placeholder {
		return
	}
	r.notify(Change{Op: "text", Type: ChangeTextOnly, Old: first.Data, New: want}, first, "")
	first.Data = want
}

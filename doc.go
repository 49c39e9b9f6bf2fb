// Package neon renders directive templates into a live node tree and keeps
// that tree in sync with reactive data.
//
// A template is compiled once into a render program. Mounting it wraps the
// data so that every write to a key the template depends on re-renders the
// template and reconciles the fresh markup into the live tree, keeping
// existing nodes wherever they can be matched:
//
//	c, err := neon.Mount(`<p>Hello {name}</p><input (bind)="name">`, map[string]any{"name": "Al"})
//	if err != nil {
//		return err
//	}
//	c.Set("name", "Bo") // re-renders synchronously
//
// Handler serves a mounted component over a websocket for previews.
package neon

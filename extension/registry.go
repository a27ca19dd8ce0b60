// registry.go holds the process-wide list of extensions. Extensions add
// themselves from init(), so the list is complete before main runs.

package extension

import "sync"

var reg struct {
	sync.RWMutex
	exts []Extension
}

// Register adds e to the registry. A second extension with the same name
// panics, as database/sql.Register does for drivers.
func Register(e Extension) {
	reg.Lock()
	defer reg.Unlock()

	for _, x := range reg.exts {
		if x.Name() == e.Name() {
			panic("extension already registered: " + e.Name())
		}
	}
	reg.exts = append(reg.exts, e)
}

// All returns every extension in registration order.
func All() []Extension {
	reg.RLock()
	defer reg.RUnlock()
	return append([]Extension(nil), reg.exts...)
}

// Having returns the registered extensions that implement T, in
// registration order.
//
//	for _, h := range extension.Having[extension.EventHandler]() { ... }
func Having[T any]() []T {
	var out []T
	for _, e := range All() {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

package archive

import (
	"fmt"
	"net/url"
)

// Order selects the delegation direction of a Loader.
type Order int

const (
	// ChildFirst consults this loader's archive before its parent.
	ChildFirst Order = iota
	// ParentFirst delegates outward before consulting the archive.
	ParentFirst
)

// Loader serves named resources from an Archive with optional
// delegation to a parent loader. The parent is shared, never owned:
// closing or discarding a child has no effect on its parent. A Loader
// holds no per-lookup state, so concurrent lookups need no locking.
type Loader struct {
	archive *Archive
	parent  *Loader
	order   Order
}

// NewLoader creates a Loader over a with the given delegation order.
// parent may be nil.
func NewLoader(a *Archive, parent *Loader, order Order) *Loader {
	return &Loader{archive: a, parent: parent, order: order}
}

// Archive returns the loader's own archive.
func (l *Loader) Archive() *Archive { return l.archive }

// Load returns the bytes of the named resource, honoring the
// delegation order. A miss in the whole chain is found=false, nil
// error.
func (l *Loader) Load(name string) ([]byte, bool, error) {
	if l.order == ParentFirst && l.parent != nil {
		data, found, err := l.parent.Load(name)
		if err != nil || found {
			return data, found, err
		}
	}

	data, found, err := l.archive.ReadEntry(name)
	if err != nil || found {
		return data, found, err
	}

	if l.order == ChildFirst && l.parent != nil {
		return l.parent.Load(name)
	}
	return nil, false, nil
}

// FindResource returns a stable URL addressing the named entry.
// Only file-backed archives can expose one; a memory-backed archive
// never yields a URL even when the entry exists (its content is still
// reachable through Load). Delegation order applies as for Load.
func (l *Loader) FindResource(name string) (*url.URL, bool, error) {
	if l.order == ParentFirst && l.parent != nil {
		u, found, err := l.parent.FindResource(name)
		if err != nil || found {
			return u, found, err
		}
	}

	u, found, err := l.findLocal(name)
	if err != nil || found {
		return u, found, err
	}

	if l.order == ChildFirst && l.parent != nil {
		return l.parent.FindResource(name)
	}
	return nil, false, nil
}

// FindResources returns all URLs for the named entry. Each loader
// serves a single archive, so the result holds at most one element.
func (l *Loader) FindResources(name string) ([]*url.URL, error) {
	u, found, err := l.FindResource(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return []*url.URL{u}, nil
}

func (l *Loader) findLocal(name string) (*url.URL, bool, error) {
	if l.archive.Path() == "" {
		return nil, false, nil
	}
	e, found, err := l.archive.StatEntry(name)
	if err != nil || !found {
		return nil, false, err
	}
	u := &url.URL{
		Scheme: "husk",
		Opaque: fmt.Sprintf("%s!/%s", l.archive.Path(), e.Name),
	}
	return u, true, nil
}

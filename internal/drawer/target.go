package drawer

import (
	"errors"
	"fmt"

	"tagdraw/internal/annotation"
	"tagdraw/internal/render"
)

// Errors returned by per-annotation operations besides those of package
// annotation.
var (
	// ErrNotRendered is returned for records installed by SetDataList that
	// have not been drawn with Redraw or RedrawAll yet.
	ErrNotRendered = errors.New("annotation has no drawables")
	// ErrNilTarget is returned for a Pair with a nil record or set.
	ErrNilTarget = errors.New("nil annotation target")
	// ErrStaleTarget is returned for a Pair whose record was removed or
	// replaced, or whose set no longer belongs to it.
	ErrStaleTarget = errors.New("stale annotation target")
)

// Target selects one annotation, either by store index or by the
// (record, drawable set) pair handed to a callback.
type Target struct {
	index int
	data  *annotation.Annotation
	set   *render.DrawableSet
	pair  bool
}

// At targets the annotation at index i.
func At(i int) Target {
	return Target{index: i}
}

// Pair targets an already resolved record and drawable set.
func Pair(data *annotation.Annotation, set *render.DrawableSet) Target {
	return Target{data: data, set: set, pair: true}
}

func (t Target) String() string {
	if t.pair {
		return "pair"
	}
	return fmt.Sprintf("index %d", t.index)
}

// resolve returns the record and set for t. Rendered sets are required.
func (d *Drawer) resolve(t Target) (*annotation.Annotation, *render.DrawableSet, error) {
	a, set, err := d.lookup(t)
	if err != nil {
		return nil, nil, err
	}
	if set == nil {
		return nil, nil, fmt.Errorf("%v: %w", t, ErrNotRendered)
	}
	return a, set, nil
}

// lookup is resolve without the rendered check. A pair must still match
// what the store holds.
func (d *Drawer) lookup(t Target) (*annotation.Annotation, *render.DrawableSet, error) {
	if !t.pair {
		return d.store.At(t.index)
	}
	if t.data == nil || t.set == nil {
		return nil, nil, ErrNilTarget
	}
	i := d.store.IndexOf(t.data)
	if i < 0 {
		return nil, nil, fmt.Errorf("%v: %w: record not in store", t, ErrStaleTarget)
	}
	a, set, err := d.store.At(i)
	if err != nil {
		return nil, nil, err
	}
	if set != t.set {
		return nil, nil, fmt.Errorf("%v: %w: set does not belong to record %d", t, ErrStaleTarget, i)
	}
	return a, set, nil
}

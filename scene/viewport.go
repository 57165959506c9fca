package scene

import "github.com/gogpu/raster/gmath"

// Perspective is the shared capability of Camera and PerspectiveLight:
// a pixel-space width/height and a cached world-to-clip matrix.
type Perspective interface {
	Width() int
	Height() int
	WorldToClip() gmath.Mat4
}

// link is the non-cyclic transform-propagation mechanism shared by
// Camera and PerspectiveLight: when a linked object's transform
// changes, every listener is notified once. The updating guard
// prevents a listener's own update from re-triggering the source.
type link struct {
	listeners []func()
	updating  bool
}

func (l *link) notify() {
	if l.updating {
		return
	}
	l.updating = true
	for _, fn := range l.listeners {
		fn()
	}
	l.updating = false
}

func (l *link) subscribe(fn func()) {
	l.listeners = append(l.listeners, fn)
}

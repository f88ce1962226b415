package csri

import "sync"

type link struct {
	Renderer
	next *link
}

// Registry is a Runtime over renderers registered in order, first
// registered is the default
type Registry struct {
	mu   sync.Mutex
	head *link
	tail *link
}

// DefaultRuntime is the process wide registry backends register into
var DefaultRuntime = &Registry{}

// Register adds renderers to the default runtime
func Register(rs ...Renderer) {
	DefaultRuntime.Register(rs...)
}

// Register appends renderers to the end of the chain
func (reg *Registry) Register(rs ...Renderer) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, r := range rs {
		l := &link{Renderer: r}
		if reg.tail == nil {
			reg.head = l
		} else {
			reg.tail.next = l
		}
		reg.tail = l
	}
}

func (reg *Registry) Default() Renderer {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.head == nil {
		return nil
	}
	return reg.head
}

// Next returns the renderer after r, r must have come from reg
func (reg *Registry) Next(r Renderer) Renderer {
	l, ok := r.(*link)
	if !ok {
		return nil
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if l.next == nil {
		return nil
	}
	return l.next
}

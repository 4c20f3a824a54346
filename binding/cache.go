package binding

import (
	"reflect"
	"sync"

	"vregmap/diag"
	"vregmap/regio"
	"vregmap/regmap"
)

// shape is the generated map of one struct type. Subjects are addressable
// struct values of that type.
type shape struct {
	typ reflect.Type
	m   *regmap.SubjectComposite[reflect.Value]
	err error
}

// Cache holds the generated map of every shape it has been asked for.
// Entries are never evicted. A shape is built at most once, even when many
// goroutines request it for the first time concurrently; a failed build is
// cached too, so the same error comes back on every later request.
type Cache struct {
	opts options

	mu     sync.RWMutex
	shapes map[reflect.Type]*shape

	// build serializes shape generation. pending holds the shapes still
	// being generated so that self-referencing types terminate; done holds
	// finished shapes until the outermost build publishes them.
	build   sync.Mutex
	pending map[reflect.Type]*shape
	done    map[reflect.Type]*shape
}

// NewCache creates an empty shape cache.
func NewCache(opts ...Option) *Cache {
	return &Cache{
		opts:    newOptions(opts),
		shapes:  make(map[reflect.Type]*shape),
		pending: make(map[reflect.Type]*shape),
		done:    make(map[reflect.Type]*shape),
	}
}

var defaultCache = NewCache()

// DefaultCache returns the process-wide cache used by For, Bind, BindValue
// and InsertSubject.
func DefaultCache() *Cache {
	return defaultCache
}

// Len returns the number of cached shapes, failed ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.shapes)
}

func (c *Cache) lookup(t reflect.Type) (*shape, bool) {
	c.mu.RLock()
	sh, ok := c.shapes[t]
	c.mu.RUnlock()
	return sh, ok
}

// load returns the shape of t, generating it on first use.
func (c *Cache) load(t reflect.Type) (*shape, error) {
	if sh, ok := c.lookup(t); ok {
		return sh, sh.err
	}

	c.build.Lock()
	defer c.build.Unlock()

	// Another goroutine may have finished the build while we waited.
	if sh, ok := c.lookup(t); ok {
		return sh, sh.err
	}
	// A panicking build (a RegisterMethods that panics, say) must not leave
	// half-built shapes behind for the next request to find.
	finished := false
	defer func() {
		if !finished {
			clear(c.pending)
			clear(c.done)
		}
	}()
	sh := c.construct(t)
	finished = true

	c.mu.Lock()
	for typ, built := range c.done {
		c.shapes[typ] = built
	}
	c.mu.Unlock()
	clear(c.done)
	return sh, sh.err
}

// construct generates t and every shape reachable from it. The caller holds
// c.build. A shape that is still being generated is returned as is; its map
// is filled in before any of the maps referring to it are published.
func (c *Cache) construct(t reflect.Type) *shape {
	if sh, ok := c.lookup(t); ok {
		return sh
	}
	if sh, ok := c.done[t]; ok {
		return sh
	}
	if sh, ok := c.pending[t]; ok {
		return sh
	}

	sh := &shape{typ: t}
	c.pending[t] = sh
	m, err := c.generate(t)
	delete(c.pending, t)
	if err != nil {
		sh.err = err
	} else {
		sh.m = m
	}

	c.done[t] = sh
	return sh
}

// shapeRef resolves a shape's map at access time, which lets a shape refer to
// itself through pointer members. A shape whose build failed serves nothing.
type shapeRef struct {
	sh       *shape
	counters *diag.Counters
}

func (r shapeRef) Read(s reflect.Value, addr uint32, out []byte, flags regio.Flags) {
	if r.sh.m == nil {
		regio.FillUnmapped(out)
		r.counters.AddUnmappedRead()
		return
	}
	r.sh.m.Read(s, addr, out, flags)
}

func (r shapeRef) Write(s reflect.Value, addr uint32, in []byte, flags regio.Flags) {
	if r.sh.m == nil {
		r.counters.AddUnmappedWrite()
		return
	}
	r.sh.m.Write(s, addr, in, flags)
}

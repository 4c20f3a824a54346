package binding

import (
	"vregmap/common"
	"vregmap/diag"
)

type options struct {
	log      common.Logger
	counters *diag.Counters
}

// Option configures a Cache.
type Option func(*options)

// WithLogger sets the logger that receives member discovery (debug) and
// shape build (info) messages. It is also handed to every composite the
// cache builds.
func WithLogger(l common.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithCounters directs unmapped access counts of the generated maps to c.
func WithCounters(c *diag.Counters) Option {
	return func(o *options) {
		if c != nil {
			o.counters = c
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		log:      common.NewNoOpLogger(),
		counters: diag.Default(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

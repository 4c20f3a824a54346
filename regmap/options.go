package regmap

import (
	"vregmap/common"
	"vregmap/diag"
)

type options struct {
	log      common.Logger
	counters *diag.Counters
}

// Option configures a composite map.
type Option func(*options)

// WithLogger sets the logger used for region registration and unmapped
// access tracing (debug level).
func WithLogger(l common.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithCounters directs unmapped access counts to c instead of the
// process-wide diag.Default counters.
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

package cache

// Option configures a new Scene or Project.
type Option func(*config)

type config struct {
	clock Clock
}

func newConfig(opts []Option) config {
	cfg := config{clock: SystemClock}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithClock overrides the Clock used to stamp mutation timestamps. Tests use
// this to control ordering deterministically instead of racing time.Now.
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

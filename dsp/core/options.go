package core

// Option mutates a configuration value of type C.
type Option[C any] func(*C)

// ApplyOptions applies zero or more options to cfg and returns the result.
// Nil options are skipped.
func ApplyOptions[C any](cfg C, opts ...Option[C]) C {
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

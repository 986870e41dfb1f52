package di

const (
	lifecycleSingleton = "singleton"
	lifecycleTransient = "transient"
)

// RegisterOption is a configuration option for service registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	lifecycle string
	metadata  map[string]string
}

// Singleton makes the service a singleton (default).
func Singleton() RegisterOption {
	return func(o *registerOptions) {
		o.lifecycle = lifecycleSingleton
	}
}

// Transient makes the service created on each resolve.
func Transient() RegisterOption {
	return func(o *registerOptions) {
		o.lifecycle = lifecycleTransient
	}
}

// WithMetadata adds diagnostic metadata to a registration.
func WithMetadata(key, value string) RegisterOption {
	return func(o *registerOptions) {
		if o.metadata == nil {
			o.metadata = make(map[string]string)
		}
		o.metadata[key] = value
	}
}

func mergeOptions(opts []RegisterOption) registerOptions {
	merged := registerOptions{lifecycle: lifecycleSingleton}
	for _, opt := range opts {
		if opt != nil {
			opt(&merged)
		}
	}
	return merged
}

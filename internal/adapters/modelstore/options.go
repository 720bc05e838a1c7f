package modelstore

import "github.com/okian/innings/pkg/logger"

// Option applies a configuration option to registry loading.
type Option func(*loadOptions)

type loadOptions struct {
	logger logger.Logger
}

// WithLogger logs each loaded model.
func WithLogger(l logger.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

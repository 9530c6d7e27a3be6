package v1

import "log/slog"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	path    string
	catalog string
	logger  *slog.Logger
}

// WithPath opens the repository enclosing path instead of the working
// directory.
func WithPath(path string) Option {
	return func(c *clientConfig) {
		c.path = path
	}
}

// WithCatalog loads emoji categories from a YAML file instead of the
// built-in catalog.
func WithCatalog(path string) Option {
	return func(c *clientConfig) {
		c.catalog = path
	}
}

// WithLogger routes operation logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

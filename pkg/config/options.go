package config

// Option configures Load.
type Option func(*options)

type options struct {
	file  string
	paths []string
}

// WithConfigFile reads exactly this file. An empty path keeps the search paths.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithConfigPaths replaces the directories searched for keepalive.yaml.
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		if len(paths) > 0 {
			o.paths = paths
		}
	}
}

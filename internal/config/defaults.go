package config

const (
	defaultOutputDir   = "~/.local/share/clipgen/output"
	defaultSegmentsDir = "~/.local/share/clipgen/output/segments"
	defaultImagesDir   = "~/.local/share/clipgen/output/images"
	defaultLogDir      = "~/.local/share/clipgen/logs"

	defaultProviderValue          = "mock"
	defaultVertexLocation         = "us-central1"
	defaultProviderRequestTimeout = 60

	defaultNumCharacters = 4
	defaultNumLocations  = 4

	defaultAssemblyMaxRetries = 3
	defaultAssemblyRetryWait  = 2

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:   defaultOutputDir,
			SegmentsDir: defaultSegmentsDir,
			ImagesDir:   defaultImagesDir,
			LogDir:      defaultLogDir,
		},
		Providers: Providers{
			Image:          defaultProviderValue,
			Video:          defaultProviderValue,
			Audio:          defaultProviderValue,
			VertexLocation: defaultVertexLocation,
			RequestTimeout: defaultProviderRequestTimeout,
		},
		Pipeline: Pipeline{
			NumCharacters: defaultNumCharacters,
			NumLocations:  defaultNumLocations,
		},
		Assembly: Assembly{
			MaxRetries: defaultAssemblyMaxRetries,
			RetryWait:  defaultAssemblyRetryWait,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package propmod

// Options configures an analysis session.
type Options struct {
	// StrictMode fails the whole run on a structural error instead of
	// dropping the offending behavior (default: false).
	StrictMode bool
	// EnableMemo caches leaf curves and per-(root, clip) containers for
	// the duration of one run (default: true).
	EnableMemo bool
	// MaxValueSetSize widens float candidate sets larger than this to
	// Variable; 0 disables widening (default: 64).
	MaxValueSetSize int

	// HumanoidRotationProperties are the per-bone properties a humanoid
	// rig drives.
	HumanoidRotationProperties []string

	// Logging configuration
	LogLevel     string // "error", "warn", "info", "debug" (default: "warn")
	LogMaxValues int    // Max candidate values shown in log lines (default: 5)
	// Logger overrides LogLevel when set.
	Logger Logger
}

// DefaultOptions returns the default configuration for an analysis session.
func DefaultOptions() Options {
	return Options{
		StrictMode:      false,
		EnableMemo:      true,
		MaxValueSetSize: 64,
		HumanoidRotationProperties: []string{
			"m_LocalRotation.x",
			"m_LocalRotation.y",
			"m_LocalRotation.z",
			"m_LocalRotation.w",
		},
		LogLevel:     "warn",
		LogMaxValues: 5,
	}
}

func (o Options) logger() Logger {
	switch {
	case o.Logger != nil:
		return o.Logger
	case o.LogLevel != "":
		return NewLogger(ParseLogLevel(o.LogLevel), nil)
	default:
		return NopLogger()
	}
}

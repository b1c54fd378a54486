package config

// Default values
const (
	DefaultLockPolicy = "ignore"
	DefaultLocale     = "en"
	DefaultDataFile   = "tasks.json"
)

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *BoardConfig {
	color := true
	return &BoardConfig{
		LockPolicy: DefaultLockPolicy,
		Locale:     DefaultLocale,
		DataFile:   DefaultDataFile,
		Color:      &color,
	}
}

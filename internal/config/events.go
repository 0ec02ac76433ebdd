package config

// EventsConfig configures the in-process change notification bus
type EventsConfig struct {
	// Buffer is the output channel buffer of every subscription
	Buffer int64 `mapstructure:"buffer"`
}

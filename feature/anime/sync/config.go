package sync

// Config holds configuration for the sync engine.
type Config struct {
	// IntervalSeconds is the idle time between periodic passes.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"60"`
	// BatchSize is the number of processed items between durability commits.
	BatchSize int `mapstructure:"batch_size" default:"200"`
	// OldThreshold is the number of consecutive already-synced items after
	// which the rest of the feed is assumed synced and the pass stops. The
	// cutoff relies on the feed being newest-first; set 0 to disable it when
	// that ordering cannot be trusted.
	OldThreshold int `mapstructure:"old_threshold" default:"50"`
	// StateFile is the path of the checkpoint file.
	StateFile string `mapstructure:"state_file" default:"last_sync.txt"`
}

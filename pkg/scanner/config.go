package scanner

import "github.com/praetorian-inc/aitags/pkg/expiry"

// SyncConfig controls sync-link diagnostics.
type SyncConfig struct {
	// Enabled turns sync diagnostics on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// WarnOnMissing reports targets that cannot be resolved.
	WarnOnMissing bool `json:"warnOnMissing" yaml:"warnOnMissing" mapstructure:"warnOnMissing"`
	// CheckSymbols reports "#Symbol" suffixes the symbol locator cannot find.
	CheckSymbols bool `json:"checkSymbols" yaml:"checkSymbols" mapstructure:"checkSymbols"`
}

// DefaultSyncConfig returns the default sync settings.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{Enabled: true, WarnOnMissing: true}
}

// Config holds the per-document diagnostic settings.
type Config struct {
	Expiry expiry.Config `json:"expiry" yaml:"expiry" mapstructure:"expiry"`
	Sync   SyncConfig    `json:"sync" yaml:"sync" mapstructure:"sync"`
}

// DefaultConfig returns the default diagnostic settings.
func DefaultConfig() Config {
	return Config{
		Expiry: expiry.DefaultConfig(),
		Sync:   DefaultSyncConfig(),
	}
}

// Package config provides project configuration for Glassboard, loaded from
// glassboard.yaml with environment and flag overrides.
package config

// Config is the root project configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Store  StoreConfig  `koanf:"store"`
	Query  QueryConfig  `koanf:"query"`
	Grid   GridConfig   `koanf:"grid"`
}

// ServerConfig holds UI server settings.
type ServerConfig struct {
	Port          int    `koanf:"port"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
	// LocalMode skips the permission service and grants editor rights to
	// every request. Single-user development only.
	LocalMode bool `koanf:"local_mode"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// Path is the SQLite state database file; ":memory:" for ephemeral.
	Path string `koanf:"path"`
	// BoardsDir holds YAML board definition files seeded on startup and,
	// with watch enabled, re-imported on change.
	BoardsDir string `koanf:"boards_dir"`
}

// QueryConfig holds data query service settings.
type QueryConfig struct {
	// DuckDBPath is the DuckDB database holding the tabular data sources.
	DuckDBPath string `koanf:"duckdb_path"`
}

// GridConfig holds layout grid settings.
type GridConfig struct {
	Columns int `koanf:"columns"`
}

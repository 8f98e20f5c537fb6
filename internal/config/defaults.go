package config

// Default values applied under any explicit configuration.
const (
	DefaultPort      = 8940
	DefaultStatePath = ".glassboard/state.db"
	DefaultBoardsDir = "boards"
	DefaultColumns   = 12
)

// Defaults returns the built-in configuration map consumed by the confmap
// provider, so file/env/flag layers override it key by key.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":       DefaultPort,
		"server.watch":      true,
		"server.local_mode": true,
		"store.path":        DefaultStatePath,
		"store.boards_dir":  DefaultBoardsDir,
		"query.duckdb_path": "",
		"grid.columns":      DefaultColumns,
	}
}

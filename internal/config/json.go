package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/branchsync/internal/flagx"
	"github.com/dmitrijs2005/branchsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "3s" or as integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN         string         `json:"database_dsn"`
	BranchID            string         `json:"branch_id"`
	UserName            string         `json:"user_name"`
	DebounceWindow      timex.Duration `json:"debounce_window"`
	StatusDisplayWindow timex.Duration `json:"status_display_window"`
}

// parseJson overlays Config with values loaded from a JSON file selected
// via the -c/-config flags. Absent file path means no JSON stage. Panics
// on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.BranchID != "" {
		cfg.BranchID = jc.BranchID
	}
	if jc.UserName != "" {
		cfg.UserName = jc.UserName
	}
	if jc.DebounceWindow.Duration != 0 {
		cfg.DebounceWindow = time.Duration(jc.DebounceWindow.Duration)
	}
	if jc.StatusDisplayWindow.Duration != 0 {
		cfg.StatusDisplayWindow = time.Duration(jc.StatusDisplayWindow.Duration)
	}
}

package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/branchsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path of the local database file
//	-b string   branch identifier
//	-u string   user name for attribution
//	-w int      master-push debounce window in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-u", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local database file")
	fs.StringVar(&cfg.BranchID, "b", cfg.BranchID, "branch identifier")
	fs.StringVar(&cfg.UserName, "u", cfg.UserName, "user name for attribution")
	debounce := fs.Int("w", int(cfg.DebounceWindow.Seconds()), "master push debounce window (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DebounceWindow = time.Duration(*debounce) * time.Second
}

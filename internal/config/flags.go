package config

import (
	"flag"
	"os"
	"time"

	"github.com/jicmugot16/fieldsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-l string   local evidence store DSN (default from Config)
//	-d string   central database DSN (default from Config)
//	-n string   device identifier stamped on uploaded evidence
//	-e string   directory holding captured evidence photos
//	-i int      scheduler tick interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-l", "-d", "-n", "-e", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.LocalDSN, "l", cfg.LocalDSN, "local evidence store DSN")
	fs.StringVar(&cfg.CentralDSN, "d", cfg.CentralDSN, "central database DSN")
	fs.StringVar(&cfg.DeviceID, "n", cfg.DeviceID, "device identifier")
	fs.StringVar(&cfg.EvidenceDir, "e", cfg.EvidenceDir, "evidence photo directory")
	tickInterval := fs.Int("i", int(cfg.TickInterval.Seconds()), "sync tick interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TickInterval = time.Duration(*tickInterval) * time.Second
}

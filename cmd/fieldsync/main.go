// Command fieldsync is the operator CLI for the enforcement device:
// run a sync pass now, check connectivity, show pending counts, print
// the last sync status, record evidence by hand or provision the
// central schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jicmugot16/fieldsync/internal/buildinfo"
	"github.com/jicmugot16/fieldsync/internal/cache"
	"github.com/jicmugot16/fieldsync/internal/capture"
	"github.com/jicmugot16/fieldsync/internal/config"
	"github.com/jicmugot16/fieldsync/internal/flagx"
	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/jicmugot16/fieldsync/internal/models"
	"github.com/jicmugot16/fieldsync/internal/probe"
	"github.com/jicmugot16/fieldsync/internal/scan"
	"github.com/jicmugot16/fieldsync/internal/store/central"
	"github.com/jicmugot16/fieldsync/internal/store/local"
	"github.com/jicmugot16/fieldsync/internal/syncer"
)

type cliFlags struct {
	check    bool
	stats    bool
	status   bool
	migrate  bool
	record   bool
	purge    bool
	lookup   string
	tag      string
	category string
	location string
	photo    string
}

func parseCliFlags() cliFlags {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-check", "-stats", "-status", "-migrate", "-record", "-purge",
		"-lookup", "-tag", "-category", "-location", "-photo",
	})

	var f cliFlags
	fs := flag.NewFlagSet("fieldsync", flag.ExitOnError)
	fs.BoolVar(&f.check, "check", false, "check connectivity only")
	fs.BoolVar(&f.stats, "stats", false, "show pending counts only")
	fs.BoolVar(&f.status, "status", false, "print last sync status")
	fs.BoolVar(&f.migrate, "migrate", false, "provision the central schema")
	fs.BoolVar(&f.record, "record", false, "record one evidence capture")
	fs.BoolVar(&f.purge, "purge", false, "delete evidence already confirmed synced")
	fs.StringVar(&f.lookup, "lookup", "", "look up a tag against the local mirror")
	fs.StringVar(&f.tag, "tag", "", "scanned tag uid (with -record)")
	fs.StringVar(&f.category, "category", "", "violation category label (with -record)")
	fs.StringVar(&f.location, "location", "", "capture location (with -record)")
	fs.StringVar(&f.photo, "photo", "", "evidence photo reference (with -record)")
	_ = fs.Parse(args)
	return f
}

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.NewDeviceLogger(cfg.LogFilePath)
	f := parseCliFlags()

	ctx := context.Background()
	if err := run(ctx, cfg, logger, f); err != nil {
		fmt.Fprintf(os.Stderr, "fieldsync: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger, f cliFlags) error {
	switch {
	case f.status:
		return printStatus(cfg)
	case f.migrate:
		return migrateCentral(ctx, cfg, logger)
	}

	localStore, err := local.Open(ctx, cfg.LocalDSN, logger)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer localStore.Close()

	switch {
	case f.lookup != "":
		return lookupTag(ctx, cfg, logger, localStore, f.lookup)
	case f.record:
		return recordEvidence(ctx, cfg, logger, localStore, f)
	case f.stats:
		return printStats(ctx, cfg, localStore)
	case f.purge:
		n, err := localStore.DeleteSynced(ctx)
		if err != nil {
			return fmt.Errorf("purge synced evidence: %w", err)
		}
		fmt.Printf("Purged %d synced evidence records\n", n)
		return nil
	}

	centralStore, err := central.Open(cfg.CentralDSN, logger)
	if err != nil {
		return fmt.Errorf("open central store: %w", err)
	}
	defer centralStore.Close()

	p := probe.New(cfg.ProbeHost, cfg.ProbeTimeout, centralStore, logger)
	if f.check {
		return checkConnectivity(ctx, cfg, localStore, p)
	}
	return fullSync(ctx, cfg, logger, localStore, centralStore, p)
}

func printStatus(cfg *config.Config) error {
	st := syncer.NewStatusFile(cfg.StatusFilePath).Load()
	if st.LastSuccessfulSync.IsZero() {
		fmt.Println("Last successful sync: never")
	} else {
		fmt.Printf("Last successful sync: %s\n", st.LastSuccessfulSync.Local())
	}
	if st.LastAttempt.IsZero() {
		fmt.Println("Last attempt: never")
	} else {
		fmt.Printf("Last attempt: %s\n", st.LastAttempt.Local())
	}
	return nil
}

func migrateCentral(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	centralStore, err := central.Open(cfg.CentralDSN, logger)
	if err != nil {
		return fmt.Errorf("open central store: %w", err)
	}
	defer centralStore.Close()

	if err := centralStore.Migrate(ctx); err != nil {
		return err
	}
	fmt.Println("Central schema is up to date")
	return nil
}

func lookupTag(ctx context.Context, cfg *config.Config, logger logging.Logger, localStore *local.Store, tagID string) error {
	resolver := scan.NewResolver(cache.New(cfg.CacheTTL, cfg.CacheMaxEntries), localStore, logger)
	res, found, err := resolver.Lookup(ctx, tagID)
	if err != nil {
		return fmt.Errorf("lookup tag: %w", err)
	}
	if !found {
		fmt.Printf("Tag %s: unknown\n", tagID)
		return nil
	}
	fmt.Printf("Tag %s: %s\n", tagID, res.StickerStatus)
	fmt.Printf("  Holder:  %s\n", res.HolderName)
	fmt.Printf("  Vehicle: %s %s (%s, %s)\n", res.Make, res.Model, res.Color, res.VehicleType)
	fmt.Printf("  Plate:   %s\n", res.PlateNumber)
	return nil
}

func recordEvidence(ctx context.Context, cfg *config.Config, logger logging.Logger, localStore *local.Store, f cliFlags) error {
	if f.tag == "" || f.category == "" {
		return fmt.Errorf("-record requires -tag and -category")
	}
	dir, err := cfg.ResolveEvidenceDir()
	if err != nil {
		return fmt.Errorf("resolve evidence dir: %w", err)
	}

	rec := capture.NewRecorder(localStore, dir, cfg.DeviceID, logger)
	res, err := rec.Record(ctx, f.tag, f.category, f.location, f.photo)
	if err != nil {
		return err
	}
	if res.SpillFile != "" {
		fmt.Printf("Local store unusable, capture spilled to %s\n", res.SpillFile)
		return nil
	}
	fmt.Printf("Evidence recorded with ID %d (pending sync)\n", res.EvidenceID)
	return nil
}

func printStats(ctx context.Context, cfg *config.Config, localStore *local.Store) error {
	pending, err := localStore.CountPending(ctx)
	if err != nil {
		return fmt.Errorf("count pending: %w", err)
	}
	fmt.Printf("Pending evidence: %d\n", pending)

	for _, table := range []string{models.TableTags, models.TableVehicles, models.TableUserProfiles} {
		n, err := localStore.CountReferenceRows(ctx, table)
		if err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
		fmt.Printf("Mirrored %s: %d\n", table, n)
	}

	st := syncer.NewStatusFile(cfg.StatusFilePath).Load()
	if st.LastSuccessfulSync.IsZero() {
		fmt.Println("Last successful sync: never")
	} else {
		fmt.Printf("Last successful sync: %s\n", st.LastSuccessfulSync.Local())
	}
	return nil
}

func checkConnectivity(ctx context.Context, cfg *config.Config, localStore *local.Store, p *probe.Probe) error {
	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	if err := localStore.Ping(pingCtx); err != nil {
		return fmt.Errorf("local store: %w", err)
	}
	fmt.Println("Local store: connected")

	if !p.IsReachable(ctx) {
		return fmt.Errorf("central store: unreachable")
	}
	fmt.Println("Central store: reachable")
	return nil
}

func fullSync(ctx context.Context, cfg *config.Config, logger logging.Logger, localStore *local.Store, centralStore *central.Store, p *probe.Probe) error {
	dir, err := cfg.ResolveEvidenceDir()
	if err != nil {
		return fmt.Errorf("resolve evidence dir: %w", err)
	}

	engine := syncer.NewEngine(p, localStore, centralStore, dir, logger)
	status := syncer.NewStatusFile(cfg.StatusFilePath)

	res := engine.RunSyncPass(ctx)
	recordAttempt(ctx, status, res, logger)

	fmt.Printf("Uploaded: %d, skipped: %d\n", res.Uploaded, res.Skipped)
	for _, table := range res.RefreshedTables {
		fmt.Printf("Refreshed %s\n", table)
	}
	for _, table := range res.FailedTables {
		fmt.Printf("Refresh failed for %s\n", table)
	}
	if !res.OK {
		return fmt.Errorf("sync aborted: %s", res.Error)
	}
	if !res.Clean() {
		return fmt.Errorf("sync completed with errors")
	}
	fmt.Println("Sync completed successfully")
	return nil
}

func recordAttempt(ctx context.Context, status *syncer.StatusFile, res models.SyncResult, logger logging.Logger) {
	st := status.Load()
	st.LastAttempt = time.Now().UTC()
	if res.OK {
		st.LastSuccessfulSync = st.LastAttempt
	}
	if err := status.Save(st); err != nil {
		logger.Warn(ctx, "could not persist sync status", "error", err)
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigscan/sigscan/internal/logger"
	"github.com/sigscan/sigscan/internal/storage/archive"
	"github.com/sigscan/sigscan/internal/storage/signal"
)

var exportList bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the signal journal as CSV to the archive",
	Long: `Export writes the full signal journal, forward outcomes included, as a
timestamped CSV to the configured archive backend (local directory or
S3-compatible object store).`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportList, "list", false, "list previous exports instead of writing one")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	backend, err := archive.New(archive.Config{
		Type: cfg.Archive.Type,
		Path: cfg.Archive.Path,
		S3: archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		},
	})
	if err != nil {
		return err
	}

	ctx := context.Background()

	if exportList {
		keys, err := backend.List(ctx, "signals")
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Println("No exports found.")
			return nil
		}
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	signals, err := store.All(ctx)
	if err != nil {
		return err
	}

	data, err := signal.EncodeCSV(signals)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("signals/signals-%s.csv", time.Now().Format("20060102-150405"))
	if err := backend.Put(ctx, key, data); err != nil {
		return err
	}

	fmt.Printf("Exported %d signals to %s\n", len(signals), key)
	return nil
}

package main

import (
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/common/database"
	"github.com/jagoanbunda/jagoanbunda-data/internal/reference"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/schema"
	"github.com/jagoanbunda/jagoanbunda-data/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		n, err := schema.Apply(cmd.Context(), db)
		if err != nil {
			return err
		}
		log.Info("Migration completed", zap.Int("statements", n))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the ASQ-3 reference data",
	Long: `Writes the embedded ASQ-3 catalog (domains, age intervals, cutoffs and
questions) into the database. Running it twice changes nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := reference.Load()
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		seeder := service.NewReferenceSeeder(repository.NewPostgresAsq3ReferenceRepository(db), catalog, log)
		rep, err := seeder.Seed(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "domains: %d\nage intervals: %d\ncutoffs: %d\nquestions created: %d\n",
			rep.Domains, rep.AgeIntervals, rep.Cutoffs, rep.QuestionsCreated)
		return nil
	},
}

var syncImagesDryRun bool

var syncImagesCmd = &cobra.Command{
	Use:   "sync-images [dir]",
	Short: "Attach ASQ-3 question images found on disk",
	Long: `Scans dir (default ASQ3_IMAGE_DIR) for files named like
"12-bulan_motorik-kasar_3.png" and sets the image URL of the matching
question when it has none yet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Storage.ImageDir
		if len(args) == 1 {
			dir = args[0]
		}
		catalog, err := reference.Load()
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		sync := service.NewImageSyncService(repository.NewPostgresAsq3ReferenceRepository(db), catalog, cfg.Storage.ImageURLPrefix, log)
		rep, err := sync.Sync(cmd.Context(), dir, syncImagesDryRun)
		if err != nil {
			return err
		}
		printSyncReport(cmd, rep, syncImagesDryRun)
		return nil
	},
}

func init() {
	syncImagesCmd.Flags().BoolVar(&syncImagesDryRun, "dry-run", false, "report what would change without writing")
}

func printSyncReport(cmd *cobra.Command, rep *service.SyncReport, dryRun bool) {
	out := cmd.OutOrStdout()
	for _, r := range rep.Results {
		if r.Detail != "" {
			fmt.Fprintf(out, "%-40s %s (%s)\n", r.File, r.Outcome, r.Detail)
		} else {
			fmt.Fprintf(out, "%-40s %s\n", r.File, r.Outcome)
		}
	}
	if dryRun {
		fmt.Fprintln(out, "dry run, nothing written")
	}
	fmt.Fprintf(out, "synced: %d  already had image: %d  not found: %d  errors: %d\n",
		rep.Synced, rep.AlreadyHadImage, rep.NotFound, rep.Errors)
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmerrick/jobscout/internal/store"
)

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Print stored employer ratings",
	RunE:  runRatings,
}

func init() {
	rootCmd.AddCommand(ratingsCmd)
}

func runRatings(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ratings, err := store.NewFileStore(cfg.DataDir).LoadRatings()
	if err != nil {
		logger.Error("failed to load ratings", "error", err)
		os.Exit(1)
	}
	if len(ratings) == 0 {
		fmt.Println("no ratings stored yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMPLOYER\tRATING\tREVIEWS\tSIZE")
	for _, r := range ratings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Employer, r.Rating, r.ReviewCount, r.CompanySize)
	}
	return w.Flush()
}

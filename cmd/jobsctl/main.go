package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jobsctl",
		Short: "Manage the job application record store",
		Long: `jobsctl works directly against the configured database.

Configuration comes from the environment (or a .env file):
  DB_DRIVER, DB_URL, SQLITE_PATH, JOBS_RESULT_TYPES, JOBS_RESULT_POLICY

Examples:
  jobsctl list
  jobsctl create --field company=Acme --field title=Engineer --field expectation=120000
  jobsctl update 3 --field result=Offer
  jobsctl export --out jobs.xlsx`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newListCmd(), newGetCmd(), newCreateCmd(), newUpdateCmd(), newDeleteCmd())
	root.AddCommand(newResultTypesCmd(), newExportCmd(), newMigrateCmd())
	return root
}

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

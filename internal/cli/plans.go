package cli

import (
	"fmt"

	"github.com/rahul/sarthi/internal/store"
	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List stored plans",
	Args:  cobra.NoArgs,
	RunE:  runPlansCmd,
}

func init() {
	rootCmd.AddCommand(plansCmd)
}

func runPlansCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := store.NewPlanStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open plan store: %v", err)
	}
	defer s.Close()

	records, err := s.ListPlans()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No plans stored yet.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%4d  %s  %s\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Objective)
	}
	return nil
}

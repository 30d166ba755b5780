package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"paperchase/internal/core"
)

var sourcesCmd = &cobra.Command{
	Use:          "sources",
	Short:        "List registered sources by tier",
	SilenceUsage: true,
	RunE:         runSources,
}

func runSources(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, cleanup, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIER\tNAME\tENABLED")
	for _, tier := range core.TierOrder() {
		for _, src := range engine.SourcesByTier(tier) {
			fmt.Fprintf(w, "%s\t%s\t%t\n", src.Tier, src.Name, src.Enabled)
		}
	}
	return w.Flush()
}

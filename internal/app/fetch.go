package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paperchase/internal/core"
)

var fetchCmd = &cobra.Command{
	Use:          "fetch",
	Short:        "Acquire a document by canonical key",
	SilenceUsage: true,
	RunE:         runFetch,
}

func init() {
	fetchCmd.Flags().String("key", "", "Canonical document key (e.g. a DOI)")
	fetchCmd.Flags().String("out", "", "Destination path for the artifact")
	fetchCmd.Flags().StringToString("meta", nil, "Document metadata as key=value pairs (repeatable)")
	_ = fetchCmd.MarkFlagRequired("key")
	_ = fetchCmd.MarkFlagRequired("out")
}

func runFetch(cmd *cobra.Command, _ []string) error {
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

	key, _ := cmd.Flags().GetString("key")
	out, _ := cmd.Flags().GetString("out")
	metaPairs, _ := cmd.Flags().GetStringToString("meta")
	meta := core.Metadata(metaPairs)

	// First interrupt requests cooperative cancellation; a second one
	// terminates the process the usual way.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			log.Warn("interrupt received, cancelling run")
			engine.RequestCancel()
			signal.Stop(sigCh)
		}
	}()

	progress := func(stage, message string) {
		log.Info("progress", zap.String("stage", stage), zap.String("message", message))
	}

	res := engine.Execute(cmd.Context(), key, out, meta, progress)

	for source, outcome := range res.Attempts {
		log.Debug("attempt", zap.String("source", source), zap.String("outcome", string(outcome)))
	}
	switch {
	case res.Success && res.ArtifactPath != "":
		fmt.Fprintf(cmd.OutOrStdout(), "acquired %s via %s -> %s\n", key, res.Source, res.ArtifactPath)
		return nil
	case res.Success:
		fmt.Fprintf(cmd.OutOrStdout(), "request for %s satisfied externally\n", key)
		return nil
	default:
		return errors.New(res.Err)
	}
}

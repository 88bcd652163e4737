// Package main provides the CLI entry point for gradeflow.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/internal/config"
	"github.com/ukaji3/gradeflow-go/internal/logger"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/layout"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/nbgrader"
)

var (
	cfgFile     string
	rootDir     string
	courseName  string
	stagingDir  string
	nbgraderBin string
	verbose     bool
	pretty      bool
	asJSON      bool

	cfg *config.Config
	log = zap.NewNop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gradeflow",
		Short: "Run nbgrader grading workflows for an LMS course",
		Long: `gradeflow provisions an nbgrader course from an LMS roster, creates
assignments, matches LMS submission downloads to students, autogrades them
and merges the scores back into the LMS gradebook.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./gradeflow.yaml)")
	pf.StringVar(&rootDir, "root", "", "Folder holding the course and staging directories")
	pf.StringVar(&courseName, "course", "", "Course directory name")
	pf.StringVar(&stagingDir, "staging", "", "Staging directory (default: <root>/temp)")
	pf.StringVar(&nbgraderBin, "nbgrader", "", "nbgrader executable")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	pf.BoolVar(&asJSON, "json", false, "Print results as JSON")
	pf.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(
		newSetupCmd(),
		newCreateCmd(),
		newAutogradeCmd(),
		newStudentCmd(),
		newMatchCmd(),
		newMergeCmd(),
		newScoresCmd(),
		newFeedbackCmd(),
	)
	return rootCmd
}

func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg = c
	log = logger.InitLogger(cfg, verbose)
	return nil
}

func course() layout.Course {
	c := layout.New(cfg.Root, cfg.Course)
	c.StagingDir = cfg.StagingDir
	c.NotebookExt = cfg.NotebookExt
	return c
}

// workflowOptions builds workflow options from the loaded configuration.
func workflowOptions() (gradeflow.Options, error) {
	if err := cfg.Validate(); err != nil {
		return gradeflow.Options{}, err
	}
	return gradeflow.Options{
		Course:      course(),
		Tool:        nbgrader.New(cfg.Nbgrader.Bin, log),
		Logger:      log,
		Placeholder: cfg.Placeholder,
		ReceiptExt:  cfg.ReceiptExt,
		Report:      cfg.Report.XLSX,
	}, nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/gradebook"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/matcher"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/output"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/parser"
)

var (
	gradebookPath  string
	exportPath     string
	assignmentName string
	outPath        string
	destDir        string
	place          bool
)

// printJSON writes v to the command output when --json is set.
func printJSON(cmd *cobra.Command, v interface{}) (bool, error) {
	if !asJSON {
		return false, nil
	}
	b, err := output.ToJSON(v, pretty)
	if err != nil {
		return true, fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return true, nil
}

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the course and a submitted folder per roster student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := workflowOptions()
			if err != nil {
				return err
			}
			if err := waitForStaging(cmd, "the LMS roster (.csv or .xlsx)"); err != nil {
				return err
			}
			res, err := gradeflow.SetupCourse(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if ok, err := printJSON(cmd, res); ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Course %s created with %d students (%d new folders).\n",
				cfg.Course, len(res.Roster.Students), len(res.Created))
			return nil
		},
	}
	addWaitFlag(cmd)
	return cmd
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <assignment>",
		Short: "Validate the staged instructor notebook and release the student version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := workflowOptions()
			if err != nil {
				return err
			}
			if err := waitForStaging(cmd, "the instructor notebook"); err != nil {
				return err
			}
			res, err := gradeflow.CreateAssignment(cmd.Context(), opts, args[0])
			var ve *gradeflow.ValidationError
			if errors.As(err, &ve) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Validation failed with errors:")
				for _, d := range ve.Diagnostics {
					fmt.Fprintln(cmd.ErrOrStderr(), "  "+d)
				}
			}
			if err != nil {
				return err
			}
			if ok, err := printJSON(cmd, res); ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Student notebook copied to %s\n", res.Staged)
			return nil
		},
	}
	addWaitFlag(cmd)
	return cmd
}

func newAutogradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autograde <assignment>",
		Short: "Grade the staged LMS download and merge scores into the staged gradebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := workflowOptions()
			if err != nil {
				return err
			}
			if err := waitForStaging(cmd, "the submission archive (.zip) and the gradebook"); err != nil {
				return err
			}
			rep, err := gradeflow.AutogradeAssignment(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			if ok, err := printJSON(cmd, rep); ok {
				return err
			}

			w := cmd.OutOrStdout()
			var skips []models.Skip
			skips = append(skips, rep.Matching.Skipped...)
			skips = append(skips, rep.Placement.Skipped...)
			if len(skips) > 0 {
				fmt.Fprintln(w, "Skipped submissions:")
				if err := output.WriteSkips(w, skips); err != nil {
					return err
				}
				fmt.Fprintln(w)
			}
			if err := output.WriteSummary(w, rep.Summary); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nGraded gradebook copied to %s\n", rep.Staged)
			fmt.Fprintf(w, "Successfully autograded assignment %s!\n", args[0])
			return nil
		},
	}
	addWaitFlag(cmd)
	return cmd
}

func newStudentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student <username> <assignment>",
		Short: "Grade one staged notebook for a student and render feedback",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := workflowOptions()
			if err != nil {
				return err
			}
			if err := waitForStaging(cmd, "the student notebook"); err != nil {
				return err
			}
			res, err := gradeflow.AutogradeStudent(cmd.Context(), opts, args[0], args[1])
			if err != nil {
				return err
			}
			ok, err := printJSON(cmd, res)
			if err != nil {
				return err
			}
			if !ok {
				if err := output.WriteScores(cmd.OutOrStdout(), res.Scores); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Feedback: %s\n", res.Feedback)
			}
			if serveAddr != "" {
				return serveFeedback(cmd, serveAddr, args[0], args[1])
			}
			return nil
		},
	}
	addWaitFlag(cmd)
	addServeFlag(cmd)
	return cmd
}

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <archive.zip> <assignment>",
		Short: "Extract an LMS download and pair receipts with notebooks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := destDir
			if dest == "" {
				tmp, err := os.MkdirTemp("", "gradeflow-match-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(tmp)
				dest = tmp
			}
			if _, err := matcher.Extract(args[0], dest); err != nil {
				return err
			}
			res, err := matcher.Match(dest, matcher.Options{
				ReceiptExt:  cfg.ReceiptExt,
				NotebookExt: cfg.NotebookExt,
				Logger:      log,
			})
			if err != nil && !errors.Is(err, matcher.ErrNoSubmissions) {
				return err
			}
			matchErr := err

			var placement *matcher.Placement
			if place && matchErr == nil {
				if err := cfg.Validate(); err != nil {
					return err
				}
				placement, err = matcher.Place(res, course(), args[1], log)
				if err != nil {
					return err
				}
				res.Skipped = append(res.Skipped, placement.Skipped...)
			}

			if ok, err := printJSON(cmd, res); ok {
				if err != nil {
					return err
				}
				return matchErr
			}
			w := cmd.OutOrStdout()
			if err := output.WriteSubmissions(w, res.Matched); err != nil {
				return err
			}
			if len(res.Skipped) > 0 {
				fmt.Fprintln(w)
				if err := output.WriteSkips(w, res.Skipped); err != nil {
					return err
				}
			}
			if res.CountMismatch() {
				fmt.Fprintf(w, "\nWarning: %d receipts but %d notebooks\n", res.Receipts, res.Notebooks)
			}
			if placement != nil {
				fmt.Fprintf(w, "\nPlaced %d notebooks for %s\n", len(placement.Placed), args[1])
			}
			return matchErr
		},
	}
	cmd.Flags().StringVar(&destDir, "dest", "", "Keep extracted files in this directory")
	cmd.Flags().BoolVar(&place, "place", false, "Copy matched notebooks into the course's submitted folders")
	return cmd
}

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge exported scores into an LMS gradebook and summarize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, rows, err := gradebook.MergeFile(gradebookPath, exportPath, assignmentName, outPath, cfg.Placeholder)
			if err != nil {
				return err
			}
			maxScore, _ := gradebook.MaxScore(rows)
			summary := g.Summarize(assignmentName, maxScore)
			if ok, err := printJSON(cmd, summary); ok {
				return err
			}
			if outPath == "" {
				if err := g.WriteCSV(cmd.OutOrStdout()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return output.WriteSummary(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&gradebookPath, "gradebook", "", "LMS gradebook (.csv or .xlsx)")
	cmd.Flags().StringVar(&exportPath, "export", "", "nbgrader score export (.csv)")
	cmd.Flags().StringVar(&assignmentName, "assignment", "", "Assignment to merge")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the merged gradebook here (default: stdout)")
	for _, f := range []string{"gradebook", "export", "assignment"} {
		cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scores <notebook>",
		Short: "Print per-component scores of a graded notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			s, err := parser.ReadScores(args[0])
			if err != nil {
				return err
			}
			if ok, err := printJSON(cmd, s); ok {
				return err
			}
			return output.WriteScores(cmd.OutOrStdout(), s)
		},
	}
}

func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <username> <assignment>",
		Short: "Locate, or serve, a student's rendered feedback",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			path := course().FeedbackHTML(args[0], args[1])
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("no feedback for %s on %s: %w", args[0], args[1], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if serveAddr != "" {
				return serveFeedback(cmd, serveAddr, args[0], args[1])
			}
			return nil
		},
	}
	addServeFlag(cmd)
	return cmd
}

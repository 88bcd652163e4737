package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	wait bool

	isTerminal = term.IsTerminal // mockable
)

// waitForStaging asks the operator to fill the staging directory and blocks
// until Enter. Without --wait, or when stdin is not a terminal, it returns at once.
func waitForStaging(cmd *cobra.Command, what string) error {
	if !wait || !isTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Place %s into %s and press Enter...", what, course().Staging())
	_, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func addWaitFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&wait, "wait", false, "Prompt and wait for the staging directory to be filled")
}

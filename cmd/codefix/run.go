package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"codefix/internal/session"

	"github.com/spf13/cobra"
)

// errRunFailed is returned after the failure message was already printed.
var errRunFailed = errors.New("run failed")

func newRunCmd(a *app) *cobra.Command {
	var tabName, file string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send code to the backend once and print the result",
		Long: `Send code to the endpoint of a tab without starting the UI.

The code is read from --file, or from stdin when no file is given.

Examples:
  codefix run --tab debugging --file main.py
  cat main.py | codefix run --tab testcase`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tab, err := session.ParseTab(tabName)
			if err != nil {
				return err
			}
			code, err := readCode(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			coord := session.NewCoordinator(a.client, a.logger, code)
			coord.SelectTab(tab)
			out, err := coord.RunSync(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), out)
				return errRunFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tabName, "tab", "t", session.TabCompletion.String(), "completion, debugging or testcase")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read code from file instead of stdin")
	return cmd
}

func readCode(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read code: %w", err)
	}
	return string(b), nil
}

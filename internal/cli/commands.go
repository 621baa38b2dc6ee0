package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newGenerateCommand(st *state) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "generate WORKSPACE...",
		Short: "Generate the Arduino sketch for a workspace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.app.Generate(cmd.Context(), args...)
			if err != nil {
				return failure(err)
			}
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), res.Source)
			} else if err := os.WriteFile(output, []byte(res.Source), 0644); err != nil {
				return failure(fmt.Errorf("failed to write sketch: %w", err))
			}
			if len(res.Faults) > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d blocks could not be generated", len(res.Faults))}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the sketch to this file instead of stdout.")
	return cmd
}

func newValidateCommand(st *state) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate PATH...",
		Short: "Report missing instances, type mismatches and blocks that cannot be generated",
		Long: "Validate loads every workspace file under PATH (a file or a directory)\n" +
			"and lists the problems found. Blocks that cannot be generated always fail\n" +
			"the command; with --strict any problem does.\n",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := st.app.Validate(cmd.Context(), args...)
			if err != nil {
				return failure(err)
			}
			out := cmd.OutOrStdout()
			for _, w := range report.Warnings {
				fmt.Fprintf(out, "warning: block %q: %s\n", w.BlockID, w.Text)
			}
			for _, m := range report.Mismatches {
				fmt.Fprintf(out, "mismatch: %s\n", m.Error())
			}
			for _, f := range report.Faults {
				fmt.Fprintf(out, "fault: %s\n", f.Error())
			}

			n := report.Problems()
			if n == 0 {
				fmt.Fprintln(out, "Workspace is valid.")
				return nil
			}
			fmt.Fprintf(out, "%d problems found.\n", n)
			if len(report.Faults) > 0 || strict {
				return &ExitError{Code: 1, Message: fmt.Sprintf("validation failed with %d problems", n)}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings and type mismatches too.")
	return cmd
}

func newFormatCommand(st *state) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "format WORKSPACE",
		Short: "Rewrite a workspace in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if write {
				info, err := os.Stat(path)
				if err != nil {
					return failure(err)
				}
				if info.IsDir() {
					return usageError(errors.New("--write needs a single workspace file"))
				}
			}

			var buf bytes.Buffer
			if err := st.app.Format(cmd.Context(), &buf, path); err != nil {
				return failure(err)
			}
			if !write {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
				return failure(fmt.Errorf("failed to write workspace: %w", err))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file.")
	return cmd
}

func newPublishCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish WORKSPACE...",
		Short: "Generate the sketch and push it to a socket.io endpoint",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			receipt, err := st.app.Publish(cmd.Context(), args...)
			if err != nil {
				return failure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published. Endpoint replied: %v\n", receipt.Response)
			return nil
		},
	}
	cmd.Flags().String("url", "", "socket.io endpoint, e.g. http://localhost:3000/socket.io/")
	cmd.Flags().Duration("timeout", 10*time.Second, "How long to wait for the endpoint to acknowledge.")
	return cmd
}

func newKindsCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the registered block kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, kind := range st.app.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), kind)
			}
			return nil
		},
	}
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bptracker/internal/codec"
	"bptracker/internal/store"
)

func newExportCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all recordings as a JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closer, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			document, err := codec.Encode(st.Recordings())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return os.WriteFile(args[0], []byte(document), 0600)
			}
			fmt.Fprintln(cmd.OutOrStdout(), document)
			return nil
		},
	}
}

func newImportCmd(dbPath *string) *cobra.Command {
	var (
		fromCSV bool
		yes     bool
	)
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace all recordings with an imported document",
		Long: "Reads a JSON document (or legacy CSV with --csv) from the given file or\n" +
			"stdin, validates every entry and replaces the whole collection. Nothing\n" +
			"changes when any entry is invalid.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			var err error
			if len(args) == 1 {
				input, err = os.ReadFile(args[0])
			} else {
				input, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			document := string(input)
			if fromCSV {
				document, err = codec.ConvertCSV(document)
				if err != nil {
					return err
				}
			}

			recordings, err := codec.Decode(document)
			if err != nil {
				return err
			}

			st, closer, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			if existing := len(st.Recordings()); existing > 0 && !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Replace %d existing recording(s) with %d imported one(s)? [y/N] ", existing, len(recordings))
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
					return nil
				}
			}

			st.Dispatch(store.Initialize{Recordings: recordings})
			st.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recording(s)\n", len(recordings))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromCSV, "csv", false, "Treat the input as the legacy CSV export")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace without asking")
	return cmd
}

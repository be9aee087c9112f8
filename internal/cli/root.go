// Package cli implements the bptracker command line client. Commands open
// the local database directly; there is no remote server in the loop.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bptracker/internal/storage/bolt"
	"bptracker/internal/store"
)

func NewRootCmd(version, buildDate string) *cobra.Command {
	var dbPath string
	root := &cobra.Command{
		Use:   "bptracker",
		Short: "Blood pressure tracker",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "Path to the local database file")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newAddCmd(&dbPath))
	root.AddCommand(newListCmd(&dbPath))
	root.AddCommand(newEditCmd(&dbPath))
	root.AddCommand(newDeleteCmd(&dbPath))
	root.AddCommand(newExportCmd(&dbPath))
	root.AddCommand(newImportCmd(&dbPath))
	return root
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bptracker.db")
}

// openStore opens the local database and loads the stored recordings into a
// fresh store. Callers must Close the returned closer; mutating commands
// should Flush the store first so the write lands before the process exits.
func openStore(dbPath string) (*store.Store, io.Closer, error) {
	storage, err := bolt.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.ErrorLevel)
	st := store.NewStore(storage, logger)
	st.Load(context.Background())
	st.Flush()
	return st, storage, nil
}

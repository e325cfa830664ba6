// Command git-remote-sqlite-config is a small CLI for reading and writing
// server-side configuration stored in a git-remote-sqlite database file,
// external to the remote helper's own protocol loop.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrislloyd/git-remote-sqlite/internal/store"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var listAll bool
	var get string
	var unset string

	cmd := &cobra.Command{
		Use:   "git-remote-sqlite-config <db> [key] [value]",
		Short: "Read or write config stored in a git-remote-sqlite database",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := args[0]
			st, err := store.Open(db)
			if err != nil {
				return fmt.Errorf("open %s: %w", db, err)
			}
			defer st.Close()

			switch {
			case listAll:
				return runList(cmd, st)
			case get != "":
				return runGet(cmd, st, get)
			case unset != "":
				return runUnset(st, unset)
			default:
				return runSet(args[1:], st)
			}
		},
	}

	cmd.Flags().BoolVar(&listAll, "list", false, "list every config entry")
	cmd.Flags().StringVar(&get, "get", "", "print the value of one config key")
	cmd.Flags().StringVar(&unset, "unset", "", "remove one config key")
	return cmd
}

func runList(cmd *cobra.Command, st *store.Store) error {
	entries, err := st.IterateConfig()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", e.Key, e.Value)
	}
	return nil
}

func runGet(cmd *cobra.Command, st *store.Store, key string) error {
	value, err := st.GetConfig(key)
	if err != nil {
		if err == store.ErrNotFound {
			return fmt.Errorf("key not found: %s", key)
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runUnset(st *store.Store, key string) error {
	return st.UnsetConfig(key)
}

func runSet(args []string, st *store.Store) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: git-remote-sqlite-config <db> <key> <value>")
	}
	return st.PutConfig(args[0], args[1])
}

// Command git-remote-sqlite is a Git remote helper, invoked by Git itself
// as `git-remote-sqlite <remote-name> <url>`. stdin carries protocol
// commands, stdout carries responses, stderr carries fatal diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/chrislloyd/git-remote-sqlite/internal/gitrepo"
	"github.com/chrislloyd/git-remote-sqlite/internal/logging"
	"github.com/chrislloyd/git-remote-sqlite/internal/remote"
	"github.com/chrislloyd/git-remote-sqlite/internal/sqliteurl"
	"github.com/chrislloyd/git-remote-sqlite/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	log := logging.Default().Named("main")
	defer log.Sync()

	if len(os.Args) != 3 {
		return fmt.Errorf("usage: git-remote-sqlite <remote-name> <url>")
	}
	rawURL := os.Args[2]

	gitDir := os.Getenv("GIT_DIR")
	if gitDir == "" {
		return fmt.Errorf("GIT_DIR must be set in the environment")
	}

	u, err := sqliteurl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid remote url %q: %w", rawURL, err)
	}

	repo, err := gitrepo.Open(gitDir)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	st, err := store.Open(u.Path)
	if err != nil {
		return fmt.Errorf("open database %q: %w", u.Path, err)
	}
	defer st.Close()

	engine := remote.New(st, repo)
	session := remote.NewSession(engine, os.Stdin, os.Stdout)
	return session.Run()
}

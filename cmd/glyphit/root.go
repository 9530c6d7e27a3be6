package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/4thel00z/glyphit/internal"
	"github.com/spf13/cobra"
)

// annotationNoRepo marks commands that also run outside a repository.
const annotationNoRepo = "glyphit/no-repo"

// app is the composition root: one resolved repository, one config, one
// logger and one set of use cases per invocation.
type app struct {
	// prompter overrides the terminal prompter; tests script it.
	prompter internal.Prompter
	terminal func() bool
	getwd    func() (string, error)

	repo    *internal.GitRepository
	cfg     *internal.Config
	log     *internal.Splog
	catalog *internal.Catalog
	uc      *internal.UseCases
}

func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, &app{})
}

func newRootCmd(version string, a *app) *cobra.Command {
	if a.terminal == nil {
		a.terminal = internal.IsTerminal
	}
	if a.getwd == nil {
		a.getwd = os.Getwd
	}

	rootCmd := &cobra.Command{
		Use:   "glyphit",
		Short: "Emoji-powered git commits",
		Long: `Stage files, build emoji-tagged commit messages interactively and push
the current branch to origin.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Annotations:   map[string]string{annotationNoRepo: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	setHelpWithPlugins(rootCmd)

	rootCmd.AddCommand(
		NewInitCmd(a),
		NewAddCmd(a),
		NewCommitCmd(a),
		NewPushCmd(a),
		NewShipCmd(a),
		NewStatusCmd(a),
		NewLogCmd(a),
		NewDiffCmd(a),
		NewEmojisCmd(a),
		NewWatchCmd(a),
	)

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("repo", "", "Repository path (default: discovered from the working directory)")
	cmd.PersistentFlags().String("config", "", "Config file (default: <repo>/.glyphit.yaml, then the user config dir)")
	cmd.PersistentFlags().Bool("debug", false, "Print debug logs (also GLYPHIT_DEBUG=1)")
	cmd.PersistentFlags().String("log-file", "", "Also write logs to this rotating file")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

func (a *app) setup(cmd *cobra.Command) error {
	repoPath, _ := cmd.Flags().GetString("repo")
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	logFile, _ := cmd.Flags().GetString("log-file")
	if os.Getenv("GLYPHIT_DEBUG") != "" {
		debug = true
	}

	resolver := internal.NewResolver()
	if repoPath == "" {
		cwd, err := a.getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		repoPath = cwd
	}

	repo, err := resolver.Open(repoPath)
	switch {
	case err == nil:
		a.repo = repo
	case errors.Is(err, internal.ErrRepositoryNotFound) && cmd.Annotations[annotationNoRepo] == "true":
	default:
		return err
	}

	if configPath != "" {
		a.cfg, err = internal.LoadConfig(configPath)
	} else {
		a.cfg, err = internal.FindConfig(a.root())
	}
	if err != nil {
		return err
	}
	if logFile != "" {
		a.cfg.Log.File = logFile
	}

	a.log, err = internal.NewSplog(cmd.ErrOrStderr(), debug, a.cfg.Log)
	if err != nil {
		return err
	}

	a.catalog, err = internal.LoadCatalog(a.cfg.Catalog)
	if err != nil {
		return err
	}

	var interactive internal.MessageSource
	if p := a.interactivePrompter(); p != nil {
		interactive = internal.NewMessageBuilder(a.catalog, p)
	}

	a.uc = internal.NewUseCases(resolver, interactive, a.log.Logger())
	a.log.Debug("glyphit %s in %s", cmd.Root().Version, a.root())
	return nil
}

func (a *app) interactivePrompter() internal.Prompter {
	if a.prompter != nil {
		return a.prompter
	}
	if !a.terminal() {
		return nil
	}
	return internal.NewSurveyPrompter(a.cfg.Prompt.PageSize)
}

func (a *app) canPrompt() bool {
	return a.prompter != nil || a.terminal()
}

func (a *app) root() string {
	if a.repo == nil {
		return ""
	}
	return a.repo.Root()
}

func (a *app) close() error {
	if a.log == nil {
		return nil
	}
	return a.log.Close()
}

// discoverRoot returns the repository enclosing the working directory, or
// "" outside one.
func discoverRoot() string {
	repo, err := internal.NewResolver().Discover()
	if err != nil {
		return ""
	}
	return repo.Root()
}

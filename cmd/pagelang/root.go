package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/moegirlwiki/pagelang/internal/config"
	"github.com/moegirlwiki/pagelang/internal/pages"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pagelang.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagelang",
		Short: "Set the content language of wiki pages listed in a file",
		Long: `pagelang logs into a MediaWiki site with bot credentials, reads page
titles from a file (one per line, blank lines ignored), and sets each
page's content language via action=setpagelanguage.

Login failures and a missing titles file abort the run. Failures on
individual pages are reported and skipped; they never stop the batch
and never change the exit code.

Credentials come from the environment (or a .env file):
  PAGELANG_USERNAME  bot username from Special:BotPasswords
  PAGELANG_PASSWORD  bot password

Examples:
  # Endpoint and language from flags, titles from pages.txt
  pagelang -e https://wiki.example.org/w/api.php -l es

  # Everything except credentials from a .pagelang file
  pagelang -c /etc/pagelang/.pagelang

Configuration file (.pagelang) example:
  endpoint: https://wiki.example.org/w/api.php
  language: es
  pages_file: titles.txt`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pagelang in current or home directory)")
	cmd.Flags().StringP("endpoint", "e", "",
		"URL of the wiki's api.php (e.g., https://wiki.example.org/w/api.php)")
	cmd.Flags().StringP("lang", "l", "",
		"Language code to set on every page (e.g., es)")
	cmd.Flags().StringP("file", "f", "",
		"Path of the titles file, one page title per line")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each API request")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. Exit code 1 covers login failures and
// a missing titles file; per-page failures leave the exit code at 0.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, pages.ErrFileNotFound) {
			fmt.Fprintln(os.Stderr, "Please create this file and add one page title per line.")
		}
		os.Exit(1)
	}
}

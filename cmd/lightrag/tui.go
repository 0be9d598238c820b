package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"lightrag/internal/domain"
	"lightrag/internal/logger"
	"lightrag/internal/tui"
)

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [paths...]",
		Short: "Index documents, then query them interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, _ := cmd.Flags().GetInt("results")
			modeName, _ := cmd.Flags().GetString("mode")

			s, err := openSession(cmd, args)
			if err != nil {
				return err
			}
			// the TUI owns the terminal from here on
			logger.Reset()

			m := tui.New(s.retriever, tui.Options{
				Limit:           results,
				Mode:            domain.ParseRetrievalMode(modeName),
				DigestSentences: s.cfg.Digest.MaxSentences,
			})
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
	f := cmd.Flags()
	f.IntP("results", "n", 10, "How many results to keep per query")
	f.String("mode", "hybrid", "Initial retrieval mode; Tab cycles modes")
	return cmd
}

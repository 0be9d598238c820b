package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lightrag/internal/domain"
	"lightrag/internal/logger"
	"lightrag/internal/summarizer"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [paths...] --query <text>",
		Short: "Index documents, then rank chunks for a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, _ := cmd.Flags().GetString("query")
			q = strings.TrimSpace(q)
			if q == "" {
				return errors.New("--query is required")
			}
			results, _ := cmd.Flags().GetInt("results")
			modeName, _ := cmd.Flags().GetString("mode")
			withDigest, _ := cmd.Flags().GetBool("digest")
			mode := domain.ParseRetrievalMode(modeName)

			s, err := openSession(cmd, args)
			if err != nil {
				return err
			}

			logger.Info("running query", "query", q, "mode", mode, "top", results)
			res, err := s.retriever.Retrieve(cmd.Context(), q, results, mode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printResults(out, q, res)
			if withDigest && len(res) > 0 {
				fmt.Fprintf(out, "Digest: %s\n", summarizer.New().Digest(res, s.cfg.Digest.MaxSentences))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("query", "q", "", "Query text")
	f.IntP("results", "n", 5, "How many results to show")
	f.String("mode", "hybrid", "Retrieval mode: hybrid | vector | graph (aliases: naive, local, global)")
	f.Bool("digest", false, "Print a short extractive digest of the results")
	return cmd
}

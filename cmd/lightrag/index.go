package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index [paths...]",
		Short: "Index documents and report what was built",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args)
			if err != nil {
				return err
			}
			st := s.retriever.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents into %d chunks (%d entities, %d relations, backend: %s)\n",
				s.documents, st.Chunks, st.Nodes, st.Edges, st.Backend)
			return nil
		},
	}
}

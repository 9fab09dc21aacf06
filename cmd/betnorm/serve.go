package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/betnorm/internal/api/rest"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the review HTTP API",
		Long:  "Serves resolution, the unresolved queue and reference data curation over HTTP until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				listen := d.Config.Server.Addr
				if addr != "" {
					listen = addr
				}

				router := rest.NewRouter(rest.Handlers{
					Resolve: d.ResolveHandler,
					Queue:   d.QueueHandler,
					RefData: d.RefDataHandler,
				}, d.Config.Server, d.Profile, d.Logger)

				return rest.Serve(cmd.Context(), listen, router, d.Logger)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

package main

import (
	"os"

	"github.com/golang/glog"
	"github.com/katalvlaran/mipmh/service"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP solve service",
	Long: `Run the HTTP solve service.

POST /api/v1/solve accepts a JSON model and returns the solver result;
GET /api/v1/stream streams per-loop progress over websocket. Set
DATABASE_URL to archive finished runs in PostgreSQL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default $PORT or 8117)")
}

func runServe(cmd *cobra.Command, args []string) error {
	var store *service.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		s, err := service.ConnectStore(dbURL)
		if err != nil {
			// Solving works without the archive; degrade loudly.
			glog.Warningf("continuing without result store: %v", err)
		} else {
			store = s
			defer store.Close()
			if err := store.InitSchema(); err != nil {
				glog.Warningf("schema init failed: %v", err)
			}
		}
	}

	hub := service.NewHub()
	go hub.Run()

	router := service.SetupRouter(store, hub)

	port := servePort
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8117"
	}

	glog.Infof("solve service listening on :%s", port)
	return router.Run(":" + port)
}

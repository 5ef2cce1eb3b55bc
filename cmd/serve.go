package cmd

import (
	"github.com/emrgen/glossary/internal/config"
	"github.com/emrgen/glossary/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "serve",
		Short: "start the glossary server",
		Run: func(cmd *cobra.Command, args []string) {
			if err := server.Start(config.LoadConfig()); err != nil {
				logrus.Fatalf("server stopped: %v", err)
			}
		},
	}

	return command
}

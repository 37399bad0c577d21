// cmd_pull.go - Pull und Clear Commands
// Hauptfunktionen: newPullCmd, PullHandler, newClearCmd, ClearHandler
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linyu92/sd-webui-segment-anything/api"
)

// initClient erstellt den API-Client aus der Umgebung
func initClient() (*api.Client, error) {
	return api.ClientFromEnvironment()
}

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull MODEL",
		Short: "Download a model checkpoint ahead of time",
		Args:  cobra.ExactArgs(1),
		RunE:  PullHandler,
	}
}

// PullHandler - Laedt einen Checkpoint herunter
func PullHandler(cmd *cobra.Command, args []string) error {
	client, err := initClient()
	if err != nil {
		return err
	}

	fmt.Printf("pulling %s\n", args[0])
	resp, err := client.Pull(cmd.Context(), &api.PullRequest{Model: args[0]})
	if err != nil {
		return err
	}

	fmt.Println(resp.Status)
	return nil
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Unload the cached model and free accelerator memory",
		Args:  cobra.ExactArgs(0),
		RunE:  ClearHandler,
	}
}

// ClearHandler - Entlaedt das gecachte Modell auf dem Server
func ClearHandler(cmd *cobra.Command, _ []string) error {
	client, err := initClient()
	if err != nil {
		return err
	}

	if err := client.ClearCache(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("model cache cleared")
	return nil
}

// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/linyu92/sd-webui-segment-anything/envconfig"
	"github.com/linyu92/sd-webui-segment-anything/version"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// versionHandler gibt die Client-Version aus
func versionHandler(cmd *cobra.Command, _ []string) {
	client, err := initClient()
	if err != nil {
		return
	}

	serverVersion, err := client.Version(cmd.Context())
	if err != nil {
		fmt.Println("Warning: could not connect to a running detection server")
	} else if serverVersion != version.Version {
		fmt.Printf("Warning: client version is %s\n", version.Version)
	}

	if serverVersion != "" {
		fmt.Printf("server version is %s\n", serverVersion)
	}
	fmt.Printf("client version is %s\n", version.Version)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "dino",
		Short:         "GroundingDINO open-vocabulary object detection",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	// Commands erstellen
	serveCmd := newServeCmd()
	detectCmd := newDetectCmd()
	pullCmd := newPullCmd()
	listCmd := newListCmd()
	clearCmd := newClearCmd()

	// Environment-Docs pro Command
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["DINO_HOST"]}

	for _, cmd := range []*cobra.Command{
		detectCmd,
		pullCmd,
		listCmd,
		clearCmd,
	} {
		appendEnvDocs(cmd, envs)
	}

	appendEnvDocs(serveCmd, []envconfig.EnvVar{
		envVars["DINO_DEBUG"],
		envVars["DINO_HOST"],
		envVars["DINO_MODELS"],
		envVars["DINO_ORIGINS"],
		envVars["DINO_LOWVRAM"],
		envVars["DINO_NOINSTALL"],
		envVars["DINO_DEVICE"],
		envVars["DINO_ORT_LIBRARY"],
	})

	rootCmd.AddCommand(
		serveCmd,
		detectCmd,
		pullCmd,
		listCmd,
		clearCmd,
	)

	return rootCmd
}

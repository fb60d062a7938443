package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/roivaz/azure-devops-mcp/internal/config"
	"github.com/roivaz/azure-devops-mcp/internal/logging"
)

func main() {
	root := &cobra.Command{
		Use:          "azdo",
		Short:        "Query Azure DevOps work items and pull requests from the command line",
		SilenceUsage: true,
	}
	config.AddFlags(root.PersistentFlags())
	root.PersistentFlags().StringP("output", "o", "json", "Output format: json or yaml")

	var wiql string
	workItemsCmd := &cobra.Command{
		Use:   "work-items",
		Short: "Run a WIQL query and print id, title and state of each match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(wiql) == "" {
				return fmt.Errorf("--wiql is required")
			}
			client, err := config.NewAzureDevOpsClient(cliLogger())
			if err != nil {
				return err
			}
			items, err := client.QueryWorkItems(cmd.Context(), wiql)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outputFormat(cmd), items)
		},
	}
	workItemsCmd.Flags().StringVar(&wiql, "wiql", "", "WIQL query to run")

	pullRequestsCmd := &cobra.Command{
		Use:   "pull-requests",
		Short: "List pull requests across every repository of the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := config.NewAzureDevOpsClient(cliLogger())
			if err != nil {
				return err
			}
			prs, err := client.ListAllPullRequests(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outputFormat(cmd), prs)
		},
	}

	root.AddCommand(workItemsCmd, pullRequestsCmd)

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("azdo: %v", err)
	}
}

func cliLogger() logging.Logger {
	return logging.New(logging.NewLevelLogger(config.LogLevel())).WithName("azdo")
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return strings.ToLower(format)
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format %q (must be json or yaml)", format)
	}
}

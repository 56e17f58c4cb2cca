// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hubmapconsortium/cedar2ccf/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and export the local instance cache",
	Long: `Cache manages the local SQLite database of instances fetched with
build --cache. Use subcommands to list cached templates or export them.`,
}

// --- list subcommand ---

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached templates",
	RunE:  runCacheList,
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store, err := cache.NewStore(cacheConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	templates, err := store.Templates(context.Background())
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		fmt.Println("Cache is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Template\tInstances\tFetched")
	fmt.Fprintln(w, strings.Repeat("-", 40)+"\t---------\t-------")
	for _, t := range templates {
		fmt.Fprintf(w, "%s\t%d\t%s\n", t.IRI, t.Count, t.FetchedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

// --- export subcommand ---

var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the cache as YAML or JSON",
	Long: `Export writes every cached template with its instances to export.yaml
or export.json in the cache directory.`,
	RunE: runCacheExport,
}

func runCacheExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := cache.NewStore(cacheConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var path string
	switch format {
	case "yaml":
		path, err = store.ExportYAML(ctx)
	case "json":
		path, err = store.ExportJSON(ctx)
	default:
		return fmt.Errorf("unsupported export format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

func init() {
	cacheExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	cacheCmd.AddCommand(cacheListCmd, cacheExportCmd)
	rootCmd.AddCommand(cacheCmd)
}

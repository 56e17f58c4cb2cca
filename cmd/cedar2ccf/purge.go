// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cheggaaa/pb"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hubmapconsortium/cedar2ccf/internal/cedar"
	"github.com/hubmapconsortium/cedar2ccf/internal/secrets"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every CEDAR instance based on the listed templates",
	Long: `Purge deletes, on the CEDAR server, every instance based on each template
listed in the input file. It does not build an ontology. Use it to clear
test data before a fresh import.`,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().StringP("input", "i", "", "file listing template IRIs, one per line")
	purgeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(purgeCmd)
}

// instanceDeleter lists and deletes instances on the server.
type instanceDeleter interface {
	InstanceIDs(ctx context.Context, templateIRI string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// purgeTemplates deletes all instances of each template, drawing a
// progress bar per template on progress. It stops at the first failure.
func purgeTemplates(ctx context.Context, client instanceDeleter, templates []string, progress io.Writer) (int, error) {
	deleted := 0
	for _, tmpl := range templates {
		ids, err := client.InstanceIDs(ctx, tmpl)
		if err != nil {
			return deleted, err
		}
		bar := pb.New(len(ids)).Prefix("Deleting ")
		bar.Output = progress
		bar.Start()
		for _, id := range ids {
			if err := client.Delete(ctx, id); err != nil {
				bar.Finish()
				return deleted, fmt.Errorf("deleting %s: %w", id, err)
			}
			deleted++
			bar.Increment()
		}
		bar.Finish()
		log.WithFields(log.Fields{"template": tmpl, "deleted": len(ids)}).Info("purged template instances")
	}
	return deleted, nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	templates, err := cedar.ReadTemplateIDs(input)
	if err != nil {
		return err
	}

	cc := cedarConfig()
	if cc.APIKey == "" {
		return fmt.Errorf("CEDAR API key required: set CEDAR_API_KEY, --api-key, or .secrets/%s", secrets.CedarAPIKey)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	deleted, err := purgeTemplates(ctx, cedar.NewClient(cc), templates, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d instance(s) from %d template(s)\n", deleted, len(templates))
	return nil
}

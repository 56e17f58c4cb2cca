// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cedar2ccf CLI. It reads metadata
// instances from a CEDAR server or local records files and writes the CCF
// Biological Structure Ontology.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubmapconsortium/cedar2ccf/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets secrets.Secrets

// secretDefault returns fallback if it is set, or the secret value for key otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets.Get(key)
}

// rootCmd is the base command for the cedar2ccf CLI.
var rootCmd = &cobra.Command{
	Use:   "cedar2ccf",
	Short: "Build the CCF Biological Structure Ontology from CEDAR metadata",
	Long: `cedar2ccf converts CEDAR metadata instances describing anatomical
structures, cell types, and their biomarkers into an OWL ontology.

Instances are fetched for every template listed in the input file, or read
from local records files, and written as RDF/XML or N-Triples. Fetched
instances can be cached locally so later builds run offline.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		log.SetLevel(level)

		dir := viper.GetString("secrets_dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.WithFields(log.Fields{"dir": dir, "keys": keys}).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./cedar2ccf.yaml or ~/.config/cedar2ccf/cedar2ccf.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("secrets-dir", ".secrets/", "directory of credential files (file name is the key)")
	pf.String("cedar-url", "", "CEDAR resource server (default https://resource.metadatacenter.org)")
	pf.String("api-key", "", "CEDAR API key (env CEDAR_API_KEY)")
	pf.String("user-id", "", "CEDAR user id (env CEDAR_USER_ID)")
	pf.Duration("timeout", 0, "HTTP request timeout (default 60s)")
	pf.String("cache-dir", "", "directory of the instance cache (default .cedar2ccf)")

	for key, flag := range map[string]string{
		"log_level":      "log-level",
		"secrets_dir":    "secrets-dir",
		"cedar.base_url": "cedar-url",
		"cedar.api_key":  "api-key",
		"cedar.user_id":  "user-id",
		"cedar.timeout":  "timeout",
		"cache.dir":      "cache-dir",
	} {
		viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cedar2ccf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cedar2ccf"))
		}
	}

	viper.SetEnvPrefix("CEDAR2CCF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// The credential variables predate the prefix and are still honored.
	viper.BindEnv("cedar.api_key", "CEDAR2CCF_CEDAR_API_KEY", "CEDAR_API_KEY")
	viper.BindEnv("cedar.user_id", "CEDAR2CCF_CEDAR_USER_ID", "CEDAR_USER_ID")

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Info("using config file")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

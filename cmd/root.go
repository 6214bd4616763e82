// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"os"
	"time"

	"github.com/netsvc-labs/servicegen/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	debugCount  int
	logLevel    string
	envFile     string
	outputDir   string
	templateDir string
	refDataFile string
	operator    string
	timeout     time.Duration
	insecure    bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "servicegen",
	Short:             "generate l2vpn service instances from templates and reference data",
	PersistentPreRunE: preRunFn,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().CountVarP(&debugCount, "debug", "d", "enable debug mode")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info",
		"logging level; one of [trace, debug, info, warning, error, fatal]")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", "",
		"path to the env file with Routing Director settings (default .env if present)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "", "",
		"directory final documents are saved to (default payload)")
	rootCmd.PersistentFlags().StringVarP(&templateDir, "template-dir", "", "",
		"directory with <service_type>_template.{json,yaml} files overriding the built-in templates;"+
			" quote placeholder tokens in YAML templates")
	rootCmd.PersistentFlags().StringVarP(&refDataFile, "refdata", "", "",
		"read reference data from a JSON or YAML file instead of Routing Director")
	_ = rootCmd.MarkPersistentFlagFilename("refdata", "json", "yaml", "yml")
	rootCmd.PersistentFlags().StringVarP(&operator, "operator", "", "",
		"name of the operator customer owning the topology resource")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "", 0,
		"timeout for Routing Director requests, e.g: 30s, 1m")
	rootCmd.PersistentFlags().BoolVarP(&insecure, "insecure", "k", false,
		"skip TLS verification of the Routing Director API")
}

func preRunFn(cmd *cobra.Command, _ []string) error {
	// setting log level
	switch {
	case debugCount > 0:
		log.SetLevel(log.DebugLevel)
	default:
		l, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(l)
	}

	// setting output to stderr, so that json outputs can be parsed
	log.SetOutput(os.Stderr)

	if cmd.Name() == "version" {
		return nil
	}

	var err error
	cfg, err = config.Load(envFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	return cfg.ExpandPaths()
}

// applyFlags overrides the file and environment settings with the flags that were set.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		c.OutputDir = outputDir
	}
	if flags.Changed("template-dir") {
		c.TemplateDir = templateDir
	}
	if flags.Changed("refdata") {
		c.RefDataFile = refDataFile
	}
	if flags.Changed("operator") {
		c.OperatorName = operator
	}
	if flags.Changed("timeout") {
		c.Timeout = timeout
	}
	if flags.Changed("insecure") {
		c.Insecure = insecure
	}
}

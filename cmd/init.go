package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/veridian-labs/vlin/internal"
	"github.com/veridian-labs/vlin/internal/types"
	"github.com/veridian-labs/vlin/lint"
)

// initCmd: vlin init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new linter configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		path := cfgFile
		if path == "" {
			path = ".vlin.yaml"
		}
		fmt.Printf("Configuration file created/updated: %s\n", path)
	},
}

func initConfigurationFile(configurationPath string) error {
	if configurationPath == "" {
		configurationPath = ".vlin.yaml"
	}

	// Seed the file with every registered rule at its default severity.
	config := lint.Config{
		Name:  "vlin",
		Rules: map[string]types.ConfigRule{},
	}
	for _, name := range internal.RuleNames() {
		desc, _ := internal.DescribeRule(name)
		config.Rules[name] = types.ConfigRule{Severity: desc.DefaultSeverity}
	}

	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(configurationPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	if err != nil {
		return err
	}

	return nil
}

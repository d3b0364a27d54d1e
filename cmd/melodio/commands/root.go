package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/melodio/melodio-go/cmd/melodio/cli"
	"github.com/melodio/melodio-go/cmd/melodio/utils"
	"github.com/melodio/melodio-go/common/version"
)

const (
	DefaultConfigDir = "~/"
	ConfigFileName   = ".melodio"
	EnvPrefix        = "melodio"
)

var (
	defaultConfigFilePath = fmt.Sprintf("%s%s.yml", DefaultConfigDir, ConfigFileName)
)

type GlobalConfig struct {
	Debug          bool
	Output         string
	ConfigFilePath string
}

var Global = &GlobalConfig{}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVarP(
		&Global.ConfigFilePath,
		"config",
		"c",
		defaultConfigFilePath,
		"The config file to use when executing commands.")

	RootCmd.PersistentFlags().BoolVarP(
		&Global.Debug,
		"debug",
		"d",
		false,
		"Enable verbose debug output.")

	RootCmd.PersistentFlags().StringVarP(
		&Global.Output,
		"output",
		"o",
		utils.OutputTable,
		"The output format to use: table, json or yaml.")
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cli.Exit(RootCmd.Execute())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if Global.ConfigFilePath != "" && Global.ConfigFilePath != defaultConfigFilePath {
		path, err := utils.HomeifyPath(Global.ConfigFilePath)
		if err != nil {
			cli.Exit(err)
		}
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(ConfigFileName)
		viper.AddConfigPath(DefaultConfigDir)
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	err := viper.ReadInConfig()
	if err == nil {
		Global.ConfigFilePath = viper.ConfigFileUsed()
	} else {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
		default:
			cli.Exit(fmt.Errorf("error loading config file (%s): %s", viper.ConfigFileUsed(), err))
		}
	}
}

var RootCmd = &cobra.Command{
	Use:     "melodio",
	Short:   "Melodio catalog CLI",
	Long:    `Command line access to the Melodio music catalog.`,
	Version: version.VersionToString(),
}

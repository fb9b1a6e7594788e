package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "riskeda",
		Short: "Exploratory analysis of the cervical cancer risk-factor dataset",
		Long: `riskeda loads a risk-factor CSV, audits missingness, repairs the "?"
placeholder columns to numeric, derives the composite risk label from the
four exam-result columns, and ranks the remaining predictors with an
all-relevant (Boruta-style) selection procedure.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./riskeda.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(prepareCmd())
	rootCmd.AddCommand(rankCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig(_ *cobra.Command, _ []string) error {
	viper.SetDefault("data.placeholder", "?")
	viper.SetDefault("data.sentinel", -1.0)
	viper.SetDefault("data.exam_columns", []string{"Hinselmann", "Schiller", "Citology", "Biopsy"})
	viper.SetDefault("data.label", "RiskLevel")
	viper.SetDefault("boruta.max_iterations", 200)
	viper.SetDefault("boruta.seed", 1)
	viper.SetDefault("boruta.estimators", 64)
	viper.SetDefault("boruta.alpha", 0.05)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("riskeda")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/riskeda")
		}
	}
	viper.SetEnvPrefix("RISKEDA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("logging.level"))); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("riskeda", version)
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

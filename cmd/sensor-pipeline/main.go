/*
 * Copyright (C) 2025 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "net/http/pprof"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/utils"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

var (
	buildVersion       = "unknown"
	buildDate          = "unknown"
	cfgFile            string
	logLevel           string
	envPrefix          = "SENSOR_PIPELINE"
	defaultLogFileName = ".sensor-pipeline"
	v                  = viper.New()
)

// rootCmd represents the root command
var rootCmd = &cobra.Command{
	Use:   "sensor-pipeline",
	Short: "Detect, grade, explain and forecast anomalies in multi-sensor environmental data",
}

// Run is assigned in init because run refers back to rootCmd.
func init() {
	rootCmd.Run = func(_ *cobra.Command, _ []string) {
		if err := run(); err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
	}
}

// initConfig use config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal(err)
		}
		// Search config in home directory with name ".sensor-pipeline" (without extension).
		v.AddConfigPath(home)
		v.SetConfigName(defaultLogFileName)
	}

	// Read environment variables that match prefix
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// If a config file is found, read it in.
	cfgErr := v.ReadInConfig()

	bindFlags(rootCmd, v)

	// initialize logger
	initLogger()

	if cfgErr != nil {
		log.Errorf("Read config error: %v", cfgErr)
	}
}

func initLogger() {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		ll = log.ErrorLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}

func dumpConfig(cfg *config.ConfigFileStruct) {
	configAsYAML, err := yaml.Marshal(cfg)
	if err != nil {
		panic(fmt.Sprintf("error dumping config: %v", err))
	}
	fmt.Printf("Using configuration:\n%s\n", configAsYAML)
}

// bindFlags lets the config file and the environment provide the value of every flag not set on
// the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(f.Name))
		_ = v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix))
		if err := v.BindPFlag(f.Name, f); err != nil {
			log.Fatalf("can't bind flag %s: %v", f.Name, err)
		}
	})
}

func initFlags() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is $HOME/%s)", defaultLogFileName))
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warning, error")
	rootCmd.PersistentFlags().String("health.address", "0.0.0.0", "Health server address")
	rootCmd.PersistentFlags().String("health.port", "8080", "Health server port")
	rootCmd.PersistentFlags().Int("profile.port", 0, "Go pprof tool port (default: disabled)")
	rootCmd.PersistentFlags().String("metrics.address", "", "Prometheus /metrics server address")
	rootCmd.PersistentFlags().Int("metrics.port", 0, "Prometheus /metrics server port (default: disabled)")
	rootCmd.PersistentFlags().String("metrics.prefix", "", "Prefix of the operational metric names")
	rootCmd.PersistentFlags().String("metrics.textfile", "", "File receiving the operational metrics when the batch ends")
	rootCmd.PersistentFlags().String("output", "", "Directory of the csv writers, overrides the config file")
	rootCmd.PersistentFlags().StringSlice("only", nil, "Comma separated list of sensors to analyse")
	rootCmd.PersistentFlags().Bool("dump-config", false, "Print the resolved configuration and exit")
}

func main() {
	// Initialize flags (command line parameters)
	initFlags()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Initial log message
	fmt.Printf("Starting %s:\n=====\nBuild version: %s\nBuild date: %s\n\n", filepath.Base(os.Args[0]), buildVersion, buildDate)

	opts, err := config.ParseOptions(v)
	if err != nil {
		return fmt.Errorf("error in parsing options: %w", err)
	}
	cfg, err := config.ParseConfig(v, &opts)
	if err != nil {
		return fmt.Errorf("error in parsing config file: %w", err)
	}
	if opts.DumpConfig {
		dumpConfig(&cfg)
		return nil
	}
	if cfg.LogLevel != "" && !rootCmd.PersistentFlags().Changed("log-level") {
		logLevel = cfg.LogLevel
		initLogger()
	}

	// Setup (threads) exit manager
	utils.SetupElegantExit()

	var promServer *http.Server
	if cfg.MetricsSettings.Port != 0 {
		promServer = &http.Server{}
		go utils.StartPromServer(&cfg.MetricsSettings, prometheus.DefaultGatherer, promServer)
	}

	mainPipeline, err := pipeline.NewPipeline(&cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	if opts.Profile.Port != 0 {
		go func() {
			log.WithField("port", opts.Profile.Port).Info("starting PProf HTTP listener")
			log.WithError(http.ListenAndServe(fmt.Sprintf(":%d", opts.Profile.Port), nil)).
				Error("PProf HTTP listener stopped working")
		}()
	}

	// Start health report server
	operational.NewHealthServer(&opts, mainPipeline.IsAlive(), mainPipeline.IsReady())

	report, runErr := mainPipeline.Run()
	if runErr == nil {
		printSummary(report)
	}

	if cfg.MetricsSettings.TextFile != "" {
		if err := operational.WriteTextFile(prometheus.DefaultGatherer, cfg.MetricsSettings.TextFile); err != nil {
			log.WithError(err).Error("can't write metrics text file")
		}
	}
	if promServer != nil {
		_ = promServer.Shutdown(context.Background())
	}
	if errors.Is(runErr, pipeline.ErrInterrupted) {
		log.Warn("run interrupted")
	}
	log.Debugf("exiting main run")
	return runErr
}

func printSummary(report *pipeline.Report) {
	fmt.Printf("Run %s finished in %s\n", report.RunID, report.Finished.Sub(report.Started).Round(time.Millisecond))
	for _, row := range report.Summary {
		fmt.Printf("%-12s %-4s %5d / %d\n", row.Sensor, row.Method, row.Anomalies, row.Total)
	}
}

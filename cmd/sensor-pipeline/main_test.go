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
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/test"
	"github.com/stretchr/testify/require"
)

func TestTheMain(t *testing.T) {
	if os.Getenv("BE_CRASHER") == "1" {
		os.Args = []string{"sensor-pipeline", "--config", "/nonexistent/sensor-pipeline.yaml"}
		main()
		return
	}
	cmd := exec.Command(os.Args[0], "-test.run=TestTheMain")
	cmd.Env = append(os.Environ(), "BE_CRASHER=1")
	err := cmd.Run()
	var castErr *exec.ExitError
	if errors.As(err, &castErr) && !castErr.Success() {
		return
	}
	t.Fatalf("process ran with err %v, want exit status 1", err)
}

func TestPipelineConfigSetup(t *testing.T) {
	v, _ := test.InitConfig(t, `
log-level: debug
ingest:
  type: synthetic
  synthetic:
    sensors: [S2103]
write:
  - type: csv
    csv:
      directory: /tmp/ignored
`)
	v.Set("output", t.TempDir())
	v.Set("metrics.port", 9102)
	opts, err := config.ParseOptions(v)
	require.NoError(t, err)
	cfg, err := config.ParseConfig(v, &opts)
	require.NoError(t, err)
	require.Equal(t, opts.OutputDirectory, cfg.Write[0].CSV.Directory)
	require.Equal(t, 9102, cfg.MetricsSettings.Port)

	mainPipeline, err := pipeline.NewPipeline(&cfg)
	require.NoError(t, err)
	require.NotNil(t, mainPipeline)
}

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

package pipeline

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/stretchr/testify/require"
)

func TestHealthChecks(t *testing.T) {
	p := &Pipeline{}
	require.NoError(t, p.IsAlive()())
	require.Error(t, p.IsReady()())

	p.setState(stateIngesting)
	require.NoError(t, p.IsAlive()())
	require.Error(t, p.IsReady()())

	p.setState(stateAnalysing)
	require.NoError(t, p.IsReady()())

	p.setState(stateDone)
	require.NoError(t, p.IsAlive()())
	require.NoError(t, p.IsReady()())

	p.setState(stateFailed)
	require.Error(t, p.IsAlive()())
	require.Error(t, p.IsReady()())
}

func TestNewHealthServer(t *testing.T) {
	readyPath := "/ready"
	livePath := "/live"

	tests := []struct {
		name      string
		state     runState
		port      string
		readyCode int
		aliveCode int
	}{
		{name: "pipeline done", state: stateDone, port: "7020", readyCode: 200, aliveCode: 200},
		{name: "pipeline ingesting", state: stateIngesting, port: "7021", readyCode: 503, aliveCode: 200},
		{name: "pipeline failed", state: stateFailed, port: "7022", readyCode: 503, aliveCode: 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{}
			p.setState(tt.state)
			opts := config.Options{Health: config.Health{Port: tt.port, Address: "127.0.0.1"}}
			expectedAddr := fmt.Sprintf("%s:%s", opts.Health.Address, opts.Health.Port)
			server := operational.NewHealthServer(&opts, p.IsAlive(), p.IsReady())
			require.NotNil(t, server)
			require.Equal(t, expectedAddr, server.Address())

			client := &http.Client{}
			readyURL := url.URL{Scheme: "http", Host: expectedAddr, Path: readyPath}
			require.Eventually(t, func() bool {
				resp, err := client.Get(readyURL.String())
				if err != nil {
					return false
				}
				resp.Body.Close()
				return resp.StatusCode == tt.readyCode
			}, 5*time.Second, 100*time.Millisecond)

			liveURL := url.URL{Scheme: "http", Host: expectedAddr, Path: livePath}
			resp, err := client.Get(liveURL.String())
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, tt.aliveCode, resp.StatusCode)
		})
	}
}

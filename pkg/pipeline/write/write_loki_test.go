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

package write

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/test"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const timeout = 5 * time.Second

type fakeEmitter struct {
	mock.Mock
}

func (f *fakeEmitter) Handle(labels model.LabelSet, timestamp time.Time, record string) error {
	// sort alphabetically records just for simplifying testing verification with JSON strings
	recordMap := map[string]interface{}{}
	if err := json.Unmarshal([]byte(record), &recordMap); err != nil {
		panic("expected JSON: " + err.Error())
	}
	recordBytes, err := json.Marshal(recordMap)
	if err != nil {
		panic("error unmarshaling: " + err.Error())
	}
	a := f.Mock.Called(labels, timestamp, string(recordBytes))
	return a.Error(0)
}

func (f *fakeEmitter) Stop() {
	f.Mock.Called()
}

func Test_buildLokiConfig(t *testing.T) {
	var yamlConfig = `
log-level: debug
ingest:
  type: synthetic
write:
  - type: loki
    loki:
      tenantID: theTenant
      url: "https://foo:8888/"
      batchWait: 1m
      minBackoff: 5s
      labels:
        - foo
        - bar
      staticLabels:
        baz: bae
        tiki: taka
`
	v, cfg := test.InitConfig(t, yamlConfig)
	require.NotNil(t, v)

	loki, err := NewWriteLoki(newTestMetrics(), "loki", cfg.Write[0].Loki, "run", clock.NewMock())
	require.NoError(t, err)

	assert.Equal(t, "https://foo:8888/loki/api/v1/push", loki.lokiConfig.URL.String())
	assert.Equal(t, "theTenant", loki.lokiConfig.TenantID)
	assert.Equal(t, time.Minute, loki.lokiConfig.BatchWait)
	assert.Equal(t, 5*time.Second, loki.lokiConfig.BackoffConfig.MinBackoff)

	// Make sure defaults are set
	assert.Equal(t, 102400, loki.lokiConfig.BatchSize)
	assert.Equal(t, 5*time.Minute, loki.lokiConfig.BackoffConfig.MaxBackoff)
	assert.Equal(t, []string{"rca_", "warnings_"}, loki.apiConfig.Batches)
}

func TestLoki_ProcessRecord(t *testing.T) {
	clk := clock.NewMock()
	loki, err := NewWriteLoki(newTestMetrics(), "loki", &api.WriteLoki{
		StaticLabels: map[string]string{"static": "label"},
		Labels:       []string{"feature"},
	}, "run-1", clk)
	require.NoError(t, err)

	fe := fakeEmitter{}
	fe.On("Handle", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	fe.On("Stop").Return()
	loki.client = &fe

	// WHEN it writes a batch, plus another one that is filtered out
	require.NoError(t, loki.Write(rcaBatch()))
	require.NoError(t, loki.Write(&Batch{Name: "forecasts_seasonal", Rows: []config.GenericMap{{"sensor": "S2103"}}}))
	require.NoError(t, loki.Close())

	// THEN it forwards the rows with their time and labels
	fe.AssertNumberOfCalls(t, "Handle", 2)
	fe.AssertCalled(t, "Handle", model.LabelSet{
		"batch":   "rca_S2103",
		"run_id":  "run-1",
		"sensor":  "S2103",
		"feature": "CO2",
		"static":  "label",
	}, t0, `{"report":"[2024-03-01T10:00:00Z] RCA S2103: CO2 (z=3.25) -> probable main cause","sensor":"S2103","time":"2024-03-01T10:00:00Z","z":3.25}`)
	fe.AssertCalled(t, "Handle", model.LabelSet{
		"batch":   "rca_S2103",
		"run_id":  "run-1",
		"sensor":  "S2103",
		"feature": "Humidity",
		"static":  "label",
	}, t0.Add(10*time.Minute), `{"report":"second","sensor":"S2103","time":"2024-03-01T10:10:00Z","z":null}`)
	fe.AssertCalled(t, "Stop")
}

func TestLoki_Push(t *testing.T) {
	entries := make(chan test.LokiEntry, 10)
	server := httptest.NewServer(test.FakeLokiHandler(entries))
	defer server.Close()

	loki, err := NewWriteLoki(newTestMetrics(), "loki", &api.WriteLoki{URL: server.URL, BatchWait: "10ms"}, "run-1", clock.New())
	require.NoError(t, err)
	require.NoError(t, loki.Write(rcaBatch()))
	require.NoError(t, loki.Close())

	var received []test.LokiEntry
	for len(received) < 2 {
		select {
		case e := <-entries:
			received = append(received, e)
		case <-time.After(timeout):
			require.Fail(t, "timeout while waiting for loki entries")
		}
	}
	assert.Contains(t, received[0].Labels, `batch="rca_S2103"`)
	assert.Contains(t, received[0].Labels, `sensor="S2103"`)
	assert.Equal(t, "CO2", received[0].Row["feature"])
	assert.Equal(t, "second", received[1].Row["report"])
}

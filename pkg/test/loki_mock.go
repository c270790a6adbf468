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

package test

import (
	"io"
	"net/http"

	"github.com/golang/snappy"
	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/loki-client-go/pkg/logproto"
	log "github.com/sirupsen/logrus"
)

// LokiEntry is a decoded line pushed to the fake Loki service, with its stream labels.
type LokiEntry struct {
	Labels string
	Row    map[string]interface{}
}

// FakeLokiHandler is a fake loki HTTP service that decodes the snappy/protobuf messages
// and forwards them for later assertions
func FakeLokiHandler(entries chan<- LokiEntry) http.HandlerFunc {
	hlog := log.WithField("component", "LokiHandler")
	return func(rw http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost && req.Method != http.MethodPut {
			rw.WriteHeader(http.StatusBadRequest)
			return
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			hlog.WithError(err).Error("can't read request body")
			rw.WriteHeader(http.StatusBadRequest)
			return
		}
		decodedBody, err := snappy.Decode([]byte{}, body)
		if err != nil {
			hlog.WithError(err).Error("can't decode snappy body")
			rw.WriteHeader(http.StatusBadRequest)
			return
		}
		pr := logproto.PushRequest{}
		if err := pr.Unmarshal(decodedBody); err != nil {
			hlog.WithError(err).Error("can't decode protobuf body")
			rw.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, stream := range pr.Streams {
			for _, entry := range stream.Entries {
				row := map[string]interface{}{}
				if err := jsoniter.Unmarshal([]byte(entry.Line), &row); err != nil {
					hlog.WithError(err).Error("expecting JSON line")
					rw.WriteHeader(http.StatusBadRequest)
					return
				}
				entries <- LokiEntry{Labels: stream.Labels, Row: row}
			}
		}
		rw.WriteHeader(http.StatusOK)
	}
}

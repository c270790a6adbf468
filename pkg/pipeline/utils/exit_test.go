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

package utils

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_SetupElegantExit(t *testing.T) {
	SetupElegantExit()
	require.Equal(t, 0, len(registeredChannels))
	ch1 := ExitChannel()
	require.Equal(t, 1, len(registeredChannels))
	ch2 := ExitChannel()
	require.Equal(t, 2, len(registeredChannels))

	select {
	case <-ch1:
		require.Fail(t, "channel should be open")
	default:
	}

	// send signal and see that it is propagated
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	for _, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			require.Fail(t, "channel should have been closed")
		}
	}
}

// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func Test_Formatter_01(t *testing.T) {
	entry := &log.Entry{
		Level:   log.WarnLevel,
		Time:    time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Message: "pattern not found\n",
		Data:    log.Fields{SubsystemKey: "splice", "rule": "eye", "class": "a/B"},
	}
	//
	line, err := (&Formatter{}).Format(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	//
	expected := "[WARNING] [2024-03-01 12:30:00] [splice]: pattern not found class=a/B rule=eye\n"
	if string(line) != expected {
		t.Errorf("unexpected line: %q", string(line))
	}
}

func Test_Formatter_02(t *testing.T) {
	entry := &log.Entry{
		Level:   log.ErrorLevel,
		Time:    time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Message: "fault",
		Data:    log.Fields{},
	}
	//
	line, _ := (&Formatter{TimestampFormat: time.Kitchen}).Format(entry)
	//
	if string(line) != "[ERROR] [12:30PM] [main]: fault\n" {
		t.Errorf("unexpected line: %q", string(line))
	}
}

func Test_Logger_01(t *testing.T) {
	var buf bytes.Buffer
	//
	logger := log.New()
	logger.SetFormatter(&Formatter{})
	logger.SetOutput(&buf)
	logger.SetLevel(log.InfoLevel)
	//
	logger.WithField(SubsystemKey, "splice").WithError(errors.New("boom")).Debug("hidden")
	logger.WithField(SubsystemKey, "splice").Info("shown")
	//
	if !bytes.Contains(buf.Bytes(), []byte("[INFO]")) || bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func Test_Configure_01(t *testing.T) {
	var buf bytes.Buffer
	// Only the first configuration takes effect.
	first := Configure(log.WarnLevel, &buf)
	second := Configure(log.DebugLevel, nil)
	//
	if !first || second {
		t.Errorf("unexpected configuration results: %t, %t", first, second)
	}
	//
	if log.GetLevel() != log.WarnLevel {
		t.Errorf("level overwritten: %s", log.GetLevel())
	}
	//
	For("splice").Info("suppressed")
	For("splice").Warn("emitted")
	//
	if bytes.Contains(buf.Bytes(), []byte("suppressed")) || !bytes.Contains(buf.Bytes(), []byte("[splice]: emitted")) {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

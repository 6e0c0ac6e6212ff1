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
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// SubsystemKey is the field under which the subsystem tag of an entry is held.
const SubsystemKey = "subsystem"

// TimestampFormat is the default rendering of entry timestamps.
const TimestampFormat = "2006-01-02 15:04:05"

var configure sync.Once

// Configure sets the minimum level and output of the standard logger.  Only
// the first call has any effect; it returns false for every later call.
func Configure(level log.Level, out io.Writer) bool {
	applied := false
	//
	configure.Do(func() {
		log.SetFormatter(&Formatter{})
		log.SetLevel(level)
		//
		if out != nil {
			log.SetOutput(out)
		}
		//
		applied = true
	})
	//
	return applied
}

// For returns an entry on the standard logger tagged with a given subsystem.
func For(subsystem string) *log.Entry {
	return log.WithField(SubsystemKey, subsystem)
}

// Formatter renders each entry as a single line of the form
//
//	[LEVEL] [timestamp] [subsystem]: message key=value ...
//
// Entries without a subsystem are tagged "main".  Remaining fields are
// appended in key order.
type Formatter struct {
	// TimestampFormat overrides the default timestamp layout when non-empty.
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *log.Entry) ([]byte, error) {
	var (
		buf       bytes.Buffer
		layout    = f.TimestampFormat
		subsystem = "main"
		keys      []string
	)
	//
	if layout == "" {
		layout = TimestampFormat
	}
	//
	for k, v := range entry.Data {
		if k == SubsystemKey {
			subsystem = fmt.Sprint(v)
		} else {
			keys = append(keys, k)
		}
	}
	//
	sort.Strings(keys)
	//
	fmt.Fprintf(&buf, "[%s] [%s] [%s]: %s", strings.ToUpper(entry.Level.String()),
		entry.Time.Format(layout), subsystem, strings.TrimRight(entry.Message, "\n"))
	//
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Data[k])
	}
	//
	buf.WriteByte('\n')
	//
	return buf.Bytes(), nil
}

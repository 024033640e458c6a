// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package run

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/poiesic/answerit/core"
)

// ProgressLog is the durable answer output: a CSV file with one row per
// answered question. Rows are flushed as they are appended, and on open the
// existing rows are scanned so a resumed run can skip what is already done.
type ProgressLog struct {
	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
	done map[string]struct{}
}

// OpenProgressLog opens or creates the answer CSV at path. A new file gets
// a header row; an existing file is scanned for completed qids and then
// opened for appending.
func OpenProgressLog(path string) (*ProgressLog, error) {
	done, existed, err := scanCompleted(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open progress log: %w", err)
	}

	log := &ProgressLog{
		file: file,
		w:    csv.NewWriter(file),
		done: done,
	}

	if !existed {
		if err := log.writeRow([]string{"qid", "answer"}); err != nil {
			file.Close()
			return nil, err
		}
	}
	return log, nil
}

// scanCompleted reads the qids already present in an existing log.
func scanCompleted(path string) (map[string]struct{}, bool, error) {
	done := make(map[string]struct{})

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return done, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read progress log: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse progress log %s: %w", path, err)
	}

	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		done[row[0]] = struct{}{}
	}
	return done, true, nil
}

// Done reports whether qid already has a row.
func (l *ProgressLog) Done(qid string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.done[qid]
	return ok
}

// DoneCount returns the number of completed questions.
func (l *ProgressLog) DoneCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.done)
}

// Append writes one answer row and flushes it to disk immediately.
func (l *ProgressLog) Append(record core.ProgressRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.writeRowLocked([]string{record.QID, record.Answer}); err != nil {
		return err
	}
	l.done[record.QID] = struct{}{}
	return nil
}

// Close flushes and closes the underlying file.
func (l *ProgressLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()
		return fmt.Errorf("failed to flush progress log: %w", err)
	}
	return l.file.Close()
}

func (l *ProgressLog) writeRow(row []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeRowLocked(row)
}

func (l *ProgressLog) writeRowLocked(row []string) error {
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("failed to write progress row: %w", err)
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return fmt.Errorf("failed to flush progress row: %w", err)
	}
	return nil
}

// TimingLog records per-question wall time next to the answer. It is a
// fresh file each run; unlike the progress log it is diagnostic output, not
// resumption state.
type TimingLog struct {
	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
}

// CreateTimingLog creates (or truncates) the timing CSV at path.
func CreateTimingLog(path string) (*TimingLog, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create timing log: %w", err)
	}

	log := &TimingLog{file: file, w: csv.NewWriter(file)}
	if err := log.w.Write([]string{"qid", "answer", "time"}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write timing header: %w", err)
	}
	log.w.Flush()
	if err := log.w.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to flush timing header: %w", err)
	}
	return log, nil
}

// Append writes one timing row and flushes it.
func (l *TimingLog) Append(record core.ProgressRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	row := []string{record.QID, record.Answer, strconv.FormatFloat(record.Elapsed.Seconds(), 'f', 2, 64)}
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("failed to write timing row: %w", err)
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return fmt.Errorf("failed to flush timing row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (l *TimingLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()
		return fmt.Errorf("failed to flush timing log: %w", err)
	}
	return l.file.Close()
}

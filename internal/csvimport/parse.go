// Package csvimport bulk-loads sections, boxes and tasks into a practice
// sheet from CSV. Rows are grouped into a nested structure first and then
// reconciled against existing rows by natural key inside one transaction,
// so importing the same file twice changes nothing.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column names expected in the header row.
const (
	ColLevel        = "level"
	ColSectionOrder = "section_order"
	ColBoxNumber    = "box_number"
	ColBoxTitle     = "box_title"
	ColTaskOrder    = "task_order"
	ColTaskText     = "task_text"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RowError reports a numeric cell that could not be parsed. One RowError
// aborts the whole import.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q", e.Line, e.Column, e.Value)
}

func (e *RowError) Unwrap() error { return e.Err }

// TaskRow is one task entry of a box bucket.
type TaskRow struct {
	Order int
	Text  string
}

// BoxGroup collects the tasks of one box_number within a section bucket.
// Title comes from the first row that opened the bucket.
type BoxGroup struct {
	Number int
	Title  string
	Tasks  []TaskRow
}

// SectionGroup collects the boxes of one (level, section_order) pair.
// Boxes keep the order in which their numbers first appeared.
type SectionGroup struct {
	Level string
	Order int
	Boxes []*BoxGroup
}

// TaskCount returns the number of task rows in the group.
func (g *SectionGroup) TaskCount() int {
	n := 0
	for _, b := range g.Boxes {
		n += len(b.Tasks)
	}
	return n
}

type sectionKey struct {
	level string
	order int
}

// Parse reads CSV with a header row and groups its rows by section and
// box, preserving first-appearance order at both levels. Rows whose level
// or task_text is blank are skipped. Numeric columns are parsed before
// that check, and a malformed number fails the whole parse. Numeric
// columns missing from the header default to 1.
func Parse(r io.Reader) ([]*SectionGroup, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var groups []*SectionGroup
	sections := make(map[sectionKey]*SectionGroup)
	boxes := make(map[*SectionGroup]map[int]*BoxGroup)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		cell := func(col string) (string, bool) {
			i, ok := index[col]
			if !ok {
				return "", false
			}
			if i >= len(record) {
				return "", true
			}
			return record[i], true
		}
		number := func(col string) (int, error) {
			raw, present := cell(col)
			if !present {
				return 1, nil
			}
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return 0, &RowError{Line: line, Column: col, Value: raw, Err: err}
			}
			return n, nil
		}

		sectionOrder, err := number(ColSectionOrder)
		if err != nil {
			return nil, err
		}
		boxNumber, err := number(ColBoxNumber)
		if err != nil {
			return nil, err
		}
		taskOrder, err := number(ColTaskOrder)
		if err != nil {
			return nil, err
		}

		level, _ := cell(ColLevel)
		level = strings.TrimSpace(level)
		taskText, _ := cell(ColTaskText)
		taskText = strings.TrimSpace(taskText)
		boxTitle, _ := cell(ColBoxTitle)
		boxTitle = strings.TrimSpace(boxTitle)

		if level == "" || taskText == "" {
			continue
		}

		key := sectionKey{level: level, order: sectionOrder}
		sec, ok := sections[key]
		if !ok {
			sec = &SectionGroup{Level: level, Order: sectionOrder}
			sections[key] = sec
			boxes[sec] = make(map[int]*BoxGroup)
			groups = append(groups, sec)
		}

		box, ok := boxes[sec][boxNumber]
		if !ok {
			box = &BoxGroup{Number: boxNumber, Title: boxTitle}
			boxes[sec][boxNumber] = box
			sec.Boxes = append(sec.Boxes, box)
		}

		box.Tasks = append(box.Tasks, TaskRow{Order: taskOrder, Text: taskText})
	}

	return groups, nil
}

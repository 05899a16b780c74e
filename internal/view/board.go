package view

import (
	"fmt"

	dom "taskflow/internal/domain"
)

type Mode string

const (
	ModeBoard Mode = "board"
	ModeList  Mode = "list"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBoard, ModeList:
		return Mode(s), nil
	case "":
		return ModeBoard, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

type Column struct {
	Status dom.TaskStatus `json:"status"`
	Tasks  []dom.Task     `json:"tasks"`
}

// Board groups tasks into one column per status, in board order. Tasks keep
// their relative order within a column and every column is present.
func Board(tasks []dom.Task) []Column {
	cols := make([]Column, len(dom.TaskStatuses))
	index := make(map[dom.TaskStatus]int, len(dom.TaskStatuses))
	for i, s := range dom.TaskStatuses {
		cols[i] = Column{Status: s, Tasks: []dom.Task{}}
		index[s] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}

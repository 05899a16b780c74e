package store

import (
	"context"

	dom "taskflow/internal/domain"
	"taskflow/internal/remote"
)

// TaskStore is the CRUD facade for tasks.
type TaskStore struct {
	col remote.Collection
	now Clock
}

// NewTaskStore returns a TaskStore over db. A nil clock uses the system clock.
func NewTaskStore(db remote.Database, now Clock) *TaskStore {
	if now == nil {
		now = systemClock
	}
	return &TaskStore{col: db.Collection(TasksCollection), now: now}
}

// List returns every task, newest creation first.
func (s *TaskStore) List(ctx context.Context) ([]dom.Task, error) {
	recs, err := s.col.Select(ctx, remote.Query{}.OrderBy("createdAt", true))
	if err != nil {
		return nil, classify(err, "list tasks")
	}
	return decodeTasks(recs)
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (dom.Task, error) {
	recs, err := s.col.Select(ctx, remote.Query{}.Where(remote.Eq("id", id)))
	if err != nil {
		return dom.Task{}, classify(err, "get task")
	}
	if len(recs) == 0 {
		return dom.Task{}, classify(ErrNotFound, "get task "+id)
	}
	t, err := decodeTask(recs[0])
	return t, classify(err, "get task")
}

func (s *TaskStore) Create(ctx context.Context, in dom.TaskInput, creatorID string) (dom.Task, error) {
	if err := checkTaskInput(in); err != nil {
		return dom.Task{}, classify(err, "create task")
	}
	rec, err := s.col.Insert(ctx, encodeTaskInput(in, creatorID, s.now()))
	if err != nil {
		return dom.Task{}, classify(err, "create task")
	}
	t, err := decodeTask(rec)
	return t, classify(err, "create task")
}

// Update writes only the fields set in p and stamps a fresh update time.
func (s *TaskStore) Update(ctx context.Context, id string, p dom.TaskPatch) (dom.Task, error) {
	if err := checkTaskPatch(p); err != nil {
		return dom.Task{}, classify(err, "update task")
	}
	rec, err := s.col.Update(ctx, id, encodeTaskPatch(p, s.now()))
	if err != nil {
		return dom.Task{}, classify(err, "update task")
	}
	t, err := decodeTask(rec)
	return t, classify(err, "update task")
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return classify(s.col.Delete(ctx, id), "delete task")
}

func decodeTasks(recs []remote.Record) ([]dom.Task, error) {
	list := make([]dom.Task, 0, len(recs))
	for _, rec := range recs {
		t, err := decodeTask(rec)
		if err != nil {
			return nil, classify(err, "list tasks")
		}
		list = append(list, t)
	}
	return list, nil
}

package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	dom "taskflow/internal/domain"
	"taskflow/internal/notify"
)

// TaskStore is the subset of the task store the coordinator needs.
type TaskStore interface {
	List(ctx context.Context) ([]dom.Task, error)
	Create(ctx context.Context, in dom.TaskInput, creatorID string) (dom.Task, error)
	Update(ctx context.Context, id string, p dom.TaskPatch) (dom.Task, error)
	Delete(ctx context.Context, id string) error
}

// Tasks coordinates task mutations for one workspace.
type Tasks struct {
	*Collection[dom.Task]
	store    TaskStore
	notifier notify.Notifier
	log      *slog.Logger
}

func NewTasks(store TaskStore, n notify.Notifier, log *slog.Logger) *Tasks {
	if log == nil {
		log = slog.Default()
	}
	return &Tasks{Collection: newCollection[dom.Task](), store: store, notifier: n, log: log}
}

// Load replaces the held tasks with the store's current list.
func (t *Tasks) Load(ctx context.Context) error {
	list, err := t.store.List(ctx)
	if err != nil {
		t.log.Warn("load tasks", "error", err)
		notify.Error(t.notifier, "Failed to load tasks")
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	t.replace(list)
	return nil
}

// Reset drops every held task, e.g. after sign-out.
func (t *Tasks) Reset() { t.replace(nil) }

func (t *Tasks) Create(ctx context.Context, in dom.TaskInput, creatorID string) (dom.Task, error) {
	task, err := t.store.Create(ctx, in, creatorID)
	if err != nil {
		t.log.Warn("create task", "error", err)
		notify.Error(t.notifier, "Failed to create task")
		return dom.Task{}, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	t.insert(task)
	notify.Success(t.notifier, "Task created successfully")
	return task, nil
}

func (t *Tasks) Update(ctx context.Context, id string, p dom.TaskPatch) (dom.Task, error) {
	task, err := t.dispatch(ctx, id, p)
	if err != nil {
		t.log.Warn("update task", "id", id, "error", err)
		notify.Error(t.notifier, "Failed to update task")
		return dom.Task{}, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	notify.Success(t.notifier, "Task updated successfully")
	return task, nil
}

// ChangeStatus is the single-field update used by the board and list views.
func (t *Tasks) ChangeStatus(ctx context.Context, id string, status dom.TaskStatus) (dom.Task, error) {
	task, err := t.dispatch(ctx, id, dom.TaskPatch{Status: dom.Set(status)})
	if err != nil {
		t.log.Warn("change task status", "id", id, "status", status, "error", err)
		notify.Error(t.notifier, "Failed to update status")
		return dom.Task{}, fmt.Errorf("%w: %w", ErrStatusChangeFailed, err)
	}
	notify.Success(t.notifier, "Status updated")
	return task, nil
}

// ChangeStatuses moves several tasks to status one by one. It returns how
// many succeeded and the joined failures of the rest.
func (t *Tasks) ChangeStatuses(ctx context.Context, ids []string, status dom.TaskStatus) (int, error) {
	var errs []error
	done := 0
	for _, id := range ids {
		if _, err := t.dispatch(ctx, id, dom.TaskPatch{Status: dom.Set(status)}); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		done++
	}
	if len(errs) > 0 {
		t.log.Warn("bulk status change", "status", status, "failed", len(errs), "ok", done)
		notify.Error(t.notifier, "Failed to update status")
		return done, fmt.Errorf("%w: %w", ErrStatusChangeFailed, errors.Join(errs...))
	}
	notify.Success(t.notifier, "Status updated")
	return done, nil
}

func (t *Tasks) Delete(ctx context.Context, id string) error {
	if err := t.store.Delete(ctx, id); err != nil {
		t.log.Warn("delete task", "id", id, "error", err)
		notify.Error(t.notifier, "Failed to delete task")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	t.remove(id)
	notify.Success(t.notifier, "Task deleted successfully")
	return nil
}

// dispatch sends an update and reconciles the server's answer. A stale answer
// is returned to the caller but not applied.
func (t *Tasks) dispatch(ctx context.Context, id string, p dom.TaskPatch) (dom.Task, error) {
	gen := t.begin(id)
	task, err := t.store.Update(ctx, id, p)
	if err != nil {
		return dom.Task{}, err
	}
	if !t.upsert(gen, task) {
		t.log.Debug("discarded stale task response", "id", id)
	}
	return task, nil
}

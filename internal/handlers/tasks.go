package handlers

import (
	"net/http"
	"strings"

	dom "taskflow/internal/domain"
	"taskflow/internal/dto"
	"taskflow/internal/view"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct{}

func NewTaskHandler() *TaskHandler {
	return &TaskHandler{}
}

// List godoc
// @Summary      List tasks through the current filters
// @Description  Query parameters replace the workspace filters; repeat or comma-separate values.
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        status    query  []string  false  "Statuses"
// @Param        priority  query  []string  false  "Priorities"
// @Param        assignee  query  []string  false  "Assignee IDs"
// @Param        q         query  string    false  "Search title and description"
// @Param        view      query  string    false  "board or list"
// @Param        refresh   query  bool      false  "Reload every collection first"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      400  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	w := workspaceOf(c)
	if c.Query("refresh") == "true" {
		if err := w.Reload(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
	}
	if v, ok := c.GetQuery("view"); ok {
		mode, err := view.ParseMode(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		w.SetMode(mode)
	}

	criteria := w.TaskView.Criteria()
	if hasFilterParams(c) {
		var err error
		criteria, err = parseCriteria(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	items := w.TaskView.SetCriteria(criteria)
	c.JSON(http.StatusOK, taskList(w.Mode(), criteria, items))
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dom.Task
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w := workspaceOf(c)
	t, err := w.Tasks.Create(c.Request.Context(), req.Input(), userOf(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	w.Nav.CloseForm()
	c.JSON(http.StatusCreated, t)
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dom.Task
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := req.Patch()
	if p.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	w := workspaceOf(c)
	t, err := w.Tasks.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	w.Nav.CloseForm()
	c.JSON(http.StatusOK, t)
}

// ChangeStatus godoc
// @Summary      Move a task to another status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string  true  "Task ID"
// @Param        body  body      dto.StatusRequest  true  "New status"
// @Success      200   {object}  dom.Task
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id}/status [post]
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := workspaceOf(c).Tasks.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ChangeStatuses godoc
// @Summary      Move several tasks to one status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.BulkStatusRequest  true  "Tasks and status"
// @Success      200   {object}  dto.BulkStatusResponse
// @Failure      207   {object}  dto.BulkStatusResponse
// @Failure      400   {object}  map[string]string
// @Router       /tasks/status [post]
func (h *TaskHandler) ChangeStatuses(c *gin.Context) {
	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := workspaceOf(c).Tasks.ChangeStatuses(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		c.JSON(http.StatusMultiStatus, dto.BulkStatusResponse{Updated: n, Error: "status change failed"})
		return
	}
	c.JSON(http.StatusOK, dto.BulkStatusResponse{Updated: n})
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     CookieAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := workspaceOf(c).Tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func taskList(mode view.Mode, criteria dom.FilterCriteria, items []dom.Task) dto.ListTasksResponse {
	resp := dto.ListTasksResponse{
		View:    string(mode),
		Filters: criteria,
		Total:   len(items),
		Items:   items,
	}
	if mode == view.ModeBoard {
		resp.Columns = view.Board(items)
	}
	return resp
}

func hasFilterParams(c *gin.Context) bool {
	for _, k := range []string{"status", "priority", "assignee", "q"} {
		if _, ok := c.GetQuery(k); ok {
			return true
		}
	}
	return false
}

func parseCriteria(c *gin.Context) (dom.FilterCriteria, error) {
	var out dom.FilterCriteria
	for _, s := range splitValues(c.QueryArray("status")) {
		st := dom.TaskStatus(s)
		if !st.Valid() {
			return dom.FilterCriteria{}, &paramError{"status", s}
		}
		out.Statuses = append(out.Statuses, st)
	}
	for _, s := range splitValues(c.QueryArray("priority")) {
		p := dom.TaskPriority(s)
		if !p.Valid() {
			return dom.FilterCriteria{}, &paramError{"priority", s}
		}
		out.Priorities = append(out.Priorities, p)
	}
	out.AssigneeIDs = splitValues(c.QueryArray("assignee"))
	out.Query = c.Query("q")
	return out, nil
}

func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

type paramError struct {
	name, value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + " " + `"` + e.value + `"`
}

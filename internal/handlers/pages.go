package handlers

import (
	"net/http"

	dom "taskflow/internal/domain"
	"taskflow/internal/dto"
	"taskflow/internal/navigation"
	"taskflow/internal/session"
	"taskflow/internal/workspace"

	"github.com/gin-gonic/gin"
)

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Page godoc
// @Summary      Render a page
// @Description  Cold load of /, /articles, /news or /profile. The path becomes the current history entry.
// @Tags         pages
// @Produce      json
// @Success      200  {object}  dto.PageResponse
// @Router       /{page} [get]
func (h *PageHandler) Page(c *gin.Context) {
	w := workspaceOf(c)
	w.History.Reset(navigation.Normalize(c.Request.URL.Path))
	w.Nav.PopState()
	c.JSON(http.StatusOK, pageResponse(w))
}

// Navigation godoc
// @Summary      Current navigation state
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  dto.PageResponse
// @Router       /navigation [get]
func (h *PageHandler) Navigation(c *gin.Context) {
	c.JSON(http.StatusOK, pageResponse(workspaceOf(c)))
}

// Navigate godoc
// @Summary      Navigate in-app
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Param        body  body      dto.NavigateRequest  true  "Page or path"
// @Success      200   {object}  dto.PageResponse
// @Failure      400   {object}  map[string]string
// @Router       /navigation [post]
func (h *PageHandler) Navigate(c *gin.Context) {
	var req dto.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w := workspaceOf(c)
	switch {
	case req.Page != "":
		w.Nav.Navigate(req.Page)
	case req.Path != "":
		w.Nav.NavigatePath(req.Path)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "page or path required"})
		return
	}
	c.JSON(http.StatusOK, pageResponse(w))
}

// Back godoc
// @Summary      Browser back
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  dto.PageResponse
// @Router       /navigation/back [post]
func (h *PageHandler) Back(c *gin.Context) {
	w := workspaceOf(c)
	w.Nav.Back()
	c.JSON(http.StatusOK, pageResponse(w))
}

// Forward godoc
// @Summary      Browser forward
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  dto.PageResponse
// @Router       /navigation/forward [post]
func (h *PageHandler) Forward(c *gin.Context) {
	w := workspaceOf(c)
	w.Nav.Forward()
	c.JSON(http.StatusOK, pageResponse(w))
}

// OpenForm godoc
// @Summary      Open the create or edit dialog of the current page
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Param        body  body      dto.OpenFormRequest  false  "Edit target; empty to create"
// @Success      200   {object}  navigation.State
// @Router       /forms/open [post]
func (h *PageHandler) OpenForm(c *gin.Context) {
	var req dto.OpenFormRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	w := workspaceOf(c)
	if req.EditingID == "" {
		c.JSON(http.StatusOK, w.Nav.OpenCreate())
		return
	}
	c.JSON(http.StatusOK, w.Nav.OpenEdit(req.EditingID))
}

// CloseForm godoc
// @Summary      Close any open dialog
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  navigation.State
// @Router       /forms/close [post]
func (h *PageHandler) CloseForm(c *gin.Context) {
	c.JSON(http.StatusOK, workspaceOf(c).Nav.CloseForm())
}

func pageResponse(w *workspace.Workspace) dto.PageResponse {
	resp := dto.PageResponse{
		Session:    w.Session.Current(),
		Navigation: w.Nav.State(),
	}
	if resp.Session.State != session.Authenticated || resp.Session.User == nil {
		return resp
	}
	switch resp.Navigation.Page {
	case dom.PageTasks:
		items := w.TaskView.Visible()
		resp.Data = taskList(w.Mode(), w.TaskView.Criteria(), items)
	case dom.PageArticles:
		items := w.ArticleView.Visible()
		resp.Data = dto.ListArticlesResponse{Query: w.ArticleView.Criteria(), Total: len(items), Items: items}
	case dom.PageNews:
		items := w.NewsView.Visible()
		resp.Data = dto.ListArticlesResponse{Query: w.NewsView.Criteria(), Total: len(items), Items: items}
	case dom.PageProfile:
		resp.Data = dto.ProfileResponse{
			User:         *resp.Session.User,
			TaskCount:    w.Tasks.Len(),
			ArticleCount: w.Articles.Len(),
		}
	}
	return resp
}

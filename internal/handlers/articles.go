package handlers

import (
	"net/http"

	dom "taskflow/internal/domain"
	"taskflow/internal/dto"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct{}

func NewArticleHandler() *ArticleHandler {
	return &ArticleHandler{}
}

// List godoc
// @Summary      List the caller's articles
// @Tags         articles
// @Produce      json
// @Security     CookieAuth
// @Param        q    query     string  false  "Search title, subtitle, summary and body"
// @Success      200  {object}  dto.ListArticlesResponse
// @Router       /articles [get]
func (h *ArticleHandler) List(c *gin.Context) {
	w := workspaceOf(c)
	q := w.ArticleView.Criteria()
	if v, ok := c.GetQuery("q"); ok {
		q = v
	}
	items := w.ArticleView.SetCriteria(q)
	c.JSON(http.StatusOK, dto.ListArticlesResponse{Query: q, Total: len(items), Items: items})
}

// News godoc
// @Summary      List the public news feed
// @Tags         articles
// @Produce      json
// @Security     CookieAuth
// @Param        q    query     string  false  "Search"
// @Success      200  {object}  dto.ListArticlesResponse
// @Router       /news [get]
func (h *ArticleHandler) News(c *gin.Context) {
	w := workspaceOf(c)
	if c.Query("refresh") == "true" {
		if err := w.News.Load(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
	}
	q := w.NewsView.Criteria()
	if v, ok := c.GetQuery("q"); ok {
		q = v
	}
	items := w.NewsView.SetCriteria(q)
	c.JSON(http.StatusOK, dto.ListArticlesResponse{Query: q, Total: len(items), Items: items})
}

// Create godoc
// @Summary      Create an article
// @Description  Only owners and editors may flag news; news is always public.
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateArticleRequest  true  "Article"
// @Success      201   {object}  dom.Article
// @Failure      400   {object}  map[string]string
// @Router       /articles [post]
func (h *ArticleHandler) Create(c *gin.Context) {
	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w := workspaceOf(c)
	a, err := w.Articles.Create(c.Request.Context(), req.Input(), userOf(c))
	if err != nil {
		writeError(c, err)
		return
	}
	h.refreshNews(c, a)
	w.Nav.CloseForm()
	c.JSON(http.StatusCreated, a)
}

// Update godoc
// @Summary      Update an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string  true  "Article ID"
// @Param        body  body      dom.ArticlePatch  true  "Partial update"
// @Success      200   {object}  dom.Article
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /articles/{id} [patch]
func (h *ArticleHandler) Update(c *gin.Context) {
	var p dom.ArticlePatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w := workspaceOf(c)
	a, err := w.Articles.Update(c.Request.Context(), c.Param("id"), p, userOf(c))
	if err != nil {
		writeError(c, err)
		return
	}
	h.refreshNews(c, a)
	w.Nav.CloseForm()
	c.JSON(http.StatusOK, a)
}

// Delete godoc
// @Summary      Delete an article
// @Tags         articles
// @Security     CookieAuth
// @Param        id   path  string  true  "Article ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /articles/{id} [delete]
func (h *ArticleHandler) Delete(c *gin.Context) {
	w := workspaceOf(c)
	id := c.Param("id")
	_, wasNews := w.News.Get(id)
	if err := w.Articles.Delete(c.Request.Context(), id, userOf(c)); err != nil {
		writeError(c, err)
		return
	}
	if wasNews {
		_ = w.News.Load(c.Request.Context())
	}
	c.Status(http.StatusNoContent)
}

// refreshNews reloads the feed when a change may have altered it.
func (h *ArticleHandler) refreshNews(c *gin.Context, a dom.Article) {
	w := workspaceOf(c)
	if _, held := w.News.Get(a.ID); held || a.IsNews {
		_ = w.News.Load(c.Request.Context())
	}
}

package domain

type Page string

const (
	PageTasks    Page = "tasks"
	PageArticles Page = "articles"
	PageNews     Page = "news"
	PageProfile  Page = "profile"
)

func (p Page) Valid() bool {
	switch p {
	case PageTasks, PageArticles, PageNews, PageProfile:
		return true
	}
	return false
}

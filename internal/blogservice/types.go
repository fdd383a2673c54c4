package blogservice

import (
	"database/sql"
	"time"

	"github.com/sbelyaev/blogsite/internal/common"
)

// PostDateFormat is the long-form publication date written at creation time
// and preserved verbatim on every edit.
const PostDateFormat = "January 2, 2006"

type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	// Body is stored as CKEditor-produced HTML, script tags stripped.
	Body       string    `json:"body"`
	ImgURL     string    `json:"img_url"`
	Date       string    `json:"date"`
	AuthorID   int       `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type Comment struct {
	ID         int       `json:"id"`
	Text       string    `json:"text"`
	AuthorID   int       `json:"author_id"`
	AuthorName string    `json:"author_name"`
	PostID     int       `json:"post_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}

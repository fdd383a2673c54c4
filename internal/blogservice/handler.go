package blogservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/sbelyaev/blogsite/internal/common"
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: c}
}

type CreatePostRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	ImgURL   string `json:"img_url"`
	AuthorID int    `json:"author_id"`
}

// CreatePost stamps the post with the server clock formatted as a long-form
// date. The author is always the current identity, supplied by the handler.
func (s *BlogService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateSubtitle(v, req.Subtitle)
	validateBody(v, req.Body)
	validateImgURL(v, req.ImgURL)
	validateInt(v, req.AuthorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post := Post{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     sanitizeHTML(req.Body),
		ImgURL:   req.ImgURL,
		Date:     time.Now().Format(PostDateFormat),
		AuthorID: req.AuthorID,
	}

	if err := s.m.insert(ctx, &post); err != nil {
		return nil, err
	}

	s.invalidatePost(post.ID)

	return &post, nil
}

// GetPost returns a single post by its ID.
func (s *BlogService) GetPost(ctx context.Context, id int) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, ErrRecordNotFound
	}

	if cached, ok := s.c.Get(common.CacheKeyPost(id)); ok {
		return cached.(*Post), nil
	}

	post, err := s.m.getPostById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPost(id), post)

	return post, nil
}

// GetPosts returns all posts in stable insertion order.
func (s *BlogService) GetPosts(ctx context.Context) ([]Post, error) {
	if cached, ok := s.c.Get(common.CacheKeyAllPosts()); ok {
		return cached.([]Post), nil
	}

	posts, err := s.m.getPosts(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyAllPosts(), posts)

	return posts, nil
}

type UpdatePostRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	ImgURL   string `json:"img_url"`
}

// UpdatePost overwrites title, subtitle, body and cover image in place. The
// publication date and the author reference are never touched.
func (s *BlogService) UpdatePost(ctx context.Context, id int, req *UpdatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateSubtitle(v, req.Subtitle)
	validateBody(v, req.Body)
	validateImgURL(v, req.ImgURL)
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post := Post{
		ID:       id,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     sanitizeHTML(req.Body),
		ImgURL:   req.ImgURL,
	}

	if err := s.m.updatePost(ctx, &post); err != nil {
		return nil, err
	}

	s.invalidatePost(id)

	return &post, nil
}

// DeletePost removes the post together with all of its comments. The cascade
// runs inside the single DELETE statement, so concurrent readers either see
// the post with its comments or neither.
func (s *BlogService) DeletePost(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return ErrRecordNotFound
	}

	if err := s.m.deletePost(ctx, id); err != nil {
		return err
	}

	s.invalidatePost(id)

	return nil
}

// AddComment persists a comment authored by the current identity under the
// given post. A missing post is a clean ErrRecordNotFound.
func (s *BlogService) AddComment(ctx context.Context, postID, authorID int, text string) (*Comment, error) {
	v := common.NewValidator()
	validateCommentText(v, text)
	validateInt(v, postID, "post_id")
	validateInt(v, authorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comment := Comment{
		Text:     sanitizeHTML(text),
		AuthorID: authorID,
		PostID:   postID,
	}

	if err := s.m.insertComment(ctx, &comment); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPostComments(postID))

	return &comment, nil
}

// GetComments returns the comments of a post with commenter names.
func (s *BlogService) GetComments(ctx context.Context, postID int) ([]Comment, error) {
	v := common.NewValidator()
	validateInt(v, postID, "post_id")
	if !v.Valid() {
		return nil, ErrRecordNotFound
	}

	if cached, ok := s.c.Get(common.CacheKeyPostComments(postID)); ok {
		return cached.([]Comment), nil
	}

	comments, err := s.m.getCommentsByPostId(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPostComments(postID), comments)

	return comments, nil
}

func (s *BlogService) invalidatePost(id int) {
	s.c.Delete(common.CacheKeyPost(id))
	s.c.Delete(common.CacheKeyPostComments(id))
	s.c.Delete(common.CacheKeyAllPosts())
}

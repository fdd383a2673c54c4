package main

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sbelyaev/blogsite/internal/blogservice"
)

func TestRegisterHandler(t *testing.T) {
	app, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	t.Run("successful registration logs the user in and redirects home", func(t *testing.T) {
		c := ts.newClient(t)

		res := c.postForm(t, "/register", registerForm("a@x.com", "pw1", "Alice"))
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))

		var role string
		assert.NoError(t, db.QueryRow("SELECT role FROM users WHERE email = $1", "a@x.com").Scan(&role))
		assert.Equal(t, "admin", role)

		// The session cookie must already work: the new-post form is
		// admin-only and the first registered account is the admin.
		res = c.get(t, "/new-post")
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "make-post", readBody(t, res))
	})

	t.Run("duplicate email flashes and redirects to login", func(t *testing.T) {
		c := ts.newClient(t)

		res := c.postForm(t, "/register", registerForm("a@x.com", "pw9", "Mallory"))
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/login", res.Header.Get("Location"))

		// Exactly one row with that email, and the original name.
		var count int
		assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", "a@x.com").Scan(&count))
		assert.Equal(t, 1, count)

		var name string
		assert.NoError(t, db.QueryRow("SELECT name FROM users WHERE email = $1", "a@x.com").Scan(&name))
		assert.Equal(t, "Alice", name)
	})

	t.Run("invalid form re-renders the register view", func(t *testing.T) {
		c := ts.newClient(t)

		res := c.postForm(t, "/register", registerForm("not-an-email", "pw1", "Eve"))
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
		assert.Equal(t, "register", readBody(t, res))
	})
}

func TestLoginHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	register := ts.newClient(t)
	res := register.postForm(t, "/register", registerForm("a@x.com", "pw1", "Alice"))
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)

	testCases := []struct {
		name         string
		email        string
		password     string
		wantLocation string
	}{
		{
			name:         "correct credentials",
			email:        "a@x.com",
			password:     "pw1",
			wantLocation: "/",
		},
		{
			name:         "wrong password",
			email:        "a@x.com",
			password:     "pw2",
			wantLocation: "/login",
		},
		{
			name:         "unknown email",
			email:        "nobody@x.com",
			password:     "pw1",
			wantLocation: "/login",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := ts.newClient(t)

			res := c.postForm(t, "/login", url.Values{"email": {tc.email}, "password": {tc.password}})
			assert.Equal(t, http.StatusSeeOther, res.StatusCode)
			assert.Equal(t, tc.wantLocation, res.Header.Get("Location"))
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	c := ts.newClient(t)
	res := c.postForm(t, "/register", registerForm("a@x.com", "pw1", "Alice"))
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)

	res = c.get(t, "/logout")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))

	// The admin surface must be gone with the session.
	res = c.get(t, "/new-post")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// TestBlogScenario walks the whole admin/user story: Alice registers first
// and becomes the admin, Bob is a regular user, only Alice can manage posts,
// Bob can comment, and deleting a post takes its comments with it.
func TestBlogScenario(t *testing.T) {
	app, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	alice := ts.newClient(t)
	bob := ts.newClient(t)
	anonymous := ts.newClient(t)

	res := alice.postForm(t, "/register", registerForm("a@x.com", "pw1", "Alice"))
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)

	res = bob.postForm(t, "/register", registerForm("b@x.com", "pw2", "Bob"))
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)

	// Bob may not create posts, and the rejected attempt must leave no post.
	res = bob.postForm(t, "/new-post", postForm("T", "S", "B", "http://img"))
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	var count int
	assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM blog_posts").Scan(&count))
	assert.Equal(t, 0, count)

	// Anonymous callers get the unauthenticated rejection instead.
	res = anonymous.postForm(t, "/new-post", postForm("T", "S", "B", "http://img"))
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Alice creates the post; it carries today's long-form date.
	res = alice.postForm(t, "/new-post", postForm("T", "S", "B", "http://img"))
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))

	var (
		postID int
		date   string
	)
	assert.NoError(t, db.QueryRow("SELECT id, date FROM blog_posts WHERE title = $1", "T").Scan(&postID, &date))
	assert.Equal(t, time.Now().Format(blogservice.PostDateFormat), date)

	// A duplicate title is rejected and re-prompts the form.
	res = alice.postForm(t, "/new-post", postForm("T", "other", "other", "http://img"))
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, "make-post", readBody(t, res))

	// Anyone can read the post.
	res = anonymous.get(t, fmt.Sprintf("/post/%d", postID))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "post", readBody(t, res))

	// An anonymous comment attempt is sent to the login page.
	res = anonymous.postForm(t, fmt.Sprintf("/post/%d", postID), url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/login", res.Header.Get("Location"))

	// Bob comments.
	res = bob.postForm(t, fmt.Sprintf("/post/%d", postID), url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, fmt.Sprintf("/post/%d", postID), res.Header.Get("Location"))

	assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments WHERE post_id = $1", postID).Scan(&count))
	assert.Equal(t, 1, count)

	// Bob may not edit or delete.
	res = bob.postForm(t, fmt.Sprintf("/edit-post/%d", postID), postForm("T2", "S2", "B2", "http://img2"))
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = bob.get(t, fmt.Sprintf("/delete/%d", postID))
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Alice edits; the publication date and author survive.
	res = alice.postForm(t, fmt.Sprintf("/edit-post/%d", postID), postForm("T2", "S2", "B2", "http://img2"))
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, fmt.Sprintf("/post/%d", postID), res.Header.Get("Location"))

	var (
		title, editedDate string
		authorID          int
	)
	assert.NoError(t, db.QueryRow("SELECT title, date, author_id FROM blog_posts WHERE id = $1", postID).Scan(&title, &editedDate, &authorID))
	assert.Equal(t, "T2", title)
	assert.Equal(t, date, editedDate)

	var aliceID int
	assert.NoError(t, db.QueryRow("SELECT id FROM users WHERE email = $1", "a@x.com").Scan(&aliceID))
	assert.Equal(t, aliceID, authorID)

	// Alice deletes; the post and Bob's comment are both gone.
	res = alice.get(t, fmt.Sprintf("/delete/%d", postID))
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))

	res = anonymous.get(t, fmt.Sprintf("/post/%d", postID))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments WHERE post_id = $1", postID).Scan(&count))
	assert.Equal(t, 0, count)

	// Deleting again is a 404.
	res = alice.get(t, fmt.Sprintf("/delete/%d", postID))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestShowPostHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	c := ts.newClient(t)

	t.Run("unknown post", func(t *testing.T) {
		res := c.get(t, "/post/9999")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("bad id", func(t *testing.T) {
		res := c.get(t, "/post/not-a-number")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestStaticPages(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	c := ts.newClient(t)

	for _, tc := range []struct {
		path string
		view string
	}{
		{path: "/", view: "index"},
		{path: "/about", view: "about"},
		{path: "/contact", view: "contact"},
		{path: "/register", view: "register"},
		{path: "/login", view: "login"},
	} {
		t.Run(tc.path, func(t *testing.T) {
			res := c.get(t, tc.path)
			assert.Equal(t, http.StatusOK, res.StatusCode)
			assert.Equal(t, tc.view, readBody(t, res))
		})
	}
}

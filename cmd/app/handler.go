package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sbelyaev/blogsite/internal/blogservice"
	"github.com/sbelyaev/blogsite/internal/common"
	"github.com/sbelyaev/blogsite/internal/userservice"
)

func (app *application) getAllPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.blogService.GetPosts(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := app.newTemplateData(w, r)
	data.Posts = posts

	app.render(w, r, http.StatusOK, "index", data)
}

func (app *application) aboutHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "about", app.newTemplateData(w, r))
}

func (app *application) contactHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "contact", app.newTemplateData(w, r))
}

func (app *application) registerFormHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "register", app.newTemplateData(w, r))
}

func (app *application) registerHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(w, r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var (
		email    = r.PostForm.Get("email")
		password = r.PostForm.Get("password")
		name     = r.PostForm.Get("name")
	)

	user, err := app.userService.Register(r.Context(), email, password, name)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.flashAndRedirect(w, r, "You've already signed up with that email, log in instead!", "/login")
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			data := app.newTemplateData(w, r)
			data.FormErrors = validationErr.Errors
			data.FormValues = map[string]string{"email": email, "name": name}
			app.render(w, r, http.StatusUnprocessableEntity, "register", data)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Registration implies login.
	if err := app.sessions.Login(w, r, user.ID); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) loginFormHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "login", app.newTemplateData(w, r))
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(w, r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var (
		email    = r.PostForm.Get("email")
		password = r.PostForm.Get("password")
	)

	user, err := app.userService.Authenticate(r.Context(), email, password)
	if err != nil {
		switch {
		// Unknown email and wrong password read the same on purpose.
		case errors.Is(err, userservice.ErrInvalidCredentials):
			app.flashAndRedirect(w, r, "Incorrect email or password", "/login")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := app.sessions.Login(w, r, user.ID); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Logout(w, r); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) showPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	comments, err := app.blogService.GetComments(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := app.newTemplateData(w, r)
	data.Post = post
	data.Comments = comments

	app.render(w, r, http.StatusOK, "post", data)
}

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if err := app.parseForm(w, r); err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	_, err = app.blogService.AddComment(r.Context(), id, user.ID, r.PostForm.Get("text"))
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.renderPostWithErrors(w, r, id, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

// renderPostWithErrors re-prompts the comment form on the post page.
func (app *application) renderPostWithErrors(w http.ResponseWriter, r *http.Request, id int, formErrors map[string]string) {
	post, err := app.blogService.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	comments, err := app.blogService.GetComments(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := app.newTemplateData(w, r)
	data.Post = post
	data.Comments = comments
	data.FormErrors = formErrors

	app.render(w, r, http.StatusUnprocessableEntity, "post", data)
}

func (app *application) newPostFormHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "make-post", app.newTemplateData(w, r))
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	req := blogservice.CreatePostRequest{
		Title:    r.PostForm.Get("title"),
		Subtitle: r.PostForm.Get("subtitle"),
		Body:     r.PostForm.Get("body"),
		ImgURL:   r.PostForm.Get("img_url"),
		AuthorID: user.ID,
	}

	_, err := app.blogService.CreatePost(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrDuplicateTitle):
			app.renderMakePostWithErrors(w, r, &req, false, map[string]string{"title": "a post with this title already exists"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.renderMakePostWithErrors(w, r, &req, false, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) editPostFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	data := app.newTemplateData(w, r)
	data.Post = post
	data.IsEdit = true
	data.FormValues = map[string]string{
		"title":    post.Title,
		"subtitle": post.Subtitle,
		"body":     post.Body,
		"img_url":  post.ImgURL,
	}

	app.render(w, r, http.StatusOK, "make-post", data)
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if err := app.parseForm(w, r); err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	req := blogservice.UpdatePostRequest{
		Title:    r.PostForm.Get("title"),
		Subtitle: r.PostForm.Get("subtitle"),
		Body:     r.PostForm.Get("body"),
		ImgURL:   r.PostForm.Get("img_url"),
	}

	_, err = app.blogService.UpdatePost(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrDuplicateTitle):
			create := blogservice.CreatePostRequest{Title: req.Title, Subtitle: req.Subtitle, Body: req.Body, ImgURL: req.ImgURL}
			app.renderMakePostWithErrors(w, r, &create, true, map[string]string{"title": "a post with this title already exists"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			create := blogservice.CreatePostRequest{Title: req.Title, Subtitle: req.Subtitle, Body: req.Body, ImgURL: req.ImgURL}
			app.renderMakePostWithErrors(w, r, &create, true, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

func (app *application) renderMakePostWithErrors(w http.ResponseWriter, r *http.Request, req *blogservice.CreatePostRequest, isEdit bool, formErrors map[string]string) {
	data := app.newTemplateData(w, r)
	data.IsEdit = isEdit
	data.FormErrors = formErrors
	data.FormValues = map[string]string{
		"title":    req.Title,
		"subtitle": req.Subtitle,
		"body":     req.Body,
		"img_url":  req.ImgURL,
	}

	app.render(w, r, http.StatusUnprocessableEntity, "make-post", data)
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.blogService.DeletePost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

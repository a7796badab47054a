// Package views renders the feed, profile and post pages on the server.
package views

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/isdelr/birdgotwit-be/internal/auth"
	"github.com/isdelr/birdgotwit-be/internal/models"
	"github.com/isdelr/birdgotwit-be/internal/services"
	"github.com/rs/zerolog/log"
)

const (
	siteTitle       = "Bird Go Twit"
	siteDescription = "Explain yourself with emojis"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the pages.
type Options struct {
	SignInURL     string
	PostMaxLength int
}

// Pages serves the HTML views.
type Pages struct {
	profiles  services.ProfileServiceProvider
	posts     services.PostServiceProvider
	opts      Options
	templates map[string]*template.Template
}

// page is the data every template receives.
type page struct {
	Title       string
	Description string
	State       State

	Session   *auth.Session
	Viewer    *models.User
	SignInURL string
	MaxLength int

	Draft        string
	ComposeError string

	Entries []models.FeedEntry
	Profile *models.User
	Entry   *models.FeedEntry
}

// New parses the templates and returns the page handlers.
func New(profiles services.ProfileServiceProvider, posts services.PostServiceProvider, opts Options) (*Pages, error) {
	funcs := template.FuncMap{
		"fromNow": func(t time.Time) string { return humanize.Time(t) },
	}

	templates := make(map[string]*template.Template)
	for _, name := range []string{"feed", "profile", "post"} {
		tmpl, err := template.New(name + ".page").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}

	return &Pages{profiles: profiles, posts: posts, opts: opts, templates: templates}, nil
}

// Routes mounts the pages on r.
func (p *Pages) Routes(r chi.Router) {
	r.Get("/", p.Feed)
	r.Post("/compose", p.Compose)
	r.Get("/post/{id}", p.Post)
	r.Get("/{slug}", p.Profile)
}

// Feed renders the home page.
func (p *Pages) Feed(w http.ResponseWriter, r *http.Request) {
	p.renderFeed(w, r, http.StatusOK, "", "")
}

// Compose creates a post from the home page form and sends the browser back to a fresh feed.
func (p *Pages) Compose(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, p.opts.SignInURL, http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	content := r.PostForm.Get("content")
	_, err := p.posts.Create(r.Context(), session, content)
	if err != nil {
		var invalid *services.ValidationError
		if errors.As(err, &invalid) {
			p.renderFeed(w, r, http.StatusBadRequest, content, invalid.First("content"))
			return
		}
		log.Error().Err(err).Str("user_id", session.UserID).Msg("Failed to create post from form")
		p.renderFeed(w, r, http.StatusInternalServerError, content, "Failed to post! Please try again later.")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *Pages) renderFeed(w http.ResponseWriter, r *http.Request, status int, draft, composeErr string) {
	session := auth.SessionFromContext(r.Context())
	entries, err := p.posts.GetAll(r.Context())

	data := p.newPage(session, siteTitle, siteDescription)
	data.State = Resolve(err, len(entries))
	data.Entries = entries
	data.Draft = draft
	data.ComposeError = composeErr
	if session != nil && session.Username != "" {
		if viewer, err := p.profiles.GetUserByUsername(r.Context(), session.Username); err == nil {
			data.Viewer = &viewer
		}
	}

	if data.State == StateError && status == http.StatusOK {
		log.Error().Err(err).Msg("Failed to load feed")
		status = http.StatusInternalServerError
	}
	p.render(w, "feed", status, data)
}

// Profile renders /@username. Slugs without the "@" marker are not profiles.
func (p *Pages) Profile(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	username := strings.TrimPrefix(slug, "@")
	if username == slug || username == "" {
		http.NotFound(w, r)
		return
	}

	data := p.newPage(auth.SessionFromContext(r.Context()), username, "Profile page")

	user, err := p.profiles.GetUserByUsername(r.Context(), username)
	if err != nil {
		data.State = Resolve(err, 0)
		p.render(w, "profile", statusFor(data.State, err), data)
		return
	}
	data.Profile = &user

	entries, err := p.posts.GetByAuthor(r.Context(), user.ID)
	data.State = Resolve(err, len(entries))
	data.Entries = entries
	p.render(w, "profile", statusFor(data.State, err), data)
}

// Post renders a single post.
func (p *Pages) Post(w http.ResponseWriter, r *http.Request) {
	data := p.newPage(auth.SessionFromContext(r.Context()), siteTitle, siteDescription)

	entry, err := p.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		data.State = Resolve(err, 0)
		p.render(w, "post", statusFor(data.State, err), data)
		return
	}
	data.State = StateLoaded
	data.Entry = &entry
	data.Title = "@" + entry.Author.Username + " on " + siteTitle
	p.render(w, "post", http.StatusOK, data)
}

func (p *Pages) newPage(session *auth.Session, title, description string) page {
	return page{
		Title:       title,
		Description: description,
		Session:     session,
		SignInURL:   p.opts.SignInURL,
		MaxLength:   p.opts.PostMaxLength,
	}
}

func statusFor(state State, err error) int {
	switch state {
	case StateNotFound:
		return http.StatusNotFound
	case StateError:
		log.Error().Err(err).Msg("Failed to load page data")
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func (p *Pages) render(w http.ResponseWriter, name string, status int, data page) {
	var buf bytes.Buffer
	if err := p.templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

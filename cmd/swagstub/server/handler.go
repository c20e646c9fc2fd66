package server

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/thesyncim/swaglabs/pkg/swaglabs"
)

// sessionCookie carries the logged-in username, as on the real shop.
const sessionCookie = "session-username"

const msgLoginRequired = "Epic sadface: You can only access '/inventory.html' when you are logged in."

// password is shared by every account.
const password = "secret_sauce"

var accounts = map[string]bool{
	"standard_user":           true,
	"locked_out_user":         false,
	"problem_user":            true,
	"performance_glitch_user": true,
	"error_user":              true,
	"visual_user":             true,
}

type handler struct {
	logger    *log.Logger
	aboutURL  string
	loginTmpl *template.Template
	invTmpl   *template.Template
}

func newHandler(logger *log.Logger, aboutURL string) (*handler, error) {
	loginTmpl, err := template.New("login").Parse(loginPage)
	if err != nil {
		return nil, fmt.Errorf("parse login page: %w", err)
	}
	invTmpl, err := template.New("inventory").Parse(inventoryPage)
	if err != nil {
		return nil, fmt.Errorf("parse inventory page: %w", err)
	}
	if aboutURL == "" {
		aboutURL = "/about"
	}
	return &handler{logger: logger, aboutURL: aboutURL, loginTmpl: loginTmpl, invTmpl: invTmpl}, nil
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, http.StatusOK, "", "")
}

// Authenticate applies the shop's login rules and returns the banner text,
// empty on success.
func Authenticate(username, pass string) string {
	switch {
	case username == "":
		return swaglabs.MsgUsernameRequired
	case pass == "":
		return swaglabs.MsgPasswordRequired
	}
	active, known := accounts[username]
	switch {
	case !known || pass != password:
		return swaglabs.MsgNoMatch
	case !active:
		return swaglabs.MsgLockedOut
	}
	return ""
}

func (h *handler) renderLogin(w http.ResponseWriter, status int, username, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := struct{ Username, Error string }{username, msg}
	if err := h.loginTmpl.Execute(w, data); err != nil {
		h.logger.Error("render login", "err", err)
	}
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("user-name")
	if msg := Authenticate(username, r.PostForm.Get("password")); msg != "" {
		h.renderLogin(w, http.StatusOK, username, msg)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: username, Path: "/"})
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

func (h *handler) inventory(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || !accounts[c.Value] {
		h.renderLogin(w, http.StatusOK, "", msgLoginRequired)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ AboutURL string }{h.aboutURL}
	if err := h.invTmpl.Execute(w, data); err != nil {
		h.logger.Error("render inventory", "err", err)
	}
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) about(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(aboutPage))
}

package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hobbytrack/internal/account"
)

type profileModel struct {
	account *account.Service
	l       *slog.Logger
	st      styles
	width   int
	height  int

	profile  account.Profile
	loggedIn bool

	formActive bool
	form       *huh.Form
	formType   string // "login", "signup", "edit", "avatar"

	// Form field pointers (survive value copies)
	formEmail    *string
	formPassword *string
	formFirst    *string
	formLast     *string
	formMiddle   *string
	formPhone    *string
	formPath     *string
}

func newProfileModel(acct *account.Service, l *slog.Logger, st styles) profileModel {
	email, pass, first, last, middle, phone, path := "", "", "", "", "", "", ""
	return profileModel{
		account:      acct,
		l:            l.With("view", "profile"),
		st:           st,
		formEmail:    &email,
		formPassword: &pass,
		formFirst:    &first,
		formLast:     &last,
		formMiddle:   &middle,
		formPhone:    &phone,
		formPath:     &path,
	}
}

func (p *profileModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type profileDataMsg struct {
	profile  account.Profile
	loggedIn bool
	err      error
}

func (p profileModel) refresh() tea.Cmd {
	return func() tea.Msg {
		prof, err := p.account.Profile()
		if errors.Is(err, account.ErrNotAuthenticated) {
			return profileDataMsg{}
		}
		return profileDataMsg{profile: prof, loggedIn: err == nil, err: err}
	}
}

func (p profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case profileDataMsg:
		if msg.err != nil {
			return p, failCmd(p.l, "Load profile", msg.err)
		}
		p.profile = msg.profile
		p.loggedIn = msg.loggedIn
		return p, nil

	case tea.KeyMsg:
		if !p.loggedIn {
			switch {
			case key.Matches(msg, keys.Login), key.Matches(msg, keys.Enter):
				return p.showLoginForm()
			case key.Matches(msg, keys.SignUp):
				return p.showSignUpForm()
			}
			return p, nil
		}

		switch {
		case key.Matches(msg, keys.Enter):
			return p.showEditForm()
		case key.Matches(msg, keys.Avatar):
			return p.showAvatarForm()
		case key.Matches(msg, keys.Logout):
			if err := p.account.Logout(); err != nil {
				return p, failCmd(p.l, "Log out", err)
			}
			p.loggedIn = false
			p.profile = account.Profile{}
			return p, tea.Batch(statusCmd("Logged out"), sessionChanged)
		}
	}
	return p, nil
}

func sessionChanged() tea.Msg { return sessionChangedMsg{} }

func (p profileModel) newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(p.st.formTheme()).
		WithShowHelp(true).
		WithShowErrors(true)
}

func (p profileModel) showLoginForm() (profileModel, tea.Cmd) {
	*p.formPassword = ""
	p.formType = "login"

	p.form = p.newForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(p.formEmail).Validate(required("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(p.formPassword),
		),
	)
	p.formActive = true
	return p, p.form.Init()
}

func (p profileModel) showSignUpForm() (profileModel, tea.Cmd) {
	*p.formPassword = ""
	*p.formFirst = ""
	*p.formLast = ""
	p.formType = "signup"

	p.form = p.newForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(p.formEmail).Validate(required("email")),
			huh.NewInput().
				Title("Password").
				Description(fmt.Sprintf("At least %d characters", account.MinPasswordLen)).
				EchoMode(huh.EchoModePassword).
				Value(p.formPassword).
				Validate(minLength(account.MinPasswordLen)),
			huh.NewInput().Title("First name").Value(p.formFirst).Validate(required("first name")),
			huh.NewInput().Title("Last name").Value(p.formLast).Validate(required("last name")),
		),
	)
	p.formActive = true
	return p, p.form.Init()
}

func (p profileModel) showEditForm() (profileModel, tea.Cmd) {
	*p.formFirst = p.profile.FirstName
	*p.formLast = p.profile.LastName
	*p.formMiddle = p.profile.MiddleName
	*p.formPhone = p.profile.Phone
	p.formType = "edit"

	p.form = p.newForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(p.formFirst).Validate(required("first name")),
			huh.NewInput().Title("Last name").Value(p.formLast).Validate(required("last name")),
			huh.NewInput().Title("Middle name").Value(p.formMiddle),
			huh.NewInput().Title("Phone").Value(p.formPhone),
		),
	)
	p.formActive = true
	return p, p.form.Init()
}

func (p profileModel) showAvatarForm() (profileModel, tea.Cmd) {
	*p.formPath = ""
	p.formType = "avatar"

	p.form = p.newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Image path").
				Description(".jpg, .jpeg or .png").
				Value(p.formPath).
				Validate(required("path")),
		),
	)
	p.formActive = true
	return p, p.form.Init()
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func minLength(n int) func(string) error {
	return func(s string) error {
		if len([]rune(s)) < n {
			return fmt.Errorf("at least %d characters", n)
		}
		return nil
	}
}

func (p profileModel) updateForm(msg tea.Msg) (profileModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		return p.submitForm()
	}
	return p, cmd
}

func (p profileModel) submitForm() (profileModel, tea.Cmd) {
	switch p.formType {
	case "login":
		_, err := p.account.Login(*p.formEmail, *p.formPassword)
		*p.formPassword = ""
		if err != nil {
			return p, failCmd(p.l, "Log in", err)
		}
		return p, tea.Batch(statusCmd("Logged in"), p.refresh(), sessionChanged)

	case "signup":
		_, err := p.account.SignUp(*p.formEmail, *p.formPassword, *p.formFirst, *p.formLast)
		*p.formPassword = ""
		if err != nil {
			return p, failCmd(p.l, "Sign up", err)
		}
		return p, tea.Batch(statusCmd("Account created"), p.refresh(), sessionChanged)

	case "edit":
		if err := p.account.UpdateProfile(*p.formFirst, *p.formLast, *p.formMiddle, *p.formPhone); err != nil {
			return p, failCmd(p.l, "Save profile", err)
		}
		return p, tea.Batch(statusCmd("Profile saved"), p.refresh())

	case "avatar":
		if _, err := p.account.UploadAvatar(strings.TrimSpace(*p.formPath)); err != nil {
			return p, failCmd(p.l, "Upload avatar", err)
		}
		return p, tea.Batch(statusCmd("Avatar updated"), p.refresh())
	}
	return p, nil
}

func (p profileModel) view() string {
	w := p.width - 4
	st := p.st

	if p.formActive && p.form != nil {
		title := st.title.Render(p.formTitle())
		return st.panel.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()),
		)
	}

	if !p.loggedIn {
		return st.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			st.title.Render("Profile"),
			"",
			st.muted.Render("You are not signed in."),
			"",
			st.muted.Render("  l: log in  n: sign up"),
		))
	}

	initials := account.Initials(p.profile)
	if initials == "" {
		initials = "?"
	}
	avatar := st.avatar.Render(initials)

	field := func(label, value string) string {
		if value == "" {
			value = st.muted.Render("-")
		} else {
			value = st.highlight.Render(value)
		}
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(14).Render(label), value)
	}
	photo := "none"
	if p.profile.PhotoURL != "" {
		photo = p.profile.PhotoURL
	}

	details := lipgloss.JoinVertical(lipgloss.Left,
		field("Last name", p.profile.LastName),
		field("First name", p.profile.FirstName),
		field("Middle name", p.profile.MiddleName),
		field("Email", p.profile.Email),
		field("Phone", p.profile.Phone),
		field("Avatar", photo),
	)

	return st.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		st.title.Render("Profile"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, avatar, "  ", details),
		"",
		st.muted.Render("  enter: edit  u: upload avatar  o: log out"),
	))
}

func (p profileModel) formTitle() string {
	switch p.formType {
	case "login":
		return "Log In"
	case "signup":
		return "Sign Up"
	case "edit":
		return "Edit Profile"
	case "avatar":
		return "Upload Avatar"
	}
	return ""
}

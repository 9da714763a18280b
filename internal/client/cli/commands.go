package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/client/batch"
	"github.com/dmitrijs2005/portfolio/internal/client/listing"
	"github.com/dmitrijs2005/portfolio/internal/client/services"
	"github.com/dmitrijs2005/portfolio/internal/i18n"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

const dateLayout = "2006-01-02 15:04"

// adminTitleLangs are the languages the admin project search looks at.
var adminTitleLangs = []string{string(i18n.EN), string(i18n.UK)}

type usageError struct {
	usage string
}

func (e usageError) Error() string {
	return "usage: " + e.usage
}

func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "login", run: a.Login},
		{name: "logout", usage: "logout", auth: true, run: a.Logout},
		{name: "register", usage: "register", auth: true, run: a.Register},
		{name: "dashboard", usage: "dashboard", auth: true, run: a.Dashboard},
		{name: "projects", usage: "projects [query]", run: a.Projects},
		{name: "project", usage: "project <slug>", run: a.Project},
		{name: "rmproject", usage: "rmproject <id...>", auth: true, run: a.RemoveProjects},
		{name: "messages", usage: "messages [new] [query]", auth: true, run: a.Messages},
		{name: "read", usage: "read <id...>", auth: true, run: a.MarkRead},
		{name: "rmmsg", usage: "rmmsg <id...>", auth: true, run: a.RemoveMessages},
		{name: "tags", usage: "tags", run: a.Tags},
		{name: "addtag", usage: "addtag <name> [#color]", auth: true, run: a.AddTag},
		{name: "rmtag", usage: "rmtag <id>", auth: true, run: a.RemoveTag},
		{name: "settings", usage: "settings", run: a.Settings},
		{name: "lang", usage: "lang <en|uk|pl>", run: a.SetLang},
		{name: "status", usage: "status", run: a.Status},
	}
}

// report prints a command failure. An unauthorized response while logged in
// means the token expired, so the stored session is dropped.
func (a *App) report(ctx context.Context, err error) {
	var ue usageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintln(a.out, "Usage:", ue.usage)
	case errors.Is(err, context.Canceled):
	case errors.Is(err, api.ErrUnavailable):
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, a.view.danger.Render("Backend is unreachable."))
	case api.IsUnauthorized(err) && a.isLoggedIn():
		if lerr := a.auth.Logout(ctx); lerr != nil {
			a.logger.Warn(ctx, "clear session", "error", lerr)
		}
		a.clearLogin()
		fmt.Fprintln(a.out, a.view.warning.Render("Session expired, please login again."))
	case api.IsValidation(err):
		fmt.Fprintln(a.out, a.view.danger.Render(api.MessageOr(err, "Validation failed")))
		fields := api.FieldErrors(err)
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.out, "  %s: %s\n", k, fields[k])
		}
	case errors.Is(err, services.ErrPasswordMismatch):
		fmt.Fprintln(a.out, a.view.danger.Render("Passwords do not match."))
	default:
		fmt.Fprintln(a.out, a.view.danger.Render("Error: "+api.MessageOr(err, err.Error())))
	}
}

func (a *App) Dashboard(ctx context.Context, _ []string) error {
	d := a.dashboard.Load(a.authed(ctx))
	if api.IsUnauthorized(d.MessagesErr) {
		return d.MessagesErr
	}

	v := a.view
	fmt.Fprintln(a.out, v.title.Render("Dashboard"))
	if !d.BackendOnline {
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, "Backend:", v.danger.Render("offline"))
		return nil
	}
	a.setMode(ModeOnline)

	unread := fmt.Sprint(d.NewMessages)
	if d.NewMessages > 0 {
		unread = v.warning.Render(unread + " (need a reply)")
	}
	fmt.Fprintln(a.out, "Backend:", v.success.Render("online"))
	fmt.Fprintln(a.out, "Projects:", d.ProjectCount)
	fmt.Fprintln(a.out, "New messages:", unread)
	fmt.Fprintf(a.out, "Note [%s]: %s\n", d.Note.Status, d.Note.Text)

	if len(d.RecentProjects) > 0 {
		fmt.Fprintln(a.out, v.title.Render("Recent projects"))
		fmt.Fprint(a.out, a.projectTable(d.RecentProjects))
	}
	return nil
}

func (a *App) Projects(ctx context.Context, args []string) error {
	ps, err := a.projects.List(ctx)
	if err != nil {
		return err
	}
	ps = listing.FilterProjects(ps, listing.ProjectFilter{
		Search:     strings.Join(args, " "),
		TitleLangs: adminTitleLangs,
		TitleOnly:  true,
	})
	if len(ps) == 0 {
		fmt.Fprintln(a.out, "No projects.")
		return nil
	}
	fmt.Fprint(a.out, a.projectTable(ps))
	fmt.Fprintf(a.out, "%d project(s)\n", len(ps))
	return nil
}

func (a *App) projectTable(ps []models.Project) string {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		featured := ""
		if p.IsFeatured {
			featured = "*"
		}
		rows = append(rows, []string{p.ID, p.Slug, p.Stage.Label(), featured, p.Title(a.lang())})
	}
	return a.view.table([]string{"ID", "SLUG", "STAGE", "FEATURED", "TITLE"}, rows)
}

func (a *App) Project(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"project <slug>"}
	}
	p, err := a.api.GetProjectBySlug(ctx, args[0])
	if err != nil {
		if api.IsNotFound(err) {
			return errors.New("project not found")
		}
		return err
	}

	text := p.Text(a.lang())
	fmt.Fprintln(a.out, a.view.title.Render(text.Title))
	fmt.Fprintln(a.out, "ID:", p.ID)
	fmt.Fprintln(a.out, "Slug:", p.Slug)
	fmt.Fprintln(a.out, "Stage:", p.Stage.Label())
	fmt.Fprintln(a.out, "Featured:", p.IsFeatured)
	fmt.Fprintln(a.out, "Tech:", strings.Join(p.TechStack, ", "))
	fmt.Fprintln(a.out, "Tags:", strings.Join(p.DisplayTags(), ", "))
	if p.Links.GitHub != "" {
		fmt.Fprintln(a.out, "GitHub:", p.Links.GitHub)
	}
	if p.Links.Live != "" {
		fmt.Fprintln(a.out, "Live:", p.Links.Live)
	}
	if p.MainImage != "" {
		fmt.Fprintln(a.out, "Image:", p.MainImage)
	}
	fmt.Fprintf(a.out, "Gallery: %d image(s)\n", len(p.Gallery))
	if text.Description != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, text.Description)
	}
	if text.FullCaseStudy != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, text.FullCaseStudy)
	}
	return nil
}

func (a *App) RemoveProjects(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError{"rmproject <id...>"}
	}
	return a.printBatch("Deleted", a.projects.Delete(a.authed(ctx), args))
}

func (a *App) Messages(ctx context.Context, args []string) error {
	f := listing.MessageFilter{Status: listing.StatusAll}
	if len(args) > 0 && args[0] == listing.StatusNew {
		f.Status, args = listing.StatusNew, args[1:]
	}
	f.Search = strings.Join(args, " ")

	all, err := a.inbox.List(a.authed(ctx))
	if err != nil {
		return err
	}
	ms := listing.FilterMessages(all, f)

	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{
			m.ID,
			string(m.Status),
			m.CreatedAt.Local().Format(dateLayout),
			fmt.Sprintf("%s <%s>", m.Name, m.Email),
			truncate(m.Message, 50),
		})
	}
	if len(rows) > 0 {
		fmt.Fprint(a.out, a.view.table([]string{"ID", "STATUS", "DATE", "FROM", "MESSAGE"}, rows))
	}
	fmt.Fprintf(a.out, "%d shown, %d unread\n", len(ms), listing.UnreadCount(all))
	return nil
}

func (a *App) MarkRead(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError{"read <id...>"}
	}
	return a.printBatch("Marked read", a.inbox.MarkRead(a.authed(ctx), args))
}

func (a *App) RemoveMessages(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError{"rmmsg <id...>"}
	}
	return a.printBatch("Deleted", a.inbox.Delete(a.authed(ctx), args))
}

// printBatch prints the outcome of a bulk action. It returns an
// unauthorized error when one occurred so the session can be dropped.
func (a *App) printBatch(verb string, res batch.Result) error {
	fmt.Fprintf(a.out, "%s %d of %d.\n", verb, len(res.Succeeded()), len(res.Items))
	var unauthorized error
	for _, it := range res.Failed() {
		if api.IsUnauthorized(it.Err) {
			unauthorized = it.Err
		}
		fmt.Fprintln(a.out, a.view.danger.Render(fmt.Sprintf("  %s: %s", it.ID, api.MessageOr(it.Err, it.Err.Error()))))
	}
	return unauthorized
}

func (a *App) Tags(ctx context.Context, _ []string) error {
	tags, err := a.api.ListTags(ctx)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Fprintln(a.out, "No tags.")
		return nil
	}
	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []string{t.ID, t.Name, t.Color, t.Slug})
	}
	fmt.Fprint(a.out, a.view.table([]string{"ID", "NAME", "COLOR", "SLUG"}, rows))
	return nil
}

// AddTag takes a multi-word name; a trailing "#rrggbb" word is the color.
func (a *App) AddTag(ctx context.Context, args []string) error {
	color := ""
	if n := len(args); n > 1 && strings.HasPrefix(args[n-1], "#") {
		color, args = args[n-1], args[:n-1]
	}
	if len(args) == 0 {
		return usageError{"addtag <name> [#color]"}
	}
	t, err := a.api.CreateTag(a.authed(ctx), strings.Join(args, " "), color)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Tag %s created (%s).\n", t.Name, t.ID)
	return nil
}

func (a *App) RemoveTag(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"rmtag <id>"}
	}
	if err := a.api.DeleteTag(a.authed(ctx), args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Tag deleted.")
	return nil
}

func (a *App) Settings(ctx context.Context, _ []string) error {
	s, err := a.api.GetSettings(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.view.title.Render("Settings"))
	fmt.Fprintln(a.out, "Email:", s.Email)
	fmt.Fprintln(a.out, "Phones:", strings.Join(s.Phones, ", "))
	fmt.Fprintln(a.out, "CV:", s.CVLink)
	fmt.Fprintln(a.out, "Looking for work:", s.IsLookingForWork)
	fmt.Fprintln(a.out, "GitHub:", s.Socials.GitHub)
	fmt.Fprintln(a.out, "LinkedIn:", s.Socials.LinkedIn)
	fmt.Fprintln(a.out, "Telegram:", s.Socials.Telegram)
	fmt.Fprintln(a.out, "Discord:", s.Socials.Discord)
	fmt.Fprintln(a.out, "Instagram:", s.Socials.Instagram)
	fmt.Fprintf(a.out, "Note [%s]: %s\n", s.SystemNote.Status, s.SystemNote.Text)
	return nil
}

func (a *App) SetLang(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"lang <en|uk|pl>"}
	}
	l, ok := i18n.Parse(args[0])
	if !ok {
		return usageError{"lang <en|uk|pl>"}
	}
	if err := a.store.SetLang(ctx, string(l)); err != nil {
		return err
	}
	s := a.session()
	s.Lang = string(l)
	a.setSession(s)
	return nil
}

// Status probes the backend now and prints the connection summary.
func (a *App) Status(ctx context.Context, _ []string) error {
	a.probe(ctx)
	fmt.Fprintln(a.out, "API:", a.api.BaseURL())
	fmt.Fprintln(a.out, "Backend:", a.view.mode(a.currentMode(), string(a.currentMode())))
	if s := a.session(); s.LoggedIn() {
		fmt.Fprintln(a.out, "Logged in as:", s.Name)
	} else {
		fmt.Fprintln(a.out, "Not logged in.")
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

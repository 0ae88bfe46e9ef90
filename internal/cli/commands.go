package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/campusadmin/campusctl/internal/metrics"
	"github.com/campusadmin/campusctl/internal/model"
)

// listParams turns list arguments into query parameters. Positional
// numbers fill page then limit; key=value arguments (query, filterBy,
// sortBy, sortDesc, program, year, gender, college) pass through to the
// backend untouched.
func listParams(args []string) map[string]string {
	params := map[string]string{"page": "1", "limit": "10"}
	pos := 0
	for _, arg := range args {
		if key, value, ok := strings.Cut(arg, "="); ok && key != "" {
			params[key] = value
			continue
		}
		if _, err := strconv.Atoi(arg); err == nil {
			switch pos {
			case 0:
				params["page"] = arg
			case 1:
				params["limit"] = arg
			}
			pos++
		}
	}
	return params
}

func (a *App) cmdLogin(ctx context.Context) {
	username := a.readLine("Username", "")
	password := a.readPassword("Password")
	// Notifications carry the outcome either way.
	_ = a.session.Login(ctx, username, password)
	a.flushNotifications()
}

func (a *App) cmdRegister(ctx context.Context) {
	username := a.readLine("Username", "")
	password := a.readPassword("Password")
	_ = a.session.Register(ctx, username, password)
	a.flushNotifications()
}

func (a *App) cmdLogout() {
	a.session.Logout()
	fmt.Fprintln(a.out, "Logged out.")
}

func (a *App) cmdWhoami() {
	if !a.session.IsLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	if claims, ok := a.session.Claims(); ok && claims.Subject != "" {
		fmt.Fprintf(a.out, "Logged in as user %s", claims.Subject)
		if !claims.ExpiresAt.IsZero() {
			fmt.Fprintf(a.out, " (session expires %s)", claims.ExpiresAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(a.out)
		return
	}
	fmt.Fprintln(a.out, "Logged in.")
}

// cmdStats prints the request counters collected this session, one row
// per method/path/status, plus the mean request latency.
func (a *App) cmdStats() {
	families, err := a.registry.Gather()
	if err != nil {
		fmt.Fprintf(a.out, "Could not gather request stats: %v\n", err)
		return
	}

	var total, durSum float64
	var durCount uint64
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tSTATUS\tCOUNT")
	for _, f := range families {
		switch f.GetName() {
		case metrics.MetricRequestsTotal:
			for _, m := range f.GetMetric() {
				labels := make(map[string]string, len(m.GetLabel()))
				for _, l := range m.GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				count := m.GetCounter().GetValue()
				total += count
				fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\n",
					labels["method"], labels["path"], labels["status"], count)
			}
		case metrics.MetricRequestDurationSeconds:
			for _, m := range f.GetMetric() {
				h := m.GetHistogram()
				durSum += h.GetSampleSum()
				durCount += h.GetSampleCount()
			}
		}
	}
	w.Flush()

	if total == 0 {
		fmt.Fprintln(a.out, "No requests yet this session.")
		return
	}
	fmt.Fprintf(a.out, "%.0f requests this session", total)
	if durCount > 0 {
		fmt.Fprintf(a.out, ", mean latency %.0fms", durSum/float64(durCount)*1000)
	}
	fmt.Fprintln(a.out)
}

// reportMutation emits exactly one notification for a mutation outcome.
func (a *App) reportMutation(msg string, err error) bool {
	if err != nil {
		a.notifier.Error(userMessage(err))
		a.flushNotifications()
		return false
	}
	if msg == "" {
		msg = "Done"
	}
	a.notifier.Success(msg)
	a.flushNotifications()
	return true
}

// userMessage maps an error onto the line shown to the user.
func userMessage(err error) string {
	return err.Error()
}

func (a *App) pageFooter(p model.PageInfo) {
	if p.TotalPages > 0 {
		fmt.Fprintf(a.out, "page %d/%d (%d records)\n", p.CurrentPage, p.TotalPages, p.TotalRecords)
	}
}

// Colleges

func (a *App) cmdCollegesList(ctx context.Context, args []string) {
	if err := a.colleges.Fetch(ctx, listParams(args)); err != nil {
		fmt.Fprintln(a.out, "Could not load colleges; showing last known data.")
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME")
	for _, c := range a.colleges.Items() {
		fmt.Fprintf(w, "%s\t%s\n", c.CollegeCode, c.CollegeName)
	}
	w.Flush()
	a.pageFooter(a.colleges.Pagination())
}

func (a *App) cmdCollegeCreate(ctx context.Context) {
	a.editor.Open("college-form")
	defer a.editor.Close()

	payload := model.CollegePayload{
		CollegeCode: a.readLine("College code", ""),
		CollegeName: a.readLine("College name", ""),
	}
	msg, err := a.colleges.Create(ctx, payload)
	if a.reportMutation(msg, err) {
		_ = a.colleges.Refresh(ctx, nil)
	}
}

func (a *App) cmdCollegeUpdate(ctx context.Context, id string) {
	current, ok := a.findCollege(ctx, id)
	if !ok {
		fmt.Fprintf(a.out, "College %s not found.\n", id)
		return
	}

	a.editor.Open("college-form")
	a.editor.SetEditMode(true)
	a.editor.SetCurrentCollege(&current)
	defer a.editor.Close()

	payload := model.CollegePayload{
		CollegeCode: a.readLine("College code", current.CollegeCode),
		CollegeName: a.readLine("College name", current.CollegeName),
	}
	msg, err := a.colleges.Update(ctx, id, payload)
	a.reportMutation(msg, err)
}

func (a *App) cmdCollegeDelete(ctx context.Context, id string) {
	msg, _, err := a.colleges.Delete(ctx, id)
	a.reportMutation(msg, err)
}

func (a *App) findCollege(ctx context.Context, id string) (model.College, bool) {
	for _, c := range a.colleges.Items() {
		if c.Key() == id {
			return c, true
		}
	}
	_ = a.colleges.FetchAll(ctx)
	for _, c := range a.colleges.All() {
		if c.Key() == id {
			return c, true
		}
	}
	return model.College{}, false
}

// Programs

func (a *App) cmdProgramsList(ctx context.Context, args []string) {
	if err := a.programs.Fetch(ctx, listParams(args)); err != nil {
		fmt.Fprintln(a.out, "Could not load programs; showing last known data.")
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tCOLLEGE")
	for _, p := range a.programs.Items() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ProgramCode, p.ProgramName, p.CollegeCode)
	}
	w.Flush()
	a.pageFooter(a.programs.Pagination())
}

func (a *App) cmdProgramCreate(ctx context.Context) {
	a.editor.Open("program-form")
	defer a.editor.Close()

	payload := model.ProgramPayload{
		ProgramCode: a.readLine("Program code", ""),
		ProgramName: a.readLine("Program name", ""),
		CollegeCode: a.readLine("College code", ""),
	}
	msg, err := a.programs.Create(ctx, payload)
	if a.reportMutation(msg, err) {
		_ = a.programs.Refresh(ctx, nil)
	}
}

func (a *App) cmdProgramUpdate(ctx context.Context, id string) {
	current, ok := a.findProgram(ctx, id)
	if !ok {
		fmt.Fprintf(a.out, "Program %s not found.\n", id)
		return
	}

	a.editor.Open("program-form")
	a.editor.SetEditMode(true)
	a.editor.SetCurrentProgram(&current)
	defer a.editor.Close()

	payload := model.ProgramPayload{
		ProgramCode: a.readLine("Program code", current.ProgramCode),
		ProgramName: a.readLine("Program name", current.ProgramName),
		CollegeCode: a.readLine("College code", current.CollegeCode),
	}
	msg, err := a.programs.Update(ctx, id, payload)
	a.reportMutation(msg, err)
}

func (a *App) cmdProgramDelete(ctx context.Context, id string) {
	msg, _, err := a.programs.Delete(ctx, id)
	a.reportMutation(msg, err)
}

func (a *App) findProgram(ctx context.Context, id string) (model.Program, bool) {
	for _, p := range a.programs.Items() {
		if p.Key() == id {
			return p, true
		}
	}
	_ = a.programs.FetchAll(ctx)
	for _, p := range a.programs.All() {
		if p.Key() == id {
			return p, true
		}
	}
	return model.Program{}, false
}

// Students

func (a *App) cmdStudentsList(ctx context.Context, args []string) {
	if err := a.students.Fetch(ctx, listParams(args)); err != nil {
		fmt.Fprintln(a.out, "Could not load students; showing last known data.")
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tYEAR\tGENDER\tPROGRAM\tIMAGE")
	for _, s := range a.students.Items() {
		image := "-"
		if s.ImageURL != "" {
			image = "yes"
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%s\n",
			s.StudentID, s.FirstName, s.LastName, s.YearLevel, s.Gender, s.ProgramCode, image)
	}
	w.Flush()
	a.pageFooter(a.students.Pagination())
}

func (a *App) cmdStudentCreate(ctx context.Context) {
	a.editor.Open("student-form")
	defer a.editor.Close()

	payload := a.promptStudent(model.Student{})
	msg, err := a.students.Create(ctx, payload)
	if a.reportMutation(msg, err) {
		_ = a.students.Refresh(ctx, nil)
	}
}

func (a *App) cmdStudentUpdate(ctx context.Context, id string) {
	current, ok := a.findStudent(ctx, id)
	if !ok {
		fmt.Fprintf(a.out, "Student %s not found.\n", id)
		return
	}

	a.editor.Open("student-form")
	a.editor.SetEditMode(true)
	a.editor.SetCurrentStudent(&current)
	defer a.editor.Close()

	payload := a.promptStudent(current)
	msg, err := a.students.Update(ctx, id, payload)
	a.reportMutation(msg, err)
}

func (a *App) cmdStudentDelete(ctx context.Context, id string) {
	msg, err := a.students.Delete(ctx, id)
	a.reportMutation(msg, err)
}

func (a *App) cmdStudentImage(ctx context.Context, id, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.notifier.Error(fmt.Sprintf("Cannot read %s: %v", path, err))
		a.flushNotifications()
		return
	}

	contentType := contentTypeFor(path, data)
	url, err := a.students.UpdateImage(ctx, id, filepath.Base(path), data, contentType)
	if err != nil {
		a.reportMutation("", err)
		return
	}
	a.reportMutation("Student image updated successfully", nil)
	fmt.Fprintln(a.out, url)
}

func (a *App) cmdStudentImageRemove(ctx context.Context, id string) {
	msg, err := a.students.RemoveImage(ctx, id)
	a.reportMutation(msg, err)
}

func (a *App) promptStudent(current model.Student) model.StudentPayload {
	return model.StudentPayload{
		StudentID:   a.readLine("Student ID", current.StudentID),
		FirstName:   a.readLine("First name", current.FirstName),
		LastName:    a.readLine("Last name", current.LastName),
		YearLevel:   a.readLine("Year level", string(current.YearLevel)),
		Gender:      a.readLine("Gender", current.Gender),
		ProgramCode: a.readLine("Program code", current.ProgramCode),
	}
}

func (a *App) findStudent(ctx context.Context, id string) (model.Student, bool) {
	for _, s := range a.students.Items() {
		if s.Key() == id {
			return s, true
		}
	}
	_ = a.students.FetchAll(ctx)
	for _, s := range a.students.All() {
		if s.Key() == id {
			return s, true
		}
	}
	return model.Student{}, false
}

// contentTypeFor prefers the file extension and falls back to content
// sniffing. The store enforces the allow-list either way.
func contentTypeFor(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	return http.DetectContentType(data)
}

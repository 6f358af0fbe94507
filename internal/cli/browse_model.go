package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/janmeier/studyplan/internal/cli/formatter"
	"github.com/janmeier/studyplan/internal/domain"
)

// courseItem adapts a catalog course to the bubbles list.
type courseItem struct {
	course domain.RawCourse
}

func (i courseItem) Title() string {
	return domain.CoalesceStr(i.course.ShortName, i.course.Title, i.course.Name)
}

func (i courseItem) Description() string {
	desc := fmt.Sprintf("%s · %s", i.course.Classification, formatter.ECTS(i.course.ECTS()))
	if i.course.AvgRating != nil {
		desc += fmt.Sprintf(" · ★ %.1f", *i.course.AvgRating)
	}
	return desc
}

func (i courseItem) FilterValue() string { return i.Title() }

// stagedMsg reports the outcome of staging the selected course.
type stagedMsg struct {
	courseID string
	ok       bool
	reason   string
	err      error
}

// browseModel is the interactive catalog browser: navigate with the list,
// enter stages the highlighted course into the browsed semester.
type browseModel struct {
	app      *App
	semester domain.SemesterKey
	list     list.Model
	status   string
	staged   int
}

func newBrowseModel(app *App, semester domain.SemesterKey, courses []domain.RawCourse) browseModel {
	items := make([]list.Item, 0, len(courses))
	for _, c := range courses {
		items = append(items, courseItem{course: c})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(formatter.ColorHeader).
		BorderForeground(formatter.ColorHeader)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(formatter.ColorDim).
		BorderForeground(formatter.ColorHeader)

	l := list.New(items, delegate, 80, 20)
	l.Title = fmt.Sprintf("Catalog %s", semester)
	l.Styles.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	l.SetShowStatusBar(false)

	return browseModel{app: app, semester: semester, list: l}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case stagedMsg:
		switch {
		case msg.err != nil:
			m.status = formatter.StyleRed.Render("Error: " + msg.err.Error())
		case !msg.ok:
			m.status = formatter.StyleYellow.Render(fmt.Sprintf("Rejected (%s)", msg.reason))
		default:
			m.staged++
			m.status = formatter.StyleGreen.Render(fmt.Sprintf("Staged %s", msg.courseID))
		}
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(courseItem); ok {
				return m, m.stageCourse(item.course)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) stageCourse(course domain.RawCourse) tea.Cmd {
	app := m.app
	semester := m.semester
	return func() tea.Msg {
		id := domain.ResolveCourseID(&course)
		res, err := app.Plan.AddCourse(context.Background(), id, semester, domain.CoalesceStr(course.Classification, "Electives"))
		return stagedMsg{courseID: id, ok: res.OK, reason: string(res.Reason), err: err}
	}
}

func (m browseModel) View() string {
	out := m.list.View()
	if m.status != "" {
		out += "\n" + m.status
	}
	return out
}

// Package tui is the terminal front end of the job URL controller.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"alfredoptarigan/cold-mail-generator/internal/controller"
	"alfredoptarigan/cold-mail-generator/internal/logger"
)

// settledMsg arrives when a submission finished or was superseded.
type settledMsg struct{}

type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	panel   *panel
	input   textinput.Model
	spinner spinner.Model
	width   int
}

func NewModel(ctx context.Context, dispatcher controller.Dispatcher, timeout time.Duration) *Model {
	input := textinput.New()
	input.Placeholder = "https://company.com/careers/job/123"
	input.Focus()
	input.CharLimit = 2048
	input.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	p := &panel{}

	var opts []controller.Option
	if timeout > 0 {
		opts = append(opts, controller.WithTimeout(timeout))
	}

	return &Model{
		ctx:     ctx,
		ctrl:    controller.New(p.elements(), dispatcher, opts...),
		panel:   p,
		input:   input,
		spinner: sp,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.ctrl.Close()
			return m, tea.Quit
		case "enter":
			return m, m.submit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case settledMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.panel.snapshot().loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	m.panel.setValue(m.input.Value())

	done := m.ctrl.Submit(m.ctx)
	if m.panel.snapshot().alert != "" {
		logger.Log("submission rejected: empty job URL")
		return nil
	}

	logger.Log("submitted job URL %s", strings.TrimSpace(m.input.Value()))
	return tea.Batch(m.spinner.Tick, waitForSettle(done))
}

func waitForSettle(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return settledMsg{}
	}
}

func (m *Model) View() string {
	snap := m.panel.snapshot()

	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(titleStyle.Render("Cold Mail Generator"))
	s.WriteString("\n")
	s.WriteString("Job URL:\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")

	if snap.alert != "" {
		s.WriteString("\n")
		s.WriteString(warningStyle.Render("⚠ " + snap.alert))
		s.WriteString("\n")
	}

	if snap.loading {
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" Generating email...\n")
	}

	if body := renderContent(snap.content, m.resultWidth()); body != "" {
		s.WriteString("\n")
		s.WriteString(body)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: submit • esc: quit"))
	s.WriteString("\n")
	return s.String()
}

func (m *Model) resultWidth() int {
	if m.width <= 4 {
		return 0
	}
	return m.width - 4
}

// renderContent draws the output region. Server text is shown verbatim,
// only wrapped in styles.
func renderContent(content controller.Content, width int) string {
	switch content.Kind {
	case controller.ContentError:
		return errorStyle.Render(content.Message)
	case controller.ContentResult:
		var b strings.Builder
		b.WriteString(headingStyle.Render(controller.EmailHeading))
		b.WriteString("\n")
		b.WriteString(content.Email)
		b.WriteString("\n\n")
		b.WriteString(headingStyle.Render(controller.LinksHeading))
		b.WriteString("\n")
		b.WriteString(content.PortfolioLinks)

		style := resultStyle
		if width > 0 {
			style = style.Width(width)
		}
		return style.Render(b.String())
	default:
		return ""
	}
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, dispatcher controller.Dispatcher, timeout time.Duration) error {
	model := NewModel(ctx, dispatcher, timeout)
	_, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	model.ctrl.Close()
	return err
}

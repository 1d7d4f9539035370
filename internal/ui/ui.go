package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ferry/internal/app"
	"github.com/five82/ferry/internal/fetch"
	"github.com/five82/ferry/internal/offcloud"
)

// phase tracks how far the pipeline has advanced. Phases only move forward.
type phase int

const (
	phaseSubmitting phase = iota
	phaseWaiting
	phaseDownloading
	phaseDone
	phaseFailed
)

// Options configures the pipeline view.
type Options struct {
	// Title is the source being fetched, shown in the header.
	Title string
	// Cancel stops the pipeline when the user quits.
	Cancel context.CancelFunc
}

// Model is the root application state for Bubble Tea.
type Model struct {
	cancel context.CancelFunc
	title  string

	styles Styles
	spin   spinner.Model
	bar    progress.Model

	width int

	phase   phase
	handle  offcloud.JobHandle
	status  offcloud.StatusRecord
	elapsed time.Duration

	rows     []fileRow
	rowIndex map[string]int
	expected int

	result    *fetch.Result
	err       error
	cancelled bool
}

// fileRow is the render state for one batch entry.
type fileRow struct {
	name       string
	downloaded uint64
	total      uint64
	settled    bool
	ok         bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	styles := DefaultStyles()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Spinner

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	return Model{
		cancel:   opts.Cancel,
		title:    opts.Title,
		styles:   styles,
		spin:     spin,
		bar:      bar,
		rowIndex: make(map[string]int),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case submittedMsg:
		m.handle = offcloud.JobHandle(msg)
		if m.phase < phaseWaiting {
			m.phase = phaseWaiting
		}
		return m, nil

	case statusMsg:
		m.status = msg.record
		m.elapsed = msg.elapsed
		if m.phase < phaseWaiting {
			m.phase = phaseWaiting
		}
		return m, nil

	case filesMsg:
		m.expected = len(msg)
		m.phase = phaseDownloading
		return m, nil

	case progressMsg:
		m.phase = phaseDownloading
		row := m.row(msg.FileName)
		row.downloaded = msg.Downloaded
		row.total = msg.Total
		return m, nil

	case fileDoneMsg:
		m.phase = phaseDownloading
		row := m.row(msg.name)
		row.settled = true
		row.ok = msg.ok
		return m, nil

	case doneMsg:
		m.phase = phaseDone
		m.result = msg.result
		return m, tea.Quit

	case errMsg:
		m.phase = phaseFailed
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("ferry"))
	if m.title != "" {
		b.WriteString(" ")
		b.WriteString(m.styles.Subtle.Render(truncate(m.title, max(20, m.width-8))))
	}
	b.WriteString("\n\n")

	switch m.phase {
	case phaseSubmitting:
		fmt.Fprintf(&b, "%s submitting\n", m.spin.View())
	case phaseWaiting:
		b.WriteString(m.renderWaiting())
	case phaseDownloading:
		b.WriteString(m.renderDownloads())
	case phaseDone:
		b.WriteString(m.renderSummary())
	case phaseFailed:
		b.WriteString(m.renderFailure())
	}

	if m.phase < phaseDone {
		b.WriteString("\n")
		b.WriteString(m.styles.Faint.Render("press q to cancel"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderWaiting() string {
	var b strings.Builder

	label := string(m.status.Status)
	if label == "" || m.status.Status == offcloud.StatusUnknown {
		label = "waiting"
	}
	fmt.Fprintf(&b, "%s %s", m.spin.View(), label)
	if m.handle.RequestID != "" {
		fmt.Fprintf(&b, " %s", m.styles.Subtle.Render("("+m.handle.String()+")"))
	}
	if m.status.FileSize > 0 && m.status.Downloaded > 0 {
		fmt.Fprintf(&b, "  %s", m.bar.ViewAs(fraction(m.status.Downloaded, m.status.FileSize)))
	}
	if m.elapsed > 0 {
		fmt.Fprintf(&b, "  %s", m.styles.Faint.Render(formatElapsed(m.elapsed)))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderDownloads() string {
	var b strings.Builder

	settled := 0
	for _, row := range m.rows {
		if row.settled {
			settled++
		}
	}
	total := max(m.expected, len(m.rows))
	fmt.Fprintf(&b, "%s downloading %d/%d\n", m.spin.View(), settled, total)

	for _, row := range m.rows {
		b.WriteString("  ")
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderRow(row fileRow) string {
	name := padName(row.name, 28)
	switch {
	case row.settled && row.ok:
		return fmt.Sprintf("%s %s", name, m.styles.OK.Render("done"))
	case row.settled:
		return fmt.Sprintf("%s %s", name, m.styles.Error.Render("failed"))
	case row.total > 0:
		sizes := HumanSize(row.downloaded) + " / " + HumanSize(row.total)
		return fmt.Sprintf("%s %s %s", name, m.bar.ViewAs(fraction(row.downloaded, row.total)), m.styles.Faint.Render(sizes))
	default:
		return fmt.Sprintf("%s %s", name, m.styles.Faint.Render(HumanSize(row.downloaded)))
	}
}

func (m Model) renderSummary() string {
	if m.result == nil {
		return m.styles.OK.Render("done") + "\n"
	}
	failed := m.result.Failed()
	switch {
	case len(failed) > 0:
		return m.styles.Error.Render(fmt.Sprintf("completed with %d failed: %s", len(failed), strings.Join(failed, ", "))) + "\n"
	case m.result.Len() == 0:
		return m.styles.OK.Render("transfer completed") + "\n"
	case m.result.Len() == 1:
		return m.styles.OK.Render("done: 1 file") + "\n"
	default:
		return m.styles.OK.Render(fmt.Sprintf("done: %d files", m.result.Len())) + "\n"
	}
}

func (m Model) renderFailure() string {
	if m.cancelled || errors.Is(m.err, context.Canceled) {
		return m.styles.Error.Render("cancelled") + "\n"
	}
	return m.styles.Error.Render("error: "+m.err.Error()) + "\n"
}

// row returns the render state for name, creating it on first sight. Entries
// appear as the transfer layer reports them, in batch order.
func (m *Model) row(name string) *fileRow {
	if i, ok := m.rowIndex[name]; ok {
		return &m.rows[i]
	}
	m.rows = append(m.rows, fileRow{name: name})
	m.rowIndex[name] = len(m.rows) - 1
	return &m.rows[len(m.rows)-1]
}

// Messages

type submittedMsg offcloud.JobHandle

type statusMsg struct {
	record  offcloud.StatusRecord
	elapsed time.Duration
}

type filesMsg []offcloud.ArchiveEntry

type progressMsg fetch.Progress

type fileDoneMsg struct {
	name string
	ok   bool
}

type doneMsg struct {
	result *fetch.Result
}

type errMsg struct {
	err error
}

// Run drives the pipeline under the terminal view. The run function starts on
// its own goroutine with callbacks that feed the program; Run blocks until
// the pipeline finishes or the user cancels. The final frame stays in the
// scrollback, so the view renders inline rather than on the alt screen.
func Run(ctx context.Context, title string, run func(context.Context, app.Events) (*fetch.Result, error)) (*fetch.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(Options{Title: title, Cancel: cancel}))

	go func() {
		result, err := run(ctx, forward(p))
		if err != nil {
			p.Send(errMsg{err: err})
			return
		}
		p.Send(doneMsg{result: result})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	switch {
	case m.err != nil:
		return m.result, m.err
	case m.cancelled:
		return m.result, context.Canceled
	}
	return m.result, nil
}

// forward adapts pipeline callbacks into program messages.
func forward(p *tea.Program) app.Events {
	return app.Events{
		Submitted: func(h offcloud.JobHandle) {
			p.Send(submittedMsg(h))
		},
		Polled: func(rec offcloud.StatusRecord, elapsed time.Duration) {
			p.Send(statusMsg{record: rec, elapsed: elapsed})
		},
		Resolved: func(entries []offcloud.ArchiveEntry) {
			p.Send(filesMsg(entries))
		},
		Progress: func(pr fetch.Progress) {
			p.Send(progressMsg(pr))
		},
		FileDone: func(name string, ok bool) {
			p.Send(fileDoneMsg{name: name, ok: ok})
		},
	}
}

func fraction(done, total uint64) float64 {
	if total == 0 {
		return 0
	}
	f := float64(done) / float64(total)
	if f > 1 {
		return 1
	}
	return f
}

func barWidth(termWidth int) int {
	w := termWidth - 50
	if w < 10 {
		return 10
	}
	if w > 40 {
		return 40
	}
	return w
}

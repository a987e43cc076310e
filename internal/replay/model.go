// Package replay plays a computed trajectory back in the terminal at
// roughly 60 frames per second, stopping at the first obstacle hit.
package replay

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/birdsim/internal/flight"
	"github.com/san-kum/birdsim/internal/impact"
)

const frameInterval = 16 * time.Millisecond

var (
	title   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	value   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	alert   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	success = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	panel   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model of a replay. Each tick advances the cursor
// by one time step times the playback speed.
type Model struct {
	traj      flight.Trajectory
	obstacles []impact.Obstacle
	step      float64
	speed     float64

	cursor   float64
	revealed int
	paused   bool
	done     bool
	hit      *impact.Collision

	width, height int
}

// New prepares a replay of traj against obstacles. dt is the simulation
// time step; it is also the cursor increment at speed 1.
func New(traj flight.Trajectory, obstacles []impact.Obstacle, dt float64) Model {
	if dt <= 0 {
		dt = flight.DefaultTimeStep
	}
	return Model{
		traj:      traj,
		obstacles: obstacles,
		step:      dt,
		speed:     1,
		width:     80,
		height:    24,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			m = m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "+", "=":
		if m.speed < 16 {
			m.speed *= 2
		}
	case "-", "_":
		if m.speed > 0.25 {
			m.speed /= 2
		}
	case "r":
		wasDone := m.done
		m = New(m.traj, m.obstacles, m.step)
		if wasDone {
			return m, tick()
		}
	}
	return m, nil
}

// advance moves the cursor one tick and checks every newly revealed sample
// for a collision. Playback ends at a hit or after the last sample.
func (m Model) advance() Model {
	m.cursor += m.step * m.speed

	visible := m.traj.UpTo(m.cursor)
	for i := m.revealed; i < len(visible); i++ {
		if o, ok := impact.Hit(visible[i], m.obstacles); ok {
			m.hit = &impact.Collision{Index: i, Sample: visible[i], Obstacle: o}
			m.revealed = i + 1
			m.cursor = visible[i].Time
			m.done = true
			return m
		}
	}
	m.revealed = len(visible)

	if _, ok := m.traj.At(m.cursor); !ok {
		m.done = true
	}
	return m
}

func (m Model) Cursor() float64 { return m.cursor }

func (m Model) Done() bool { return m.done }

func (m Model) Paused() bool { return m.paused }

func (m Model) Speed() float64 { return m.speed }

// Collision returns the obstacle hit that stopped playback, if any.
func (m Model) Collision() (impact.Collision, bool) {
	if m.hit == nil {
		return impact.Collision{}, false
	}
	return *m.hit, true
}

// Visible returns the samples shown so far.
func (m Model) Visible() flight.Trajectory {
	return m.traj[:m.revealed:m.revealed]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(title.Render("birdsim replay"))
	b.WriteString(dim.Render(fmt.Sprintf("  x%g", m.speed)))
	if m.paused {
		b.WriteString(dim.Render("  paused"))
	}
	b.WriteString("\n\n")

	b.WriteString(panel.Render(m.scene()))
	b.WriteString("\n")

	visible := m.Visible()
	if n := len(visible); n > 0 {
		s := visible[n-1]
		b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s\n",
			dim.Render("t"), value.Render(fmt.Sprintf("%.2fs", s.Time)),
			dim.Render("x"), value.Render(fmt.Sprintf("%.2fm", s.X)),
			dim.Render("y"), value.Render(fmt.Sprintf("%.2fm", s.Y)),
			dim.Render("v"), value.Render(fmt.Sprintf("%.2fm/s", s.Speed)),
		))
	}
	if len(visible) > 1 {
		heights := make([]float64, len(visible))
		for i, s := range visible {
			heights[i] = s.Y
		}
		b.WriteString(asciigraph.Plot(heights,
			asciigraph.Height(5),
			asciigraph.Width(m.graphWidth()),
			asciigraph.Caption("height (m)")))
		b.WriteString("\n")
	}

	switch {
	case m.hit != nil:
		b.WriteString(alert.Render(fmt.Sprintf("hit %s at x=%.2f y=%.2f", m.hit.Obstacle.Label, m.hit.Sample.X, m.hit.Sample.Y)))
		b.WriteString("\n")
	case m.done:
		b.WriteString(success.Render("landed"))
		b.WriteString("\n")
	}

	b.WriteString(dim.Render("space pause  +/- speed  r restart  q quit"))
	return b.String()
}

func (m Model) graphWidth() int {
	w := m.width - 12
	if w < 20 {
		return 20
	}
	return w
}

func (m Model) scene() string {
	cols := m.width - 4
	rows := m.height - 16
	if cols < 20 {
		cols = 20
	}
	if rows < 6 {
		rows = 6
	}

	maxX, maxY := m.traj.Bounds()
	for _, o := range m.obstacles {
		if o.Bounds == nil {
			continue
		}
		maxX = max(maxX, o.Bounds.X+o.Bounds.Width)
		maxY = max(maxY, o.Bounds.Height)
	}

	c := newCanvas(cols, rows, maxX*1.05, maxY*1.1)
	c.line(0, 0, maxX*1.05, 0)
	for _, o := range m.obstacles {
		if o.Bounds != nil {
			c.box(o.Bounds.X, o.Bounds.Width, o.Bounds.Height)
		}
	}
	visible := m.Visible()
	for i := 1; i < len(visible); i++ {
		c.line(visible[i-1].X, visible[i-1].Y, visible[i].X, visible[i].Y)
	}
	return c.String()
}

// Run blocks until the user quits the replay.
func Run(traj flight.Trajectory, obstacles []impact.Obstacle, dt float64) error {
	_, err := tea.NewProgram(New(traj, obstacles, dt), tea.WithAltScreen()).Run()
	return err
}

package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/birdsim/internal/damage"
	"github.com/san-kum/birdsim/internal/experiment"
	"github.com/san-kum/birdsim/internal/physics"
)

var (
	heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	label   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	cell    = lipgloss.NewStyle().Padding(0, 1)
	header  = cell.Bold(true).Foreground(lipgloss.Color("255"))
	border  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	statusColor = map[damage.Status]lipgloss.Color{
		damage.Destroyed:  lipgloss.Color("203"),
		damage.Eliminated: lipgloss.Color("203"),
		damage.Damaged:    lipgloss.Color("220"),
		damage.Injured:    lipgloss.Color("220"),
	}
)

func printSummary(w io.Writer, out *experiment.Outcome) {
	res := out.Result
	last, _ := res.Trajectory.Last()

	fmt.Fprintln(w, heading.Render(fmt.Sprintf("%s launched at %.1f°", out.Bird, res.Params.AngleDeg)))
	row := func(name, format string, args ...any) {
		fmt.Fprintf(w, "  %s %s\n", label.Render(fmt.Sprintf("%-14s", name)), fmt.Sprintf(format, args...))
	}
	row("initial speed", "%.2f m/s", res.InitialSpeed)
	row("flight time", "%.2f s", last.Time)
	row("range", "%.2f m", res.Metrics["range"])
	row("max height", "%.2f m", res.Metrics["max_height"])
	row("final speed", "%.2f m/s", res.FinalSpeed)
	if vt := physics.FromParams(res.Params).TerminalVelocity(); !math.IsInf(vt, 1) {
		row("terminal speed", "%.2f m/s", vt)
	}
	row("steps", "%d", res.Steps)
	row("impact force", "%.1f N (%s x%g)", out.ImpactForce, out.Attack, out.Multiplier)
	if out.Collision != nil {
		c := out.Collision
		row("collision", "%s (%s) at t=%.2fs x=%.2f y=%.2f", c.Obstacle.Label, c.Obstacle.Kind, c.Sample.Time, c.Sample.X, c.Sample.Y)
	}

	if len(out.Impacts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, impactTable(out.Impacts))
}

func impactTable(impacts []damage.ImpactResult) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		Headers("TARGET", "BEFORE", "AFTER", "STATUS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 3 && row < len(impacts) {
				return cell.Foreground(statusColor[impacts[row].Status])
			}
			return cell
		})

	for _, r := range impacts {
		t.Row(r.Target, strconv.Itoa(r.Initial), strconv.Itoa(r.Remaining), string(r.Status))
	}
	return t.Render()
}

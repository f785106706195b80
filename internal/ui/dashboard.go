package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/squadsim/internal/combat"
	"github.com/samdwyer/squadsim/internal/stats"
)

var (
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	headerStyle = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	rowStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	hintStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const tableHeader = "Round  Battles  AtkTac  DefTac  AtkDmg  DefDmg    AtkHP    DefHP  AtkArm  DefArm"

// Dashboard shows a batch summary: totals on top and a scrollable table of
// per-round averages below.
type Dashboard struct {
	screen *Screen
	title  string
	offset int
}

// NewDashboard creates a dashboard drawing on screen.
func NewDashboard(screen *Screen, title string) *Dashboard {
	return &Dashboard{screen: screen, title: title}
}

// Render draws s once.
func (d *Dashboard) Render(s stats.Summary) {
	d.screen.Clear()
	_, height := d.screen.Size()

	y := 0
	d.screen.DrawText(0, y, d.title, titleStyle)
	y += 2
	for _, line := range totalLines(s) {
		d.screen.DrawText(0, y, line, rowStyle)
		y++
	}
	y++

	d.screen.DrawText(0, y, tableHeader, headerStyle)
	y++

	rows := roundLines(s)
	visible := max(height-y-1, 0)
	d.offset = clampOffset(d.offset, len(rows), visible)
	for _, line := range rows[d.offset:min(d.offset+visible, len(rows))] {
		d.screen.DrawText(0, y, line, rowStyle)
		y++
	}

	d.screen.DrawText(0, height-1, "up/down scroll, q quit", hintStyle)
	d.screen.Show()
}

// Show renders s and blocks until the user quits with q, Esc, Enter or Ctrl-C.
func (d *Dashboard) Show(s stats.Summary) {
	for {
		d.Render(s)

		switch ev := d.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			d.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyEnter:
				return
			case tcell.KeyUp:
				d.offset--
			case tcell.KeyDown:
				d.offset++
			case tcell.KeyPgUp:
				d.offset -= 10
			case tcell.KeyPgDn:
				d.offset += 10
			case tcell.KeyRune:
				if ev.Rune() == 'q' || ev.Rune() == 'Q' {
					return
				}
			}
		}
	}
}

func clampOffset(offset, rows, visible int) int {
	return max(0, min(offset, rows-visible))
}

func totalLines(s stats.Summary) []string {
	lines := []string{
		fmt.Sprintf("Battles: %d   Average rounds: %.2f", s.Battles, s.AvgRounds),
		fmt.Sprintf("Attacker victories: %d (%.1f%%)", s.AttackerWins, 100*s.WinRate(combat.AttackerWins)),
		fmt.Sprintf("Defender victories: %d (%.1f%%)", s.DefenderWins, 100*s.WinRate(combat.DefenderWins)),
	}
	if s.Undecided > 0 {
		lines = append(lines, fmt.Sprintf("Undecided: %d (%.1f%%)", s.Undecided, 100*s.WinRate(combat.Undecided)))
	}
	return lines
}

func roundLines(s stats.Summary) []string {
	lines := make([]string, 0, len(s.Rounds))
	for _, r := range s.Rounds {
		lines = append(lines, fmt.Sprintf("%5d  %7d  %6.2f  %6.2f  %6.2f  %6.2f  %7.1f  %7.1f  %6.1f  %6.1f",
			r.Round, r.Count,
			r.Tactics.Attacker, r.Tactics.Defender,
			r.ActualDamage.Attacker, r.ActualDamage.Defender,
			r.HP.Attacker, r.HP.Defender,
			r.Armor.Attacker, r.Armor.Defender,
		))
	}
	return lines
}

package whack

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/molepuzzle/internal/config"
	"github.com/vovakirdan/molepuzzle/internal/core"
	"github.com/vovakirdan/molepuzzle/internal/mole"
	"github.com/vovakirdan/molepuzzle/internal/session"
)

// Visual constants.
const (
	MoleFill      = '▓'
	MoleRising    = '░'
	MoleWhacked   = '✶'
	MoleFace      = "•ᴥ•"
	SlotEmpty     = '·'
	SlotFilled    = '█'
	PieceMisplace = '▒'
)

// Render draws the current phase into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.field == nil || g.now == nil {
		dst.DrawTextCentered(dst.Height()/2, "Press R to start", core.ColorWhite)
		return
	}
	now := g.now()
	theme := themeColor(g.cfg.Visual.ThemeColor)

	g.drawHUD(dst, now, theme)
	switch g.phase {
	case PhasePlaying:
		g.drawField(dst, theme)
	case PhaseAssembling:
		g.drawAssembly(dst, theme)
	case PhaseOver:
		g.drawAssembly(dst, theme)
		g.drawSummary(dst)
	}
	g.drawFooter(dst)

	if g.paused {
		drawCenteredMessage(dst, []string{"PAUSED", "Press P to resume"}, core.ColorBrightYellow)
	}
}

func (g *Game) drawHUD(dst *core.Screen, now time.Time, theme core.Color) {
	st := g.board.Status()
	hud := fmt.Sprintf(" Score: %d  Level: %d  Time: %ds  Pieces: %d/%d  Accuracy: %.0f%% ",
		g.score, g.level, int(g.remaining.Seconds()+0.999), st.Collected, st.Total, g.tracker.Accuracy()*100)
	dst.DrawColoredText(0, 0, hud, theme)

	if g.message != "" && now.Before(g.messageUntil) {
		x := dst.Width() - len([]rune(g.message)) - 1
		dst.DrawColoredText(max(len([]rune(hud)), x), 0, g.message, core.ColorBrightYellow)
	}
}

func (g *Game) drawField(dst *core.Screen, theme core.Color) {
	dst.DrawBox(outline(g.area.Cells), theme)

	for _, m := range g.field.All() {
		r := g.area.ToCells(m.Rect())
		switch m.State {
		case mole.Appearing:
			dst.DrawRect(r, MoleRising, core.ColorGray)
		case mole.Visible:
			dst.DrawRect(r, MoleFill, core.ColorOrange)
			if r.W >= 3 {
				dst.DrawColoredText(r.X+(r.W-3)/2, r.Y+r.H/2, MoleFace, core.ColorBrightWhite)
			}
		case mole.Hit:
			dst.DrawRect(r, MoleWhacked, core.ColorBrightYellow)
		}
	}
}

func (g *Game) drawAssembly(dst *core.Screen, theme core.Color) {
	dst.DrawBox(outline(g.grid.Cells), theme)
	size := g.cfg.Visual.PieceSize

	for _, p := range g.board.Pieces() {
		slot := g.grid.ToCells(core.Square(p.CorrectX, p.CorrectY, size))
		if p.Correct {
			dst.DrawRect(slot, SlotFilled, theme)
			label := fmt.Sprintf("%d,%d", p.Row+1, p.Col+1)
			if slot.W >= len(label) {
				dst.DrawColoredText(slot.X+(slot.W-len(label))/2, slot.Y+slot.H/2, label, core.ColorBrightWhite)
			}
			continue
		}
		dst.DrawRect(slot, SlotEmpty, core.ColorGray)
	}

	// Misplaced pieces sit where they were dropped, clamped to the grid.
	for _, p := range g.board.Pieces() {
		if !p.Placed || p.Correct {
			continue
		}
		x := core.Clamp(int(p.DropX), 0, max(0, g.grid.PixelW-size))
		y := core.Clamp(int(p.DropY), 0, max(0, g.grid.PixelH-size))
		color := core.ColorRed
		if p.ID == g.selected {
			color = core.ColorBrightYellow
		}
		dst.DrawRect(g.grid.ToCells(core.Square(x, y, size)), PieceMisplace, color)
	}

	dst.DrawBox(outline(g.tray), theme)
	dst.DrawColoredText(g.tray.X+1, g.tray.Y-1, " Tray ", theme)
	for i, p := range g.board.Tray() {
		if i >= g.tray.H {
			break
		}
		marker, color := "  ", core.ColorWhite
		if p.ID == g.selected {
			marker, color = "▶ ", core.ColorBrightYellow
		}
		status := ""
		if p.Placed {
			status = " ✗"
		}
		dst.DrawColoredText(g.tray.X, g.tray.Y+i, fmt.Sprintf("%sPiece %d,%d%s", marker, p.Row+1, p.Col+1, status), color)
	}
}

func (g *Game) drawSummary(dst *core.Screen) {
	if g.result.Err != nil {
		drawCenteredMessage(dst, []string{"CANNOT START", g.result.Err.Error(), "Press R to retry"}, core.ColorBrightRed)
		return
	}

	s := g.result.Session
	title := "SESSION COMPLETE"
	if s.Status == session.Abandoned {
		title = "SESSION ABANDONED"
	}
	lines := []string{
		title,
		fmt.Sprintf("Score: %d  |  Level: %d", s.Score, s.Level),
		fmt.Sprintf("Hits: %d  Misses: %d  Accuracy: %.0f%%", s.Hits, s.Misses, s.Accuracy()*100),
		fmt.Sprintf("Pieces: %d/%d", s.CompletedPieces, s.TotalPieces),
	}
	if s.PuzzleComplete {
		lines = append(lines, "Puzzle complete!")
	}
	if g.result.Rank > 0 {
		lines = append(lines, fmt.Sprintf("New high score! Rank #%d", g.result.Rank))
	}
	for _, a := range g.result.Unlocked {
		lines = append(lines, fmt.Sprintf("%s %s unlocked", a.Icon, a.Name))
	}
	lines = append(lines, "Press R to play again")
	drawCenteredMessage(dst, lines, core.ColorBrightWhite)
}

func (g *Game) drawFooter(dst *core.Screen) {
	var hint string
	switch g.phase {
	case PhasePlaying:
		hint = "Click the moles!  P pause  Q quit"
	case PhaseAssembling:
		hint = "Click a tray piece, then its slot  Enter finish  Esc deselect  Q quit"
	default:
		hint = "R restart  Q quit"
	}
	dst.DrawColoredText(1, dst.Height()-1, hint, core.ColorGray)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, lines []string, c core.Color) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	boxW := width + 4
	boxH := len(lines) + 2
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)
	for i, l := range lines {
		dst.DrawTextCentered(box.Y+1+i, l, c)
	}
}

// outline returns the rectangle one cell larger than r on every side.
func outline(r core.Rect) core.Rect {
	return core.NewRect(r.X-1, r.Y-1, r.W+2, r.H+2)
}

// themeColor maps a hex theme colour onto the closest terminal colour.
func themeColor(hex string) core.Color {
	if !config.IsValidHexColor(hex) {
		return core.ColorGreen
	}
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return core.ColorGreen
	}
	return core.NearestColor(uint8(v>>16), uint8(v>>8), uint8(v))
}

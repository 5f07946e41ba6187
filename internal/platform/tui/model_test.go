package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/molepuzzle/internal/core"
)

type stubGame struct {
	resets  int
	frames  []core.InputFrame
	state   core.GameState
	resized [2]int
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.state = core.GameState{}
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, in.Clone())
	if in.Has(core.ActionQuit) {
		g.state.GameOver = true
	}
	return core.StepResult{State: g.state}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) State() core.GameState { return g.state }

func (g *stubGame) Resize(w, h int) { g.resized = [2]int{w, h} }

func newStubModel() (Model, *stubGame) {
	g := &stubGame{}
	m := NewModel(g, core.RuntimeConfig{ScreenW: 20, ScreenH: 5, TickRate: 60, Seed: 1})
	m.Init()
	return m, g
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return out, cmd
}

func TestInitResetsGame(t *testing.T) {
	_, g := newStubModel()
	if g.resets != 1 {
		t.Errorf("expected one reset, got %d", g.resets)
	}
}

func TestMouseClickReachesGameOnTick(t *testing.T) {
	m, g := newStubModel()

	m, _ = update(t, m, tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	m, _ = update(t, m, TickMsg{})

	if len(g.frames) != 1 {
		t.Fatalf("expected one step, got %d", len(g.frames))
	}
	clicks := g.frames[0].Clicks
	if len(clicks) != 1 || clicks[0] != (core.Click{X: 3, Y: 4}) {
		t.Errorf("unexpected clicks: %+v", clicks)
	}

	update(t, m, TickMsg{})
	if len(g.frames[1].Clicks) != 0 {
		t.Error("clicks should be cleared after a tick")
	}
}

func TestQuitAbandonsLiveGame(t *testing.T) {
	m, g := newStubModel()

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if len(g.frames) != 1 || !g.frames[0].Has(core.ActionQuit) {
		t.Errorf("game should see a quit frame, got %+v", g.frames)
	}
	if !m.Quitting() || m.View() != "" {
		t.Error("model should be quitting with an empty view")
	}
}

func TestResizeUsesResizer(t *testing.T) {
	m, g := newStubModel()

	update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if g.resized != [2]int{100, 40} {
		t.Errorf("expected resize to 100x40, got %v", g.resized)
	}
	if g.resets != 1 {
		t.Error("resize should not reset a resizable game")
	}
}

func TestViewRendersScreen(t *testing.T) {
	m, _ := newStubModel()
	if !strings.Contains(m.View(), "stub") {
		t.Error("view should contain the game's output")
	}
}

func TestKeyMapping(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		want   core.Action
		isQuit bool
	}{
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}, core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}, core.ActionRestart, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, core.ActionNone, false},
	}
	for _, tt := range tests {
		got, quit := km.MapKey(tt.msg)
		if got != tt.want || quit != tt.isQuit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), got, quit, tt.want, tt.isQuit)
		}
	}
}

func TestMouseMappingIgnoresNonPress(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapMouseToFrame(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, &frame) {
		t.Error("release should not click")
	}
	if km.MapMouseToFrame(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, &frame) {
		t.Error("right button should not click")
	}
	if len(frame.Clicks) != 0 {
		t.Errorf("unexpected clicks: %+v", frame.Clicks)
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawColoredText(0, 0, "ab", core.ColorRed)
	s.DrawText(2, 0, "cd")
	s.DrawText(0, 1, "ef")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[0], "cd") || !strings.Contains(lines[1], "ef") {
		t.Errorf("unexpected output %q", out)
	}
}

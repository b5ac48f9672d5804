// Package viewer renders a game.Session with Ebiten and maps keyboard input
// onto the session lifecycle.
package viewer

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/Garsondee/Squad-Arena/internal/game"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	ScreenWidth  = 1160
	ScreenHeight = 820

	arenaScale = 2.0
	arenaTop   = 60.0 // pixels reserved for the HUD above the arena

	flashFrames  = 6
	statusFrames = 120
	logLines     = 10
)

var (
	colBackground = color.RGBA{R: 24, G: 26, B: 30, A: 255}
	colArena      = color.RGBA{R: 36, G: 44, B: 36, A: 255}
	colGap        = color.RGBA{R: 30, G: 34, B: 30, A: 255}
	colSlot       = color.RGBA{R: 90, G: 100, B: 90, A: 120}
	colSlotFilled = color.RGBA{R: 140, G: 150, B: 110, A: 60}
	colHPBack     = color.RGBA{R: 60, G: 20, B: 20, A: 200}
	colHP         = color.RGBA{R: 80, G: 220, B: 80, A: 230}
	colFlash      = color.RGBA{R: 255, G: 240, B: 160, A: 200}
	colCard       = color.RGBA{R: 40, G: 40, B: 52, A: 235}
	colText       = color.RGBA{R: 230, G: 230, B: 220, A: 255}
)

// teamColors[team][unitType]
var teamColors = [2][2]color.RGBA{
	game.TeamPlayer: {
		game.UnitKnight: {R: 70, G: 130, B: 230, A: 255},
		game.UnitArcher: {R: 120, G: 200, B: 255, A: 255},
	},
	game.TeamEnemy: {
		game.UnitKnight: {R: 220, G: 70, B: 60, A: 255},
		game.UnitArcher: {R: 255, G: 150, B: 110, A: 255},
	},
}

func rarityColor(r game.Rarity) color.RGBA {
	switch r {
	case game.RarityCommon:
		return color.RGBA{R: 190, G: 190, B: 190, A: 255}
	case game.RarityRare:
		return color.RGBA{R: 80, G: 150, B: 255, A: 255}
	case game.RarityEpic:
		return color.RGBA{R: 180, G: 90, B: 240, A: 255}
	case game.RarityLegendary:
		return color.RGBA{R: 255, G: 180, B: 40, A: 255}
	default:
		return colText
	}
}

type flash struct {
	from, to game.Vec2
	ttl      int
}

// Viewer implements ebiten.Game on top of a Session.
type Viewer struct {
	session *game.Session
	face    font.Face

	prevKeys map[ebiten.Key]bool
	paused   bool
	showLog  bool

	flashes []flash
	units   []game.Unit // snapshot taken after each tick

	status    string
	statusTTL int
}

// New creates a viewer for s. The session is left in whatever state it is in.
func New(s *game.Session) *Viewer {
	return &Viewer{
		session:  s,
		face:     basicfont.Face7x13,
		prevKeys: make(map[ebiten.Key]bool),
	}
}

// worldToScreen maps arena coordinates (origin at centre) to pixels.
func worldToScreen(cfg game.Config, p game.Vec2) (float32, float32) {
	x := ScreenWidth/2 + p.X*arenaScale
	y := arenaTop + cfg.ArenaHeight*arenaScale/2 + p.Y*arenaScale
	return float32(x), float32(y)
}

// Update advances one fixed tick and handles input.
func (v *Viewer) Update() error {
	v.handleInput()

	if !v.paused {
		v.session.Tick(v.session.Config().TickDelta())
	}
	v.units = v.session.Units()
	v.consumeEvents()

	live := v.flashes[:0]
	for _, f := range v.flashes {
		f.ttl--
		if f.ttl > 0 {
			live = append(live, f)
		}
	}
	v.flashes = live
	if v.statusTTL > 0 {
		v.statusTTL--
	}
	return nil
}

func (v *Viewer) consumeEvents() {
	for _, ev := range v.session.DrainEvents() {
		switch ev.Kind {
		case game.EventAttack:
			if ev.Attacker >= 0 && ev.Attacker < len(v.units) {
				v.flashes = append(v.flashes, flash{from: v.units[ev.Attacker].Pos, to: ev.Pos, ttl: flashFrames})
			}
		case game.EventRoundState:
			switch ev.State {
			case game.StateWon:
				v.setStatus(fmt.Sprintf("Victory! Floor %d", v.session.Floor()))
			case game.StateLost:
				v.setStatus("Defeat. Press Space to start again")
			}
		}
	}
}

func (v *Viewer) setStatus(msg string) {
	v.status = msg
	v.statusTTL = statusFrames
}

func (v *Viewer) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !v.prevKeys[k]
}

// handleInput processes lifecycle keypresses (edge-triggered).
func (v *Viewer) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	s := v.session

	space := v.pressed(currentKeys, ebiten.KeySpace)
	enter := v.pressed(currentKeys, ebiten.KeyEnter)
	if space || enter {
		if st := s.State(); st == game.StateMenu || st == game.StateLost {
			if err := s.StartGame(); err != nil {
				v.setStatus(err.Error())
			}
		}
	}

	rewardKeys := [...]ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}
	for i, k := range rewardKeys {
		if v.pressed(currentKeys, k) && s.State() == game.StateWon {
			if err := s.SelectReward(i); err != nil {
				v.setStatus(err.Error())
			}
		}
	}

	if v.pressed(currentKeys, ebiten.KeyS) && s.State() == game.StateWon {
		if err := s.SkipReward(); err != nil {
			v.setStatus(err.Error())
		}
	}

	if v.pressed(currentKeys, ebiten.KeyEscape) {
		s.ReturnToMenu()
	}

	if v.pressed(currentKeys, ebiten.KeyP) {
		v.paused = !v.paused
	}

	if v.pressed(currentKeys, ebiten.KeyL) {
		v.showLog = !v.showLog
	}

	// C: copy the latest round report to the clipboard.
	if v.pressed(currentKeys, ebiten.KeyC) {
		reports := s.Reports()
		if len(reports) == 0 {
			v.setStatus("no round report yet")
		} else if err := clipboard.WriteAll(reports[len(reports)-1].Format()); err != nil {
			v.setStatus("clipboard: " + err.Error())
		} else {
			v.setStatus("round report copied")
		}
	}

	v.prevKeys = currentKeys
}

// Draw renders the arena, units and overlays.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	cfg := v.session.Config()

	v.drawArena(screen, cfg)
	v.drawSlots(screen, cfg)
	v.drawUnits(screen, cfg)
	v.drawFlashes(screen, cfg)
	v.drawHUD(screen)

	switch v.session.State() {
	case game.StateMenu:
		v.drawCentered(screen, []string{"SQUAD ARENA", "", "Space: start", "Esc: menu  P: pause  L: log  C: copy report"})
	case game.StateWon:
		v.drawChoices(screen)
	case game.StateLost:
		v.drawCentered(screen, []string{"DEFEAT", fmt.Sprintf("Reached floor %d", v.session.Floor()), "Space: new game"})
	}

	if v.showLog {
		v.drawLog(screen)
	}
}

func (v *Viewer) drawArena(screen *ebiten.Image, cfg game.Config) {
	x0, y0 := worldToScreen(cfg, game.Vec2{X: -cfg.ArenaWidth / 2, Y: -cfg.ArenaHeight / 2})
	w := float32(cfg.ArenaWidth * arenaScale)
	h := float32(cfg.ArenaHeight * arenaScale)
	vector.FillRect(screen, x0, y0, w, h, colArena, false)

	gx, _ := worldToScreen(cfg, game.Vec2{X: -cfg.TeamGap / 2})
	vector.FillRect(screen, gx, y0, float32(cfg.TeamGap*arenaScale), h, colGap, false)
	vector.StrokeRect(screen, x0-1, y0-1, w+2, h+2, 2.0, colSlot, false)
}

func (v *Viewer) drawSlots(screen *ebiten.Image, cfg game.Config) {
	half := float32(18 * arenaScale)
	for _, sl := range v.session.Slots() {
		x, y := worldToScreen(cfg, sl.Pos)
		if sl.Occupied {
			vector.FillRect(screen, x-half, y-half, 2*half, 2*half, colSlotFilled, false)
		}
		vector.StrokeRect(screen, x-half, y-half, 2*half, 2*half, 1.0, colSlot, false)
		if sl.Occupied {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d %s", sl.Count, sl.Unit), int(x-half), int(y+half+2))
		}
	}
}

func (v *Viewer) drawUnits(screen *ebiten.Image, cfg game.Config) {
	for i := range v.units {
		u := &v.units[i]
		if !u.Alive {
			continue
		}
		x, y := worldToScreen(cfg, u.Pos)
		r := float32(4)
		if u.Type == game.UnitArcher {
			r = 3
		}
		vector.FillCircle(screen, x, y, r, teamColors[u.Team][u.Type], true)

		if u.Health < u.MaxHealth {
			bw := float32(10)
			frac := float32(u.Health / u.MaxHealth)
			vector.FillRect(screen, x-bw/2, y-r-4, bw, 2, colHPBack, false)
			vector.FillRect(screen, x-bw/2, y-r-4, bw*frac, 2, colHP, false)
		}
	}
}

func (v *Viewer) drawFlashes(screen *ebiten.Image, cfg game.Config) {
	for _, f := range v.flashes {
		x0, y0 := worldToScreen(cfg, f.from)
		x1, y1 := worldToScreen(cfg, f.to)
		c := colFlash
		c.A = uint8(int(c.A) * f.ttl / flashFrames)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1.0, c, true)
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	s := v.session
	p, e := s.AliveCounts()
	line := fmt.Sprintf("state=%-12s floor=%-3d round=%-3d  player=%-3d enemy=%-3d  speed=%.2f size=%.2f",
		s.State(), s.Floor(), s.Round(), p, e,
		s.SpeedModifier(game.TeamPlayer), s.SizeMultiplier(game.TeamPlayer))
	if v.paused {
		line += "  [PAUSED]"
	}
	ebitenutil.DebugPrintAt(screen, line, 10, 8)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("t=%.1fs  tick=%d  run=%s", s.Clock(), s.CurrentTick(), s.RunID), 10, 24)
	if v.statusTTL > 0 {
		ebitenutil.DebugPrintAt(screen, v.status, 10, 40)
	}
}

func (v *Viewer) drawCentered(screen *ebiten.Image, lines []string) {
	y := ScreenHeight/2 - len(lines)*9
	for _, l := range lines {
		w := font.MeasureString(v.face, l).Ceil()
		text.Draw(screen, l, v.face, ScreenWidth/2-w/2, y, colText)
		y += 18
	}
}

func (v *Viewer) drawChoices(screen *ebiten.Image) {
	choices := v.session.Choices()
	if len(choices) == 0 {
		v.drawCentered(screen, []string{"No rewards left", "S: continue"})
		return
	}

	const cardW, cardH, gap = 200, 110, 24
	total := len(choices)*cardW + (len(choices)-1)*gap
	x := ScreenWidth/2 - total/2
	y := ScreenHeight - cardH - 30

	for i, c := range choices {
		fx, fy := float32(x), float32(y)
		vector.FillRect(screen, fx, fy, cardW, cardH, colCard, false)
		vector.StrokeRect(screen, fx, fy, cardW, cardH, 2.0, rarityColor(c.Rarity), false)

		text.Draw(screen, fmt.Sprintf("[%d] %s", i+1, c.Name), v.face, x+10, y+22, rarityColor(c.Rarity))
		text.Draw(screen, c.Description, v.face, x+10, y+44, colText)
		text.Draw(screen, fmt.Sprintf("%s  lvl %d/%d", c.Rarity, c.Level, c.MaxLevel), v.face, x+10, y+66, colText)
		text.Draw(screen, fmt.Sprintf("copies left: %d", c.Copies), v.face, x+10, y+88, colText)
		x += cardW + gap
	}
	ebitenutil.DebugPrintAt(screen, "1-5: pick reward   S: skip", ScreenWidth/2-80, y-20)
}

func (v *Viewer) drawLog(screen *ebiten.Image) {
	entries := v.session.Log().Entries()
	var tail []game.SimLogEntry
	for i := len(entries) - 1; i >= 0 && len(tail) < logLines; i-- {
		if entries[i].Category == "move" || entries[i].Key == "hit" {
			continue
		}
		tail = append(tail, entries[i])
	}
	var sb strings.Builder
	for i := len(tail) - 1; i >= 0; i-- {
		sb.WriteString(tail[i].String())
		sb.WriteByte('\n')
	}
	ebitenutil.DebugPrintAt(screen, sb.String(), 10, ScreenHeight-logLines*16-10)
}

// Layout returns the fixed logical screen size.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Command term-arena plays the campaign in a terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/Garsondee/Squad-Arena/internal/game"
	"github.com/Garsondee/Squad-Arena/internal/sound"
	"github.com/gdamore/tcell/v2"
)

const hudRows = 3

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSlot   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleCard   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	teamStyle   = [2]tcell.Style{
		game.TeamPlayer: tcell.StyleDefault.Foreground(tcell.ColorBlue),
		game.TeamEnemy:  tcell.StyleDefault.Foreground(tcell.ColorRed),
	}
)

type app struct {
	screen  tcell.Screen
	session *game.Session
	sound   *sound.Manager

	width, height int
	paused        bool
	status        string
}

// arenaRect returns the terminal cell rectangle the arena is drawn into.
func arenaRect(w, h int) (x0, y0, aw, ah int) {
	return 1, hudRows + 1, max(w-2, 1), max(h-hudRows-6, 1)
}

// project maps an arena position to a terminal cell inside an aw x ah box.
func project(cfg game.Config, aw, ah int, p game.Vec2) (int, int) {
	fx := (p.X + cfg.ArenaWidth/2) / cfg.ArenaWidth
	fy := (p.Y + cfg.ArenaHeight/2) / cfg.ArenaHeight
	col := int(math.Floor(fx * float64(aw)))
	row := int(math.Floor(fy * float64(ah)))
	return min(max(col, 0), aw-1), min(max(row, 0), ah-1)
}

func unitRune(t game.UnitType) rune {
	if t == game.UnitArcher {
		return 'a'
	}
	return 'k'
}

func (a *app) print(x, y int, style tcell.Style, s string) {
	for i, r := range s {
		if x+i >= a.width {
			return
		}
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (a *app) draw() {
	a.screen.Clear()
	cfg := a.session.Config()
	s := a.session

	p, e := s.AliveCounts()
	a.print(0, 0, styleHUD, fmt.Sprintf("%-12s floor %-3d round %-3d  player %-3d enemy %-3d  t=%.1fs",
		s.State(), s.Floor(), s.Round(), p, e, s.Clock()))
	a.print(0, 1, styleHUD, "space start  1-5 pick  s skip  p pause  esc menu  q quit")
	if a.status != "" {
		a.print(0, 2, styleCard, a.status)
	}

	x0, y0, aw, ah := arenaRect(a.width, a.height)
	for x := x0 - 1; x <= x0+aw; x++ {
		a.screen.SetContent(x, y0-1, '-', nil, styleBorder)
		a.screen.SetContent(x, y0+ah, '-', nil, styleBorder)
	}
	for y := y0; y < y0+ah; y++ {
		a.screen.SetContent(x0-1, y, '|', nil, styleBorder)
		a.screen.SetContent(x0+aw, y, '|', nil, styleBorder)
	}

	for _, sl := range s.Slots() {
		c, r := project(cfg, aw, ah, sl.Pos)
		ch := '.'
		if sl.Occupied {
			ch = '+'
		}
		a.screen.SetContent(x0+c, y0+r, ch, nil, styleSlot)
	}
	for _, u := range s.Units() {
		if !u.Alive {
			continue
		}
		c, r := project(cfg, aw, ah, u.Pos)
		a.screen.SetContent(x0+c, y0+r, unitRune(u.Type), nil, teamStyle[u.Team])
	}

	row := y0 + ah + 1
	switch s.State() {
	case game.StateMenu:
		a.print(2, row, styleCard, "SQUAD ARENA - press space")
	case game.StateLost:
		a.print(2, row, styleCard, fmt.Sprintf("DEFEAT on floor %d - press space", s.Floor()))
	case game.StateWon:
		choices := s.Choices()
		if len(choices) == 0 {
			a.print(2, row, styleCard, "no rewards left - press s")
		}
		for i, c := range choices {
			a.print(2, row+i, styleCard, fmt.Sprintf("[%d] %-14s %-22s %-9s copies %d", i+1, c.Name, c.Description, c.Rarity, c.Copies))
		}
	}
	a.screen.Show()
}

// handleInput returns false when the user quits.
func (a *app) handleInput(ev tcell.Event) bool {
	s := a.session
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			return false
		case tcell.KeyEscape:
			s.ReturnToMenu()
			return true
		case tcell.KeyEnter:
			a.start()
			return true
		case tcell.KeyRune:
		default:
			return true
		}

		switch r := ev.Rune(); {
		case r == 'q':
			return false
		case r == ' ':
			a.start()
		case r == 'p':
			a.paused = !a.paused
		case r == 's':
			if err := s.SkipReward(); err != nil {
				a.status = err.Error()
			}
		case r >= '1' && r <= '5':
			if err := s.SelectReward(int(r - '1')); err != nil {
				a.status = err.Error()
			} else {
				a.status = ""
			}
		}

	case *tcell.EventResize:
		a.width, a.height = a.screen.Size()
		a.screen.Sync()
	}
	return true
}

func (a *app) start() {
	if st := a.session.State(); st != game.StateMenu && st != game.StateLost {
		return
	}
	if err := a.session.StartGame(); err != nil {
		a.status = err.Error()
		return
	}
	a.status = "run " + a.session.RunID
}

func (a *app) run() {
	cfg := a.session.Config()
	ticker := time.NewTicker(time.Duration(float64(time.Second) * cfg.TickDelta()))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}

		case <-ticker.C:
			if !a.paused {
				a.session.Tick(cfg.TickDelta())
			}
			events := a.session.DrainEvents()
			if a.sound != nil {
				a.sound.Play(events)
			}
			a.draw()
		}
	}
}

func main() {
	cfg := game.DefaultConfig()
	flag.Int64Var(&cfg.Seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.IntVar(&cfg.TicksPerSecond, "tps", 30, "simulation ticks per second")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	a := &app{
		screen:  screen,
		session: game.NewSession(cfg, nil, nil),
	}
	a.width, a.height = screen.Size()

	if !*mute {
		sm := sound.NewManager()
		if err := sm.Initialize(); err == nil {
			a.sound = sm
			defer sm.Close()
		}
	}

	a.run()
	screen.Fini()
}

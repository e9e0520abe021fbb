// Package desktop runs the game in an ebiten window.
package desktop

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/splitshot/internal/game"
	"github.com/tomz197/splitshot/internal/input"
)

var (
	backgroundColor = color.RGBA{R: 8, G: 10, B: 24, A: 255}
	shipColor       = color.RGBA{R: 120, G: 200, B: 255, A: 255}
	bulletColor     = color.RGBA{R: 255, G: 80, B: 80, A: 255}
	tierColors      = map[int]color.RGBA{
		1: {R: 255, G: 220, B: 120, A: 255},
		2: {R: 240, G: 170, B: 90, A: 255},
		3: {R: 210, G: 120, B: 70, A: 255},
		4: {R: 170, G: 90, B: 60, A: 255},
	}
)

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyW:          input.KeyUp,
	ebiten.KeyArrowUp:    input.KeyUp,
	ebiten.KeyS:          input.KeyDown,
	ebiten.KeyArrowDown:  input.KeyDown,
	ebiten.KeyA:          input.KeyLeft,
	ebiten.KeyArrowLeft:  input.KeyLeft,
	ebiten.KeyD:          input.KeyRight,
	ebiten.KeyArrowRight: input.KeyRight,
	ebiten.KeySpace:      input.KeyConfirm,
	ebiten.KeyEnter:      input.KeyConfirm,
	ebiten.KeyQ:          input.KeyQuit,
	ebiten.KeyEscape:     input.KeyQuit,
}

// Window adapts a game to ebiten.Game.
type Window struct {
	game *game.Game
	w, h float64
}

// New starts a game for a desktop window.
func New(opts game.Options) (*Window, error) {
	g, err := game.New(opts)
	if err != nil {
		return nil, err
	}
	cfg := g.Config()
	return &Window{game: g, w: cfg.ScreenWidth, h: cfg.ScreenHeight}, nil
}

// Run opens the window and blocks until it closes.
func (win *Window) Run() error {
	defer win.game.Close()
	ebiten.SetWindowTitle("Splitshot")
	ebiten.SetWindowSize(int(win.w), int(win.h))
	ebiten.SetTPS(int(math.Round(1 / win.game.Config().TickDuration().Seconds())))
	return ebiten.RunGame(win)
}

// Update implements ebiten.Game.
func (win *Window) Update() error {
	for k, gk := range keyMap {
		if inpututil.IsKeyJustPressed(k) {
			win.game.HandleInput(input.Press(gk))
		}
		if inpututil.IsKeyJustReleased(k) {
			win.game.HandleInput(input.Release(gk))
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		cx, cy := ebiten.CursorPosition()
		win.game.HandleInput(input.Click(float64(cx), win.h-float64(cy)))
	}
	if win.game.Quit() {
		return ebiten.Termination
	}
	return win.game.Tick(win.game.Config().TickDuration())
}

// Draw implements ebiten.Game. Playfield y points up, so it is flipped here.
func (win *Window) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	v := win.game.View()
	sy := func(y float64) float32 { return float32(win.h - y) }

	for _, e := range v.Enemies {
		vector.StrokeCircle(screen, float32(e.X), sy(e.Y), float32(e.Radius), 2, tierColors[e.Tier], true)
		rad := e.Angle * math.Pi / 180
		vector.StrokeLine(screen, float32(e.X), sy(e.Y),
			float32(e.X+math.Cos(rad)*e.Radius), sy(e.Y+math.Sin(rad)*e.Radius), 1, tierColors[e.Tier], true)
	}
	for _, b := range v.Bullets {
		rad := b.Angle * math.Pi / 180
		tx, ty := b.X-math.Cos(rad)*b.Radius*3, b.Y-math.Sin(rad)*b.Radius*3
		vector.StrokeLine(screen, float32(tx), sy(ty), float32(b.X), sy(b.Y), float32(b.Radius), bulletColor, true)
	}
	vector.DrawFilledCircle(screen, float32(v.Ship.X), sy(v.Ship.Y), float32(v.Ship.Radius), shipColor, true)

	if v.GameOver {
		msg := fmt.Sprintf("GAME OVER\n\nScore: %d\nSplits: %d  Kills: %d\n\nSPACE or click to play again, Q to quit",
			v.Score, v.Basic, v.Final)
		ebitenutil.DebugPrintAt(screen, msg, int(win.w)/2-120, int(win.h)/2-40)
		return
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d   Splits: %d  Kills: %d", v.Displayed, v.Basic, v.Final), 8, 8)
}

// Layout implements ebiten.Game with a fixed logical size.
func (win *Window) Layout(_, _ int) (int, int) {
	return int(win.w), int(win.h)
}

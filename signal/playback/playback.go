// Package playback plays the configured signal on the system speaker. It
// is split from package signal because the speaker needs cgo audio
// libraries that headless builds do without.
package playback

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/signal"
)

// Player plays a second instance of the configured source on the speaker
// so the window can be heard alongside the analysed signal.
type Player struct {
	ctrl  *beep.Ctrl
	close func() error
}

// Play starts playback. A config without a source returns a nil Player.
func Play(cfg config.SignalConfig) (*Player, error) {
	source, closer, err := signal.NewSource(cfg)
	if err != nil || source == nil {
		return nil, err
	}

	rate := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		closer()
		return nil, err
	}

	p := &Player{ctrl: &beep.Ctrl{Streamer: source}, close: closer}
	speaker.Play(p.ctrl)
	return p, nil
}

// SetPaused pauses or resumes playback.
func (p *Player) SetPaused(paused bool) {
	if p == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

// Close stops playback and releases the source.
func (p *Player) Close() error {
	if p == nil {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	return p.close()
}

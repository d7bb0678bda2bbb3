package playback

import (
	"testing"

	"github.com/pthm-cable/spherefield/config"
)

func TestPlayWithoutSource(t *testing.T) {
	cfg := config.Default().Signal
	cfg.Source = config.SourceNone

	p, err := Play(cfg)
	if err != nil || p != nil {
		t.Fatalf("Play() = %v, %v, want nil player", p, err)
	}
	// A nil player is a silent one.
	p.SetPaused(true)
	if err := p.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_RespawnSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 300),
			Respawns:      20,
			RespawnRate:   0.001,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 1500,
		Respawns:      100,
		RespawnRate:   0.005,
	})
	if !hasBookmark(bookmarks, BookmarkRespawnSurge) {
		t.Error("expected respawn_surge bookmark")
	}
}

func TestBookmarkDetector_RespawnSurgeNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{RespawnRate: 0.001, Respawns: 20})
	bookmarks := bd.Check(WindowStats{RespawnRate: 0.01, Respawns: 200})
	if hasBookmark(bookmarks, BookmarkRespawnSurge) {
		t.Error("respawn_surge fired with a single window of history")
	}
}

func TestBookmarkDetector_SignalSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 300), SignalMean: 0.1})
	}
	bookmarks := bd.Check(WindowStats{WindowEndTick: 1200, SignalMean: 0.6})
	if !hasBookmark(bookmarks, BookmarkSignalSurge) {
		t.Error("expected signal_surge bookmark")
	}
}

func TestBookmarkDetector_CoverageDriftFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	tests := []struct {
		cv   float64
		want bool
	}{
		{0.05, false},
		{0.4, true},
		{0.5, false}, // still drifting
		{0.1, false}, // recovered
		{0.3, true},  // re-armed
	}
	for i, tt := range tests {
		got := hasBookmark(bd.Check(WindowStats{WindowEndTick: int32(i), FaceCV: tt.cv}), BookmarkCoverageDrift)
		if got != tt.want {
			t.Errorf("window %d (cv %v): coverage_drift = %v, want %v", i, tt.cv, got, tt.want)
		}
	}
}

func TestBookmarkDetector_InvariantDrift(t *testing.T) {
	bd := NewBookmarkDetector(10)
	if hasBookmark(bd.Check(WindowStats{MaxTangentError: 1e-12, MaxRadiusError: 1e-9}), BookmarkInvariantDrift) {
		t.Error("invariant_drift fired within tolerance")
	}
	if !hasBookmark(bd.Check(WindowStats{MaxRadiusError: 1e-3}), BookmarkInvariantDrift) {
		t.Error("expected invariant_drift bookmark")
	}
}

func TestBookmarkDetector_Settled(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(i * 300),
			Particles:     1000,
			SpeedMean:     0.05,
		})
		if hasBookmark(bookmarks, BookmarkSettled) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("settled fired %d times, want exactly 1", fired)
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{Respawns: 20, RespawnRate: 0.001})
	}
	bd.Reset()
	if hasBookmark(bd.Check(WindowStats{Respawns: 100, RespawnRate: 0.005}), BookmarkRespawnSurge) {
		t.Error("respawn_surge fired without history after Reset")
	}
}

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkRespawnSurge   BookmarkType = "respawn_surge"
	BookmarkSignalSurge    BookmarkType = "signal_surge"
	BookmarkCoverageDrift  BookmarkType = "coverage_drift"
	BookmarkSettled        BookmarkType = "settled"
	BookmarkInvariantDrift BookmarkType = "invariant_drift"
)

// Thresholds for the detectors.
const (
	coverageDriftCV    = 0.25
	invariantTolerance = 1e-6
	settledWindows     = 5
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	level := slog.LevelInfo
	if b.Type == BookmarkInvariantDrift {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	coverageDrifting   bool
	stableWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for settled detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets all history, for example after a reseed.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.coverageDrifting = false
	bd.stableWindowsCount = 0
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Invariant drift does not need history
	if b := bd.checkInvariantDrift(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCoverageDrift(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkRespawnSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSignalSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// recent returns the last n windows in chronological order.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	h := bd.getHistory()
	if len(h) < n {
		return nil
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkRespawnSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.RespawnRate
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.RespawnRate > avg*2.0 && stats.Respawns >= 10 {
		return &Bookmark{
			Type:        BookmarkRespawnSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Respawn rate %.5f is %.1fx average (%.5f)", stats.RespawnRate, stats.RespawnRate/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSignalSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SignalMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.SignalMean > avg*2.0 && stats.SignalMean > 0.3 {
		return &Bookmark{
			Type:        BookmarkSignalSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Signal mean %.2f is %.1fx average (%.2f)", stats.SignalMean, stats.SignalMean/avg, avg),
		}
	}
	return nil
}

// checkCoverageDrift fires once each time the face balance crosses the
// threshold, and re-arms when it recovers.
func (bd *BookmarkDetector) checkCoverageDrift(stats WindowStats) *Bookmark {
	if stats.FaceCV <= coverageDriftCV {
		bd.coverageDrifting = false
		return nil
	}
	if bd.coverageDrifting {
		return nil
	}
	bd.coverageDrifting = true
	return &Bookmark{
		Type:        BookmarkCoverageDrift,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Particles bunched on cube faces (cv %.2f)", stats.FaceCV),
	}
}

func (bd *BookmarkDetector) checkInvariantDrift(stats WindowStats) *Bookmark {
	if stats.MaxTangentError <= invariantTolerance && stats.MaxRadiusError <= invariantTolerance {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkInvariantDrift,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Tangent error %.3g, radius error %.3g", stats.MaxTangentError, stats.MaxRadiusError),
	}
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Particles == 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	window := bd.recent(4)
	if window == nil {
		return nil
	}

	var sum float64
	for _, h := range window {
		sum += h.SpeedMean
	}
	mean := sum / 4

	var variance float64
	for _, h := range window {
		d := h.SpeedMean - mean
		variance += d * d
	}
	variance /= 4

	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if cv2 < 0.0025 { // CV < 5%
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == settledWindows { // trigger exactly once
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean speed settled near %.4f over %d windows", stats.SpeedMean, settledWindows),
		}
	}
	return nil
}

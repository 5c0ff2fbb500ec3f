package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

const (
	feedPanelWidth = 340
	feedMaxEntries = 60
	feedLineHeight = 12
)

// EventFeed is a ring buffer of SimLog entries rendered as a side panel.
type EventFeed struct {
	entries []SimLogEntry
	head    int
	count   int
	seen    int // SimLog entries already pulled
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{entries: make([]SimLogEntry, feedMaxEntries)}
}

// Add appends an entry, overwriting the oldest when full.
func (f *EventFeed) Add(e SimLogEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Pull copies log entries recorded since the last call.
func (f *EventFeed) Pull(log *SimLog) {
	for _, e := range log.Since(f.seen) {
		f.Add(e)
	}
	f.seen = log.Len()
}

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []SimLogEntry {
	out := make([]SimLogEntry, f.count)
	for i := 0; i < f.count; i++ {
		out[i] = f.entries[(f.head-f.count+i+feedMaxEntries)%feedMaxEntries]
	}
	return out
}

// categoryColor tints the row marker by event category.
func categoryColor(category string) color.Color {
	switch category {
	case "mimic":
		return colornames.Orchid
	case "visibility":
		return colornames.Gold
	case "mover":
		return colornames.Steelblue
	case "audio":
		return colornames.Seagreen
	case "spawn":
		return colornames.Tomato
	case "config":
		return colornames.Red
	}
	return colornames.Gray
}

// Draw renders the feed on the right side of the screen, newest at the
// bottom.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, float32(panelH), color.RGBA{R: 10, G: 10, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1, color.RGBA{R: 60, G: 60, B: 80, A: 255}, false)
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, 16, color.RGBA{R: 22, G: 22, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const highlight = 3
	y := 20
	for i, e := range entries {
		if i >= len(entries)-highlight {
			vector.FillRect(screen, float32(panelX+2), float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 34, G: 34, B: 50, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 6, categoryColor(e.Category), false)
		line := fmt.Sprintf("%5.1f %-3s %s.%s %s", e.Time, e.Enemy, e.Category, e.Key, e.Value)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += feedLineHeight
	}
}

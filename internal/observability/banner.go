package observability

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var startTime = time.Now()

const (
	colorReset    = "\033[0m"
	colorPurple   = "\033[35m"
	colorNeonCyan = "\033[96m"
	colorNeonMag  = "\033[95m"
)

var spinnerFrames = []string{"◜", "◝", "◞", "◟"}
var spinnerIdx = 0

// termMu synchronizes ALL terminal output so that the status line rewrite
// can never be interleaved with a log write.
var termMu sync.Mutex

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return w
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ------------------------------------------------------------
// TermWriter – a mutex-guarded io.Writer for log output.
// Clears the live status line before writing so log lines never land
// in the middle of it.
// ------------------------------------------------------------

type termWriter struct{}

func (tw termWriter) Write(p []byte) (n int, err error) {
	termMu.Lock()
	defer termMu.Unlock()
	fmt.Fprint(os.Stderr, "\r\033[K")
	return os.Stderr.Write(p)
}

// NewTermWriter returns an io.Writer suitable for log.SetOutput().
// It serialises writes with PrintLiveStatus via termMu.
func NewTermWriter() *termWriter {
	return &termWriter{}
}

// ------------------------------------------------------------
// Banner
// ------------------------------------------------------------

func PrintBanner() {
	banner := `
   _____ ___    ____  ________  ______
  / ___//   |  / __ \/_  __/ / / /  _/
  \__ \/ /| | / /_/ / / / / /_/ // /
 ___/ / ___ |/ _, _/ / / / __  // /
/____/_/  |_/_/ |_| /_/ /_/ /_/___/

     >> OBJECTIVE -> TASK GRAPH <<
`

	width := termWidth()
	lines := strings.Split(banner, "\n")

	for _, l := range lines {
		padding := (width - len(l)) / 2
		if padding < 0 {
			padding = 0
		}
		fmt.Printf("%s%s%s\n", strings.Repeat(" ", padding), colorNeonCyan+l, colorReset)
	}
}

// ------------------------------------------------------------
// Live Status
// ------------------------------------------------------------

// PrintLiveStatus rewrites a single status line showing the current phase,
// active task, uptime, and memory use.
func PrintLiveStatus() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(startTime).Round(time.Second)
	memMB := float64(m.Alloc) / 1024 / 1024

	phase, task, _ := GetStatus()

	icon := "💤"
	phaseColor := colorReset
	switch phase {
	case PhasePlanning:
		icon = "🧭"
		phaseColor = colorNeonCyan
	case PhaseExecuting:
		icon = "⚙️"
		phaseColor = colorNeonMag
	}

	spinner := " "
	if phase != PhaseIdle {
		spinner = spinnerFrames[spinnerIdx]
		spinnerIdx = (spinnerIdx + 1) % len(spinnerFrames)
	}

	displayTask := task
	if displayTask == "" {
		displayTask = "waiting"
	}
	maxTask := clamp(termWidth()-50, 10, 40)
	if len(displayTask) > maxTask {
		displayTask = displayTask[:maxTask-3] + "..."
	}

	statusStr := fmt.Sprintf(
		"\r\033[K%s%s %-9s%s %s%s%s %s [%v] [%.1fMB]",
		phaseColor, icon, phase, colorReset,
		colorPurple, spinner, colorReset,
		displayTask,
		uptime,
		memMB,
	)

	termMu.Lock()
	fmt.Print(statusStr)
	termMu.Unlock()
}

// ClearLiveStatus wipes the status line, leaving the cursor at column one.
func ClearLiveStatus() {
	termMu.Lock()
	fmt.Print("\r\033[K")
	termMu.Unlock()
}

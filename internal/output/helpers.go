package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/tanq16/ruantools/internal/utils"
	"golang.org/x/term"
)

// ProgressBar renders a bar for current/total. An unknown total (<= 0)
// renders the byte count only.
func ProgressBar(current, total int64, width int) string {
	if width <= 0 {
		width = 30
	}
	if total <= 0 {
		return debugStyle.Render(fmt.Sprintf("%s %s ", StyleSymbols["bullet"], utils.FormatBytes(uint64(max(0, current)))))
	}
	current = max(0, min(current, total))
	percent := float64(current) / float64(total)
	filled := max(0, min(int(percent*float64(width)), width))
	bar := StyleSymbols["bullet"] + strings.Repeat(StyleSymbols["hline"], filled) + strings.Repeat(" ", width-filled) + StyleSymbols["bullet"]
	return debugStyle.Render(fmt.Sprintf("%s %.1f%% %s ", bar, percent*100, StyleSymbols["bullet"]))
}

// ProgressLine is the stream line shown under an active download.
func ProgressLine(p utils.Progress) string {
	sizeText := utils.FormatBytes(uint64(max(0, p.Downloaded)))
	if p.Total > 0 {
		sizeText += " / " + utils.FormatBytes(uint64(p.Total))
	}
	return fmt.Sprintf("%s%s %s %s", ProgressBar(p.Downloaded, p.Total, 30), debugStyle.Render(sizeText), StyleSymbols["bullet"], debugStyle.Render(utils.FormatSpeed(p.BytesPerSecond)))
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func getTerminalHeight() int {
	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || height <= 0 {
		return 24
	}
	return height
}

package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tanq16/ruantools/internal/utils"
)

type FunctionOutput struct {
	ID          int
	Label       string
	Status      string
	Message     string
	StreamLines []string
	Complete    bool
	StartTime   time.Time
	LastUpdated time.Time
	Error       error
}

type ErrorReport struct {
	FunctionName string
	Error        error
	Time         time.Time
}

// Manager tracks concurrently running jobs and redraws their status lines
// in place. Without a terminal it stays quiet until the summary.
type Manager struct {
	out           io.Writer
	outputs       map[int]*FunctionOutput
	mutex         sync.RWMutex
	numLines      int
	errors        []ErrorReport
	doneCh        chan struct{}
	displayTick   time.Duration
	functionCount int
	displayWg     sync.WaitGroup
	interactive   bool
}

func NewManager() *Manager {
	return NewManagerWithWriter(os.Stdout, isTerminal())
}

func NewManagerWithWriter(w io.Writer, interactive bool) *Manager {
	return &Manager{
		out:         w,
		outputs:     make(map[int]*FunctionOutput),
		doneCh:      make(chan struct{}),
		displayTick: 300 * time.Millisecond,
		interactive: interactive,
	}
}

func (m *Manager) RegisterFunction(label string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.functionCount++
	now := time.Now()
	m.outputs[m.functionCount] = &FunctionOutput{
		ID:          m.functionCount,
		Label:       label,
		Status:      StatusPending,
		StartTime:   now,
		LastUpdated: now,
	}
	return m.functionCount
}

func (m *Manager) update(id int, fn func(f *FunctionOutput)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if f, ok := m.outputs[id]; ok {
		fn(f)
		f.LastUpdated = time.Now()
	}
}

func (m *Manager) SetMessage(id int, message string) {
	m.update(id, func(f *FunctionOutput) { f.Message = message })
}

func (m *Manager) SetStatus(id int, status string) {
	m.update(id, func(f *FunctionOutput) { f.Status = status })
}

func (m *Manager) GetStatus(id int) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if f, ok := m.outputs[id]; ok {
		return f.Status
	}
	return "unknown"
}

// SetProgress replaces the stream lines of id with a single progress line.
func (m *Manager) SetProgress(id int, p utils.Progress) {
	m.update(id, func(f *FunctionOutput) {
		f.Status = StatusActive
		f.StreamLines = []string{ProgressLine(p)}
	})
}

func (m *Manager) Complete(id int, message string) {
	m.update(id, func(f *FunctionOutput) {
		f.StreamLines = nil
		if message == "" {
			message = fmt.Sprintf("Completed %s", f.Label)
		}
		f.Message = message
		f.Complete = true
		f.Status = StatusSuccess
	})
}

func (m *Manager) ReportError(id int, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if f, ok := m.outputs[id]; ok {
		f.Complete = true
		f.Status = StatusError
		f.Error = err
		f.StreamLines = nil
		f.LastUpdated = time.Now()
		m.errors = append(m.errors, ErrorReport{FunctionName: f.Label, Error: err, Time: time.Now()})
	}
}

func (m *Manager) Errors() []ErrorReport {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]ErrorReport(nil), m.errors...)
}

func (m *Manager) GetStatusIndicator(status string) string {
	switch status {
	case StatusSuccess:
		return successStyle.Render(StyleSymbols["pass"])
	case StatusError:
		return errorStyle.Render(StyleSymbols["fail"])
	case StatusWarning:
		return warningStyle.Render(StyleSymbols["warning"])
	case StatusPending:
		return pendingStyle.Render(StyleSymbols["pending"])
	default:
		return infoStyle.Render(StyleSymbols["arrow"])
	}
}

func styleMessage(status, message string) string {
	switch status {
	case StatusSuccess:
		return successStyle.Render(message)
	case StatusError:
		return errorStyle.Render(message)
	case StatusWarning:
		return warningStyle.Render(message)
	default:
		return pendingStyle.Render(message)
	}
}

func (m *Manager) sorted() []*FunctionOutput {
	all := make([]*FunctionOutput, 0, len(m.outputs))
	for _, f := range m.outputs {
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func (m *Manager) updateDisplay() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	availableLines := getTerminalHeight() - 3
	if m.numLines > 0 {
		fmt.Fprintf(m.out, "\033[%dA\033[J", m.numLines)
	}
	lineCount := 0
	for _, f := range m.sorted() {
		if lineCount >= availableLines {
			break
		}
		elapsed := time.Since(f.StartTime).Round(time.Second)
		if f.Complete {
			elapsed = f.LastUpdated.Sub(f.StartTime).Round(time.Second)
		}
		message := f.Message
		if message == "" {
			message = "Waiting..."
		}
		fmt.Fprintf(m.out, "  %s %s %s\n", m.GetStatusIndicator(f.Status), debugStyle.Render(elapsed.String()), styleMessage(f.Status, message))
		lineCount++
		for _, line := range f.StreamLines {
			if lineCount >= availableLines {
				break
			}
			fmt.Fprintf(m.out, "      %s\n", streamStyle.Render(line))
			lineCount++
		}
	}
	m.numLines = lineCount
}

func (m *Manager) StartDisplay() {
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if m.interactive {
					m.updateDisplay()
				}
			case <-m.doneCh:
				if m.interactive {
					m.updateDisplay()
				}
				m.ShowSummary()
				return
			}
		}
	}()
}

func (m *Manager) StopDisplay() {
	close(m.doneCh)
	m.displayWg.Wait()
}

func (m *Manager) ShowSummary() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var success, failures int
	for _, f := range m.outputs {
		switch f.Status {
		case StatusSuccess:
			success++
		case StatusError:
			failures++
		}
	}
	fmt.Fprintln(m.out)
	if !m.interactive {
		for _, f := range m.sorted() {
			fmt.Fprintf(m.out, "  %s %s\n", m.GetStatusIndicator(f.Status), styleMessage(f.Status, f.Message))
		}
	}
	fmt.Fprintln(m.out, "  "+success2Style.Render(fmt.Sprintf("Completed %d of %d", success, len(m.outputs))))
	if failures > 0 {
		fmt.Fprintln(m.out, "  "+errorStyle.Render(fmt.Sprintf("Failed %d of %d", failures, len(m.outputs))))
	}
	if len(m.errors) > 0 {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "  "+errorStyle.Bold(true).Render("Errors:"))
		for i, e := range m.errors {
			fmt.Fprintf(m.out, "    %s %s %s\n",
				errorStyle.Render(fmt.Sprintf("%d.", i+1)),
				debugStyle.Render(fmt.Sprintf("[%s]", e.Time.Format("15:04:05"))),
				errorStyle.Render(e.FunctionName))
			fmt.Fprintf(m.out, "      %s\n", errorStyle.Render(strings.TrimSpace(e.Error.Error())))
		}
	}
	fmt.Fprintln(m.out)
}

package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/careerpath/internal/model"
)

const previewWidth = 72

var (
	historyHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(1, 0, 0, 2)
	historyRowStyle    = lipgloss.NewStyle().PaddingLeft(4)
	historyCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).PaddingLeft(2)
	historyHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(1, 0, 0, 2)
	historyPreview     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Width(previewWidth).Padding(0, 1).MarginLeft(2)
)

var sourceBadges = map[model.Source]lipgloss.Style{
	model.SourceModel:            lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	model.SourceFallback:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	model.SourceFallbackReactive: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
}

// pickerModel lists generation records, optionally narrowed to one operation,
// and previews the highlighted one.
type pickerModel struct {
	records []model.GenerationRecord
	filter  int // index into model.Operations, -1 for all
	cursor  int // position within visible()
	chosen  int // index into records; -1 until enter
	quit    bool
}

func newPickerModel(records []model.GenerationRecord) pickerModel {
	return pickerModel{records: records, filter: -1, chosen: -1}
}

// visible returns the indexes of records that pass the operation filter.
func (m pickerModel) visible() []int {
	idx := make([]int, 0, len(m.records))
	for i, r := range m.records {
		if m.filter < 0 || r.Operation == model.Operations[m.filter] {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	rows := m.visible()

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quit = true
		return m, tea.Quit
	case tea.KeyUp:
		m.cursor = max(m.cursor-1, 0)
	case tea.KeyDown:
		m.cursor = min(m.cursor+1, max(len(rows)-1, 0))
	case tea.KeyHome:
		m.cursor = 0
	case tea.KeyEnd:
		m.cursor = max(len(rows)-1, 0)
	case tea.KeyTab:
		// all -> insights -> ... -> chat -> all
		m.filter++
		if m.filter >= len(model.Operations) {
			m.filter = -1
		}
		m.cursor = 0
	case tea.KeyEnter:
		if len(rows) == 0 {
			return m, nil
		}
		m.chosen = rows[m.cursor]
		return m, tea.Quit
	case tea.KeyRunes:
		switch string(key.Runes) {
		case "q":
			m.quit = true
			return m, tea.Quit
		case "k":
			m.cursor = max(m.cursor-1, 0)
		case "j":
			m.cursor = min(m.cursor+1, max(len(rows)-1, 0))
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	scope := "all operations"
	if m.filter >= 0 {
		scope = string(model.Operations[m.filter])
	}
	b.WriteString(historyHeaderStyle.Render(fmt.Sprintf("Generation history (%s)", scope)))
	b.WriteString("\n\n")

	rows := m.visible()
	if len(rows) == 0 {
		b.WriteString(historyRowStyle.Render("nothing recorded for this operation"))
		b.WriteString("\n")
	}
	for pos, i := range rows {
		r := m.records[i]
		line := fmt.Sprintf("%s  %-11s %s  %s",
			r.CreatedAt.Local().Format("Jan 02 15:04"),
			r.Operation,
			sourceBadge(r.Source),
			r.Duration.Round(time.Millisecond))
		if pos == m.cursor {
			b.WriteString(historyCursorStyle.Render("> " + line))
		} else {
			b.WriteString(historyRowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(rows) > 0 {
		b.WriteString("\n")
		b.WriteString(historyPreview.Render(previewRecord(m.records[rows[m.cursor]])))
		b.WriteString("\n")
	}

	b.WriteString(historyHintStyle.Render("↑/↓ move  tab filter  enter show  q quit"))
	return b.String()
}

func sourceBadge(s model.Source) string {
	style, ok := sourceBadges[s]
	if !ok {
		return fmt.Sprintf("%-17s", s)
	}
	return style.Render(fmt.Sprintf("%-17s", s))
}

// previewRecord summarizes a stored result in a few lines. Payloads that do
// not decode as their operation's result type are shown raw.
func previewRecord(r model.GenerationRecord) string {
	var lines []string
	var err error

	switch r.Operation {
	case model.OpInsights:
		var recs []model.CareerRecommendation
		if err = json.Unmarshal(r.Payload, &recs); err == nil {
			for _, c := range recs {
				lines = append(lines, fmt.Sprintf("%s (%d%% match)", c.Title, c.MatchScore))
			}
		}
	case model.OpRoadmap:
		var plan model.RoadmapPlan
		if err = json.Unmarshal(r.Payload, &plan); err == nil {
			lines = append(lines, fmt.Sprintf("%s, %d phases over %s", plan.Title, len(plan.Phases), plan.Timeframe))
			for _, p := range plan.Phases {
				lines = append(lines, fmt.Sprintf("  %d. %s (%s)", p.Phase, p.Title, p.Duration))
			}
		}
	case model.OpExplanation:
		var e model.Explanation
		if err = json.Unmarshal(r.Payload, &e); err == nil {
			lines = append(lines, e.Summary)
		}
	case model.OpResources:
		var res model.LearningResources
		if err = json.Unmarshal(r.Payload, &res); err == nil {
			lines = append(lines, fmt.Sprintf("%d videos, %d jobs, %d news items", len(res.Videos), len(res.Jobs), len(res.News)))
			for _, j := range res.Jobs {
				lines = append(lines, "  "+j.Title+" at "+j.Company)
			}
		}
	case model.OpAnalysis:
		var a model.CareerAnalysis
		if err = json.Unmarshal(r.Payload, &a); err == nil {
			lines = append(lines, a.Summary)
		}
	case model.OpChat:
		var reply string
		if err = json.Unmarshal(r.Payload, &reply); err == nil {
			lines = append(lines, reply)
		}
	}

	if err != nil || len(lines) == 0 {
		return truncateRunes(string(r.Payload), previewWidth*3)
	}
	if len(lines) > 6 {
		lines = append(lines[:6], fmt.Sprintf("  ... %d more", len(lines)-6))
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// RunHistoryPicker shows an interactive selector over records.
// Returns the index of the chosen record, or -1 if the user quit.
func RunHistoryPicker(records []model.GenerationRecord) (int, error) {
	result, err := tea.NewProgram(newPickerModel(records)).Run()
	if err != nil {
		return -1, err
	}
	final := result.(pickerModel)
	if final.quit {
		return -1, nil
	}
	return final.chosen, nil
}

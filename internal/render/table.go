package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/progress"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

const (
	fieldWidth = 22
	valueWidth = 60
)

type TableRenderer struct {
	titleStyle   lipgloss.Style
	headerStyle  lipgloss.Style
	keyStyle     lipgloss.Style
	cellStyle    lipgloss.Style
	oddRowStyle  lipgloss.Style
	evenRowStyle lipgloss.Style
	borderStyle  lipgloss.Style
}

func NewTableRenderer() *TableRenderer {
	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")

	return &TableRenderer{
		titleStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true),
		headerStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Align(lipgloss.Center).
			Padding(0, 1),
		keyStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1).
			Width(fieldWidth),
		cellStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Width(valueWidth),
		oddRowStyle: lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1),
		evenRowStyle: lipgloss.NewStyle().
			Foreground(lightGray).
			Padding(0, 1),
		borderStyle: lipgloss.NewStyle().
			Foreground(purple),
	}
}

// section is a titled block of field/value rows.
type section struct {
	title string
	rows  [][2]string
}

func (s *section) add(field, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	s.rows = append(s.rows, [2]string{field, value})
}

func (r *TableRenderer) Lesson(p lesson.Payload) (string, error) {
	if p == nil {
		return "No lesson", nil
	}

	sections, err := lessonSections(p)
	if err != nil {
		return "", err
	}

	blocks := make([]string, 0, len(sections)*2)
	for _, s := range sections {
		if len(s.rows) == 0 {
			continue
		}
		blocks = append(blocks, r.titleStyle.Render(s.title), r.fields(s.rows))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...), nil
}

func (r *TableRenderer) fields(rows [][2]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.borderStyle).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return r.keyStyle
			}
			return r.cellStyle
		})
	for _, row := range rows {
		t.Row(row[0], row[1])
	}
	return t.String()
}

func (r *TableRenderer) grid(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.headerStyle
			case row%2 == 0:
				return r.evenRowStyle
			default:
				return r.oddRowStyle
			}
		}).
		Headers(headers...)
	for _, row := range rows {
		t.Row(row...)
	}
	return t.String()
}

func (r *TableRenderer) Topics(topics []lesson.TopicDetails) (string, error) {
	if len(topics) == 0 {
		return "No topics found", nil
	}
	rows := make([][]string, 0, len(topics))
	for _, d := range topics {
		rows = append(rows, []string{
			truncate(d.OriginalTopic, 30),
			truncate(d.TopicInTargetLanguage, 30),
			truncate(d.PronunciationInBase, 30),
		})
	}
	return r.grid([]string{"Topic", "Target", "Pronunciation"}, rows), nil
}

func (r *TableRenderer) SavedLessons(saved []progress.SavedLesson) (string, error) {
	if len(saved) == 0 {
		return "No saved lessons", nil
	}
	rows := make([][]string, 0, len(saved))
	for _, l := range saved {
		rows = append(rows, []string{
			l.ID,
			l.Timestamp.Format("2006-01-02 15:04"),
			l.Language,
			truncate(l.SubCategory, 25),
			l.Mode,
		})
	}
	return r.grid([]string{"ID", "Saved", "Language", "Topic", "Mode"}, rows), nil
}

func (r *TableRenderer) Categories(cats []progress.Category) (string, error) {
	if len(cats) == 0 {
		return "No categories found", nil
	}
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		custom := ""
		if c.IsCustom {
			custom = "yes"
		}
		rows = append(rows, []string{
			c.Icon + " " + c.Name,
			strconv.Itoa(len(c.SubCategories)),
			custom,
		})
	}
	return r.grid([]string{"Category", "Topics", "Custom"}, rows), nil
}

func (r *TableRenderer) Languages(langs []lesson.LanguageDetails) (string, error) {
	if len(langs) == 0 {
		return "No languages found", nil
	}
	rows := make([][]string, 0, len(langs))
	for _, l := range langs {
		custom := ""
		if l.IsCustom {
			custom = "yes"
		}
		rows = append(rows, []string{
			strings.TrimSpace(l.Emoji + " " + l.Name),
			l.NativeName,
			l.TTSCode,
			custom,
		})
	}
	return r.grid([]string{"Language", "Native", "Voice", "Custom"}, rows), nil
}

func (r *TableRenderer) Progress(s Summary) (string, error) {
	overview := section{title: "Progress"}
	if s.Language != "" {
		overview.add("Language", s.Language)
	}
	overview.add("Streak", fmt.Sprintf("%d day(s)", s.Streak))
	overview.add("Points", strconv.Itoa(s.Points))
	overview.add("Mastery", percent(s.Mastery))
	overview.add("Completed today", strconv.Itoa(len(s.CompletedToday)))

	blocks := []string{r.titleStyle.Render(overview.title), r.fields(overview.rows)}

	if len(s.Performance) > 0 {
		keys := make([]string, 0, len(s.Performance))
		for k := range s.Performance {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			entry := s.Performance[k]
			rows = append(rows, []string{truncate(k, 40), strconv.Itoa(len(entry.Scores)), percent(entry.Average)})
		}
		blocks = append(blocks, r.grid([]string{"Topic", "Attempts", "Average"}, rows))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...), nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

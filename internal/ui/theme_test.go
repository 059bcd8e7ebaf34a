package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func colorString(c lipgloss.TerminalColor) string {
	if col, ok := c.(lipgloss.Color); ok {
		return string(col)
	}
	return ""
}

func TestLevelTextUsesLevelColor(t *testing.T) {
	th := defaultTheme()
	styles := th.Styles()

	for level, color := range th.LevelColors {
		assert.Equal(t, color, colorString(styles.LevelText(level).GetForeground()), "LevelText(%q)", level)
	}
}

func TestLevelTextFallsBackToMuted(t *testing.T) {
	th := defaultTheme()
	assert.Equal(t, th.Muted, colorString(th.Styles().LevelText("nonsense").GetForeground()))
}

func TestLevelTextIsCaseInsensitive(t *testing.T) {
	styles := defaultTheme().Styles()
	assert.Equal(t,
		colorString(styles.LevelText("ERROR").GetForeground()),
		colorString(styles.LevelText(" error ").GetForeground()))
}

func TestThemesDefineEveryColor(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for field, value := range map[string]string{
			"Background":  th.Background,
			"Surface":     th.Surface,
			"FocusBg":     th.FocusBg,
			"SelectionBg": th.SelectionBg,
			"Text":        th.Text,
			"Muted":       th.Muted,
			"Accent":      th.Accent,
			"Highlight":   th.Highlight,
		} {
			assert.NotEmpty(t, strings.TrimSpace(value), "%s.%s is empty", name, field)
		}
	}
}

func TestThemeNames(t *testing.T) {
	assert.Equal(t, []string{"Dracula", "Slate"}, ThemeNames())
}

func TestNextTheme(t *testing.T) {
	assert.Equal(t, "Slate", NextTheme("Dracula"))
	assert.Equal(t, "Dracula", NextTheme("Slate"))
	assert.Equal(t, "Dracula", NextTheme("Unknown"))
}

func TestGetTheme(t *testing.T) {
	assert.Equal(t, "Dracula", GetTheme("Dracula").Name)
	assert.Equal(t, "Slate", GetTheme("Slate").Name)
	assert.Equal(t, "Dracula", GetTheme("Unknown").Name, "unknown themes fall back to Dracula")
}

func TestDefaultThemeIsDracula(t *testing.T) {
	assert.Equal(t, "Dracula", defaultTheme().Name)
}

package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the status panel. The swarm itself is coloured by the
// palette.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Border  lipgloss.Color
	Label   lipgloss.Color
	Value   lipgloss.Color
	Graph   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Muted   lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Title:   lipgloss.Color("#ff00ff"),
		Border:  lipgloss.Color("#444466"),
		Label:   lipgloss.Color("#888899"),
		Value:   lipgloss.Color("#00ffff"),
		Graph:   lipgloss.Color("#ffff00"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ff8800"),
		Muted:   lipgloss.Color("#666688"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Title:   lipgloss.Color("#ffffff"),
		Border:  lipgloss.Color("#444444"),
		Label:   lipgloss.Color("#888888"),
		Value:   lipgloss.Color("#dddddd"),
		Graph:   lipgloss.Color("#0088ff"),
		Running: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ffaa00"),
		Muted:   lipgloss.Color("#666666"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Title:   lipgloss.Color("#00a8cc"),
		Border:  lipgloss.Color("#4488aa"),
		Label:   lipgloss.Color("#4488aa"),
		Value:   lipgloss.Color("#e0f0ff"),
		Graph:   lipgloss.Color("#ffd700"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffcc00"),
		Muted:   lipgloss.Color("#336688"),
	}

	Themes = []Theme{ThemeCyberpunk, ThemeMinimal, ThemeOcean}
)

// GetTheme returns a theme by name, or the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

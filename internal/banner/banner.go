package banner

import (
	"github.com/charmbracelet/lipgloss"

	"kvload/internal/tui/styles"
)

const art = `
 _              _                 _
| | ____   __  | | ___   __ _  __| |
| |/ /\ \ / /  | |/ _ \ / _' |/ _' |
|   <  \ V /   | | (_) | (_| | (_| |
|_|\_\  \_/    |_|\___/ \__,_|\__,_|`

const Tagline = "closed-loop load generator for key/value HTTP services"

// GetString renders the help banner: the logo over a muted tagline.
func GetString() string {
	logo := lipgloss.NewStyle().Foreground(styles.ColorAccent).Bold(true).Render(art)
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, logo, styles.Subtle.Render(Tagline)) + "\n"
}

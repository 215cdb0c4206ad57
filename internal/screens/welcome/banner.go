package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/ui/theme"
)

const bannerArt = `
  █████╗ ██╗   ██╗██╗   ██╗███████╗██╗  ██╗
 ██╔══██╗╚██╗ ██╔╝██║   ██║██╔════╝██║  ██║
 ███████║ ╚████╔╝ ██║   ██║███████╗███████║
 ██╔══██║  ╚██╔╝  ██║   ██║╚════██║██╔══██║
 ██║  ██║   ██║   ╚██████╔╝███████║██║  ██║
 ╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚══════╝╚═╝  ╚═╝`

const bannerCompact = "A Y U S H"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 46

// RenderBanner returns the AYUSH banner, or a compact one on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

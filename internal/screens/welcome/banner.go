package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sfassess/internal/ui/theme"
)

const bannerArt = `
 ███████╗███████╗     █████╗ ███████╗███████╗███████╗███████╗███████╗
 ██╔════╝██╔════╝    ██╔══██╗██╔════╝██╔════╝██╔════╝██╔════╝██╔════╝
 ███████╗█████╗      ███████║███████╗███████╗█████╗  ███████╗███████╗
 ╚════██║██╔══╝      ██╔══██║╚════██║╚════██║██╔══╝  ╚════██║╚════██║
 ███████║██║         ██║  ██║███████║███████║███████╗███████║███████║
 ╚══════╝╚═╝         ╚═╝  ╚═╝╚══════╝╚══════╝╚══════╝╚══════╝╚══════╝`

const bannerCompact = "S F   A S S E S S"

// RenderBanner returns the product banner, or a one-line fallback for
// terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 72 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

package chart

import (
	"github.com/guptarohit/asciigraph"

	"github.com/grazulex/packagist-stats/internal/models"
	"github.com/grazulex/packagist-stats/internal/ui/styles"
)

// Preview renders the totals of s as an ASCII line chart for the terminal,
// headed by caption.
func Preview(s models.Series, width, height int, caption string) string {
	if s.Len() == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	graph := asciigraph.Plot(s.Totals,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(s.Dates[0]+" .. "+s.Dates[s.Len()-1]),
	)

	return styles.TitleStyle.Render(caption) + "\n" + graph
}

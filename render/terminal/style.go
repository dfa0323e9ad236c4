package terminal

import "github.com/charmbracelet/lipgloss"

var (
	// Source colors — blue for the writer, emerald for the AI.
	colorUser = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	colorAI   = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34d399"}

	// UI colors.
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
	colorLabel  = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"} // purple
	colorDelete = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

var (
	styleUserBadge = lipgloss.NewStyle().Foreground(colorUser).Bold(true)
	styleAIBadge   = lipgloss.NewStyle().Foreground(colorAI).Bold(true)

	styleTitle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleMeta  = lipgloss.NewStyle().Foreground(colorDim)

	styleStat      = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleStatLabel = lipgloss.NewStyle().Foreground(colorDim)

	styleLevelLabel = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	styleDetail     = lipgloss.NewStyle().Foreground(colorDim)
	styleInserted   = lipgloss.NewStyle().Foreground(colorAI)
	styleDeleted    = lipgloss.NewStyle().Foreground(colorDelete)

	styleSeparator = lipgloss.NewStyle().Foreground(colorDim)
)

// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the atui terminal
// client. All colors use Lip Gloss AdaptiveColor for automatic light/dark
// detection; the dark variants follow the dashboard's grid-line palette.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Blue - Primary accent, brand color, selections, agent output
var Blue = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#00D4FF"}

// BlueDim - Secondary accent for borders and less prominent chrome
var BlueDim = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#00A8CC"}

// Orange - Highlights, the active research indicator, warnings
var Orange = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FF9500"}

// Emerald - Success states, open-connection indicator
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors and failed results
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0A0A0F"}

// SurfacePanel - Cards, the status bar, modal backgrounds
var SurfacePanel = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#12121A"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#1E2430"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#D6E4EA"}

// TextSecondary - Labels, timestamps, event lines
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#7A8A99"}

// TextMuted - Hints and placeholder text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#4A5561"}

// TextInverse - Text on accent backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0A0A0F"}

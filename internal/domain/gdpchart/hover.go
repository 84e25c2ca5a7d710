package gdpchart

import (
	"fmt"

	apperrors "github.com/yanqian/gdp-chart/pkg/errors"
)

// HoverState is the per-bar pointer state.
type HoverState int

const (
	HoverIdle HoverState = iota
	HoverHovered
)

func (s HoverState) String() string {
	if s == HoverHovered {
		return "hovered"
	}
	return "idle"
}

// Tooltip placement relative to the pointer, and its opacity while shown.
const (
	TooltipOffsetX        = 5.0
	TooltipOffsetY        = -38.0
	TooltipVisibleOpacity = 0.9
)

// Pointer is the page position of a hover event.
type Pointer struct {
	PageX float64 `json:"pageX"`
	PageY float64 `json:"pageY"`
}

// Tooltip is the shared annotation of an interactive chart.
type Tooltip struct {
	Opacity    float64 `json:"opacity"`
	Content    string  `json:"content"`
	DataDate   string  `json:"dataDate"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	HoveredBar int     `json:"hoveredBar"`
}

// Visible reports whether the tooltip is currently shown.
func (t Tooltip) Visible() bool {
	return t.Opacity > 0
}

// TooltipContent is the text shown for a bar.
func TooltipContent(b Bar) string {
	return fmt.Sprintf("Date: %s\nGDP: $%s Billion", b.DataDate, b.DataGDP)
}

// Tooltip returns a copy of the tooltip state; ok is false for charts rendered without one.
func (c *Chart) Tooltip() (Tooltip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tooltip == nil {
		return Tooltip{}, false
	}
	return *c.tooltip, true
}

// HoverStateOf returns the state machine position of one bar.
func (c *Chart) HoverStateOf(index int) (HoverState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkBarLocked(index); err != nil {
		return HoverIdle, err
	}
	return c.hover[index], nil
}

// HoverEnter moves the bar to hovered and shows the tooltip next to the pointer.
// Only one bar can be hovered at a time; a previously hovered bar returns to idle.
func (c *Chart) HoverEnter(index int, p Pointer) (Tooltip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkBarLocked(index); err != nil {
		return Tooltip{}, err
	}
	if prev := c.tooltip.HoveredBar; prev >= 0 && prev != index {
		c.hover[prev] = HoverIdle
	}
	c.hover[index] = HoverHovered

	bar := c.Bars[index]
	*c.tooltip = Tooltip{
		Opacity:    TooltipVisibleOpacity,
		Content:    TooltipContent(bar),
		DataDate:   bar.DataDate,
		Left:       p.PageX + TooltipOffsetX,
		Top:        p.PageY + TooltipOffsetY,
		HoveredBar: index,
	}
	return *c.tooltip, nil
}

// HoverExit returns the bar to idle and hides the tooltip. Exiting an idle bar is a no-op.
func (c *Chart) HoverExit(index int) (Tooltip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkBarLocked(index); err != nil {
		return Tooltip{}, err
	}
	if c.hover[index] == HoverIdle {
		return *c.tooltip, nil
	}
	c.hover[index] = HoverIdle
	c.tooltip.Opacity = 0
	c.tooltip.HoveredBar = -1
	return *c.tooltip, nil
}

func (c *Chart) checkBarLocked(index int) error {
	if c.tooltip == nil {
		return apperrors.Wrap(CodeTooltipDisabled, "chart was rendered without tooltip", nil)
	}
	if index < 0 || index >= len(c.Bars) {
		return apperrors.Wrap(CodeInvalidInput, fmt.Sprintf("bar %d does not exist", index), errBarIndex)
	}
	return nil
}

package calendar

// Layout is the observed container geometry of the month view. Recomputed
// on every container resize callback and once more after initial layout
// settles.
type Layout struct {
	ContainerWidth  float64 `json:"container_width"`
	ContainerHeight float64 `json:"container_height"`
	HeaderHeight    float64 `json:"header_height"`
	Gap             float64 `json:"gap"` // fixed inter-column and inter-row gap
	WeekCount       int     `json:"week_count"`
}

// CellSize is the computed day-cell geometry. Height always exceeds width:
// day cells are portrait (4:5) so a vertical media preview fits.
type CellSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MonthCellSize computes the day-cell size for a month grid: 7 columns with
// 6 gaps across the width, target height 1.25× the width, clamped to the
// height available per week row. If clamping would make the cell landscape,
// the height snaps back to 1.15× width, with 1.2× as the final safety net.
func MonthCellSize(l Layout) CellSize {
	cw := (l.ContainerWidth - 6*l.Gap) / 7
	if cw < 0 {
		cw = 0
	}

	h := cw * 1.25

	if l.WeekCount > 0 && l.ContainerHeight > 0 {
		rowGaps := l.Gap * float64(l.WeekCount-1)
		avail := (l.ContainerHeight - l.HeaderHeight - rowGaps) / float64(l.WeekCount)
		if avail < h {
			h = avail
		}
	}

	if h <= cw {
		h = cw * 1.15
	}
	if h <= cw {
		h = cw * 1.2
	}

	return CellSize{Width: cw, Height: h}
}

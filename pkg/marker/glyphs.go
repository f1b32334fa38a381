package marker

// Glyph describes how a marker is shown in the legend and tree output.
type Glyph struct {
	Marker  Marker
	Symbol  string
	Meaning string
}

// DefaultGlyphs returns the legend rows for w, followed by the rows shared
// by both workflows.
func DefaultGlyphs(w Workflow) []Glyph {
	g := make([]Glyph, 0, 5)
	switch w {
	case NowWorkflow:
		g = append(g, Glyph{
			Marker:  Todo,
			Symbol:  "●",
			Meaning: "task to do",
		}, Glyph{
			Marker:  Doing,
			Symbol:  "◐",
			Meaning: "task in progress",
		})
	default:
		g = append(g, Glyph{
			Marker:  Later,
			Symbol:  "●",
			Meaning: "task for later",
		}, Glyph{
			Marker:  Now,
			Symbol:  "◐",
			Meaning: "task started",
		})
	}
	g = append(g, Glyph{
		Marker:  Done,
		Symbol:  "✘",
		Meaning: "task completed, left behind on rollover",
	}, Glyph{
		Marker:  None,
		Symbol:  "⁃",
		Meaning: "note",
	})
	return g
}

// Symbol returns the legend symbol for m under any workflow.
func (m Marker) Symbol() string {
	switch m {
	case Todo, Later:
		return "●"
	case Doing, Now:
		return "◐"
	case Done:
		return "✘"
	default:
		return "⁃"
	}
}

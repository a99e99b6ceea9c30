package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Transform() / Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Compact bool   // narrow-screen layout adjustments
	Title   string // overrides the chart-type title when set
}

// WithCompactLayout tightens the layout for narrow screens: wider grid
// margins, smaller legend items, scrolling legend past 5 entries.
func WithCompactLayout() Option {
	return func(c *config) {
		c.Compact = true
	}
}

// WithTitle replaces the chart-type title text.
func WithTitle(title string) Option {
	return func(c *config) {
		c.Title = title
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// compactLegendLimit is the legend size above which the compact layout scrolls.
const compactLegendLimit = 5

// applyLayout mutates a freshly built spec according to the options.
func (c *config) applyLayout(spec *VisualizationSpec) {
	if c.Title != "" {
		spec.Title.Text = c.Title
	}
	if !c.Compact {
		return
	}
	if spec.Grid != nil {
		spec.Grid.Left = "5%"
		spec.Grid.Right = "5%"
		spec.Grid.Bottom = "15%"
	}
	spec.Title.TextStyle = &TextStyle{FontSize: 14}
	spec.Legend.ItemWidth = 10
	spec.Legend.ItemHeight = 10
	spec.Legend.TextStyle = &TextStyle{FontSize: 12}
	if len(spec.Legend.Data) > compactLegendLimit {
		spec.Legend.Type = "scroll"
	}
}

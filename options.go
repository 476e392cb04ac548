package ggchart

// Option configures a Composer during creation.
// Use functional options to customize Composer behavior.
//
// Example:
//
//	// Stock settings, no engine yet
//	c := ggchart.NewComposer()
//
//	// Named pane with a preconfigured engine
//	c := ggchart.NewComposer(ggchart.WithName("prices"), ggchart.WithEngine(e))
type Option func(*options)

// options holds optional configuration for Composer creation.
type options struct {
	config    Config
	engine    Engine
	presenter Presenter
	onRender  func(Domain, string)
	showIndex Formatter
	showValue Formatter
	grid      Grid
}

// defaultOptions returns the default composer options.
func defaultOptions() options {
	return options{
		config:    DefaultConfig(),
		showIndex: DefaultFormatter,
		showValue: DefaultFormatter,
		grid:      Grid{Labels: true},
	}
}

// WithName sets the composer name used as the update source of its own
// gestures.
func WithName(name string) Option {
	return func(o *options) {
		o.config.Name = name
	}
}

// WithConfig replaces all tunables. A name already set by WithName is kept
// when cfg has none.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		if cfg.Name == "" {
			cfg.Name = o.config.Name
		}
		o.config = cfg
	}
}

// WithEngine sets the rendering engine directly, bypassing the registry.
//
// Example:
//
//	e := record.New(800, 600)
//	c := ggchart.NewComposer(ggchart.WithEngine(e))
func WithEngine(e Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

// WithPresenter sets the sink that receives the engine after every frame.
func WithPresenter(p Presenter) Option {
	return func(o *options) {
		o.presenter = p
	}
}

// WithOnRender registers an observer called with the new domain and the
// update source after every domain recomputation.
func WithOnRender(fn func(d Domain, source string)) Option {
	return func(o *options) {
		o.onRender = fn
	}
}

// WithFormatters sets the index and value label formatters. A nil formatter
// keeps the default.
func WithFormatters(index, value Formatter) Option {
	return func(o *options) {
		if index != nil {
			o.showIndex = index
		}
		if value != nil {
			o.showValue = value
		}
	}
}

// WithGrid sets the grid decorator drawn under the items.
func WithGrid(g Grid) Option {
	return func(o *options) {
		o.grid = g
	}
}

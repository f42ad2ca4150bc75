package window

// Config holds window construction parameters supplied by the host.
type Config struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
}

// DefaultConfig returns the default window parameters.
func DefaultConfig() Config {
	return Config{
		Title:     "Learn Liberty",
		Width:     800,
		Height:    600,
		Resizable: true,
	}
}

// Normalize fills an empty title and non-positive sizes with defaults. Resizable is
// kept as given; config decoding starts from DefaultConfig so an absent key stays true.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	return c
}

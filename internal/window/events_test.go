package window

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		ev      Event
		invalid bool
	}{
		{"resize ok", Resize{Width: 640, Height: 480}, false},
		{"resize zero width", Resize{Width: 0, Height: 480}, true},
		{"resize negative height", Resize{Width: 640, Height: -1}, true},
		{"close", CloseRequested{}, false},
		{"redraw", RedrawRequested{}, false},
		{"key ok", Input{Kind: InputKey, Key: "enter"}, false},
		{"key empty", Input{Kind: InputKey}, true},
		{"click ok", Input{Kind: InputClick, X: 3, Y: 4}, false},
		{"click negative", Input{Kind: InputClick, X: -1, Y: 4}, true},
		{"unknown kind", Input{Kind: 42, Key: "x"}, true},
		{"nil event", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.ev)
			if (err != nil) != tc.invalid {
				t.Fatalf("Validate() = %v, expected invalid=%v", err, tc.invalid)
			}
			if err != nil {
				var inputErr *InputError
				if !errors.As(err, &inputErr) {
					t.Errorf("Validate() error %T, expected *InputError", err)
				}
			}
		})
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{Width: 1024}.Normalize()
	if cfg.Title != "Learn Liberty" {
		t.Errorf("Title = %q, expected default", cfg.Title)
	}
	if cfg.Width != 1024 || cfg.Height != 600 {
		t.Errorf("size = %dx%d, expected 1024x600", cfg.Width, cfg.Height)
	}
}

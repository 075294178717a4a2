// config.go - command-line configuration
//
// Grounded on the teacher's plain os.Args-based CLI in main.go; expanded
// here to a standard library flag.FlagSet since the console takes more
// than a positional mode+filename pair (cart path, cartdata directory,
// headless mode, volume knobs). No third-party CLI/config library appears
// anywhere in the retrieval pack, so this stays on the standard library by
// design (see DESIGN.md).

package main

import (
	"flag"
	"fmt"
)

// Config holds every run-time knob real8vm's CLI accepts.
type Config struct {
	CartPath    string
	CartDataDir string
	Headless    bool
	Scale       int
	VolumeSfx   int
	VolumeMusic int
	ExtraArgs   []string // positional args after CartPath, exposed via stat(6)
}

// ParseConfig parses args (typically os.Args[1:]) into a Config.
func ParseConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("real8vm", flag.ContinueOnError)
	cfg := &Config{}
	fs.StringVar(&cfg.CartDataDir, "cartdata-dir", ".", "directory for persistent cartdata/save-state files")
	fs.BoolVar(&cfg.Headless, "headless", false, "run without opening a video/audio window (for scripted testing)")
	fs.IntVar(&cfg.Scale, "scale", 4, "window scale factor")
	fs.IntVar(&cfg.VolumeSfx, "volume-sfx", 10, "sfx volume, 0-10")
	fs.IntVar(&cfg.VolumeMusic, "volume-music", 10, "music volume, 0-10")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, fmt.Errorf("usage: real8vm [flags] <cart.p8|cart.p8.png>")
	}
	cfg.CartPath = fs.Arg(0)
	cfg.ExtraArgs = fs.Args()[1:]
	return cfg, nil
}

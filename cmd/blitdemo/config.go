package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/blit"
)

type windowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
	VSync     bool   `toml:"vsync"`
}

type sceneConfig struct {
	Sprites    int    `toml:"sprites"`
	SpriteSize int    `toml:"sprite_size"`
	Background string `toml:"background"`
	// Image replaces the generated sprite when set.
	Image string `toml:"image"`
}

type config struct {
	Window   windowConfig `toml:"window"`
	Scene    sceneConfig  `toml:"scene"`
	Renderer blit.Config  `toml:"renderer"`
}

func defaultConfig() config {
	return config{
		Window: windowConfig{
			Title:     "blitdemo",
			Width:     1024,
			Height:    768,
			Resizable: true,
			VSync:     true,
		},
		Scene: sceneConfig{
			Sprites:    2000,
			SpriteSize: 32,
			Background: "#20242c",
		},
		Renderer: blit.DefaultConfig(),
	}
}

// readConfig overlays the file at path on the defaults.
func readConfig(path string) (config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return conf, fmt.Errorf("read config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return conf, fmt.Errorf("read config %s: unknown keys %v", path, undec)
	}
	return conf, nil
}

func writeConfig(path string, conf config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(conf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

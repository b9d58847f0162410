// Command cheatcode listens for a pattern on Linux input devices without a
// terminal UI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"cheatcode/internal/adapters/evdevinput"
	"cheatcode/internal/config"
	"cheatcode/internal/detector"
	"cheatcode/internal/eventbus"
	"cheatcode/internal/pattern"
	"cheatcode/internal/reaction"
	"cheatcode/internal/source"
)

func main() {
	var (
		configPath  string
		overrides   config.Overrides
		listDevices bool
		listPresets bool
		once        bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&configPath, "c", "", "Path to config file (shorthand)")
	flag.StringVar(&overrides.Pattern, "pattern", "", "Pattern or preset name to detect")
	flag.StringVar(&overrides.Pattern, "p", "", "Pattern or preset name to detect (shorthand)")
	flag.StringVar(&overrides.Source, "source", "", "Symbol source: keyboard or gamepad")
	flag.StringVar(&overrides.Source, "s", "", "Symbol source: keyboard or gamepad (shorthand)")
	flag.IntVar(&overrides.TimeLimitMs, "time-limit", 0, "Maximum gap between symbols in milliseconds")
	flag.IntVar(&overrides.TimeLimitMs, "t", 0, "Maximum gap between symbols in milliseconds (shorthand)")
	flag.StringVar(&overrides.Script, "script", "", "Lua script with an on_match function")
	flag.BoolVar(&listDevices, "list-devices", false, "List input devices and exit")
	flag.BoolVar(&listPresets, "list-presets", false, "List pattern presets and exit")
	flag.BoolVar(&once, "once", false, "Exit after the first match")
	flag.Parse()

	if listPresets {
		for _, name := range pattern.Names() {
			fmt.Printf("%-12s %s\n", name, pattern.Presets[name])
		}
		return
	}
	if listDevices {
		if err := printDevices(); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing devices: %v\n", err)
			os.Exit(1)
		}
		return
	}

	bus := eventbus.New()
	defer bus.Close()

	bus.Subscribe(eventbus.EventPadConnected, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.PadConnectedEvent); ok {
			log.Printf("Gamepad %d connected: %s", ev.Pad.Index, ev.Pad.ID)
		}
	})
	bus.Subscribe(eventbus.EventPadDisconnected, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.PadDisconnectedEvent); ok {
			log.Printf("Gamepad %d disconnected: %s", ev.Pad.Index, ev.Pad.ID)
		}
	})

	configSvc := config.NewConfigServiceWithBus(bus)
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = configSvc.LoadFromPath(configPath)
	} else {
		cfg, err = configSvc.Load()
	}
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.DefaultConfig()
	}
	cfg.Apply(overrides)
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	reactions := []reaction.Reaction{reaction.Message{W: os.Stdout, Text: cfg.Reaction.Message}}
	if cfg.Reaction.Script != "" {
		script, err := reaction.NewScript(cfg.Reaction.Script, reaction.Info{
			Pattern: pattern.Compile(cfg.Pattern).String(),
			Source:  string(source.ParseType(cfg.Source)),
		})
		if err != nil {
			log.Printf("Error loading reaction script: %v", err)
			os.Exit(1)
		}
		defer script.Close()
		reactions = append(reactions, script)
	}

	matched := make(chan struct{})
	if once {
		var closeOnce sync.Once
		reactions = append(reactions, reaction.Func(func() error {
			closeOnce.Do(func() { close(matched) })
			return nil
		}))
	}

	det, err := detector.New(detector.Options{
		Pattern:      cfg.Pattern,
		Source:       source.Type(cfg.Source),
		TimeLimit:    cfg.TimeLimit(),
		PollInterval: cfg.PollInterval(),
		OnMatch:      reaction.Chain(reactions...),
	}, detector.Environment{
		Keys: evdevinput.NewKeyboards(),
		Pads: evdevinput.NewGamepads(""),
		Bus:  bus,
	})
	if err != nil {
		log.Printf("Error creating detector: %v", err)
		os.Exit(1)
	}

	if err := det.Start(); err != nil {
		log.Printf("Error starting detector: %v", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Printf("Received %s, shutting down", sig)
	case <-matched:
		log.Printf("Pattern matched, shutting down")
	}
	det.Stop()
	log.Printf("Detected %d matches", det.Matches())
}

func printDevices() error {
	devices, err := evdevinput.ListInputDevices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		kind := "other"
		switch {
		case d.IsGamepad:
			kind = "gamepad"
		case d.IsKeybd:
			kind = "keyboard"
		}
		if d.IsVirtual {
			kind += ", virtual"
		}
		fmt.Printf("%-22s %-10s %s\n", d.Path, kind, d.Name)
	}
	return nil
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"cheatcode/internal/adapters/evdevinput"
	"cheatcode/internal/config"
	"cheatcode/internal/detector"
	"cheatcode/internal/eventbus"
	"cheatcode/internal/pattern"
	"cheatcode/internal/reaction"
	"cheatcode/internal/source"
	"cheatcode/internal/ui"
)

// uiEvents are forwarded from the bus to the Bubble Tea program
var uiEvents = []eventbus.EventType{
	eventbus.EventSymbolAccepted,
	eventbus.EventBufferReset,
	eventbus.EventMatchDetected,
	eventbus.EventDetectorStarted,
	eventbus.EventDetectorStopped,
	eventbus.EventPadConnected,
	eventbus.EventPadDisconnected,
	eventbus.EventError,
}

func main() {
	var (
		configPath string
		overrides  config.Overrides
		save       bool
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
	flag.BoolVar(&save, "save", false, "Write the effective configuration to the config file")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("cheatcode.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(bus)
	cfg := loadConfig(configSvc, configPath)
	cfg.Apply(overrides)
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if save {
		saveConfig(configSvc, cfg, configPath)
	}

	var reactions []reaction.Reaction
	if cfg.Reaction.Script != "" {
		script, err := reaction.NewScript(cfg.Reaction.Script, reaction.Info{
			Pattern: pattern.Compile(cfg.Pattern).String(),
			Source:  string(source.ParseType(cfg.Source)),
		})
		if err != nil {
			fmt.Printf("Error loading reaction script: %v\n", err)
			os.Exit(1)
		}
		defer script.Close()
		reactions = append(reactions, script)
	}

	feed := ui.NewKeyFeed()
	det, err := detector.New(detector.Options{
		Pattern:      cfg.Pattern,
		Source:       source.Type(cfg.Source),
		TimeLimit:    cfg.TimeLimit(),
		PollInterval: cfg.PollInterval(),
		OnMatch:      reaction.Chain(reactions...),
	}, detector.Environment{
		Keys: feed,
		Pads: evdevinput.NewGamepads(""),
		Bus:  bus,
	})
	if err != nil {
		fmt.Printf("Error creating detector: %v\n", err)
		os.Exit(1)
	}

	uiModel := ui.NewModel(bus, cfg, det, feed)
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	for _, t := range uiEvents {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Quit()
	}()

	if err := det.Start(); err != nil {
		bus.Publish(eventbus.ErrorEvent{Message: err.Error(), Err: err})
	}

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	det.Stop()
	log.Printf("UI exited normally")
}

// loadConfig reads the config file, falling back to defaults when it cannot
// be loaded
func loadConfig(configSvc config.ConfigService, path string) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = configSvc.LoadFromPath(path)
	} else {
		cfg, err = configSvc.Load()
	}
	if err != nil {
		log.Printf("Error loading config: %v", err)
		return config.DefaultConfig()
	}
	return cfg
}

func saveConfig(configSvc config.ConfigService, cfg *config.Config, path string) {
	if path == "" {
		path = configSvc.Path()
	}
	if err := configSvc.SaveToPath(cfg, path); err != nil {
		log.Printf("Failed to save config: %v", err)
		return
	}
	log.Printf("Config saved to %s", path)
}

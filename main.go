package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saehun/mp/internal/config"
	"github.com/saehun/mp/internal/icons"
	"github.com/saehun/mp/internal/log"
	"github.com/saehun/mp/internal/mpris"
	"github.com/saehun/mp/internal/playback"
	"github.com/saehun/mp/internal/playlist"
	"github.com/saehun/mp/internal/state"
	"github.com/saehun/mp/internal/stderr"
	"github.com/saehun/mp/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		stderr.Stop()
		fmt.Fprintf(os.Stderr, "mp: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: mp <file|directory>...")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := log.Setup(); err != nil {
		return err
	}
	icons.Init(cfg.Icons)

	// Native libraries write warnings straight to fd 2; capture them
	// before FFmpeg is loaded so they cannot corrupt the TUI.
	if err := stderr.Start(); err != nil {
		log.Warnf("stderr capture unavailable: %v", err)
	}
	defer stderr.Stop()

	classifier := playlist.NewClassifier(
		cfg.Extensions.Image, cfg.Extensions.Audio, cfg.Extensions.Video)
	entries, err := playlist.Collect(classifier, args...)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no playable files in %v", args)
	}

	queue := playlist.NewQueue()
	queue.Replace(entries...)

	resume, err := state.Open()
	if err != nil {
		log.Warnf("resume store unavailable: %v", err)
		resume = nil
	}
	if resume != nil {
		defer resume.Close()
	}

	svc := playback.New(queue, playback.Options{
		DelayAfter:     cfg.DelayAfterDuration(),
		ImageDisplay:   cfg.ImageDisplayDuration(),
		ShortThreshold: cfg.ShortThresholdDuration(),
		Volume:         cfg.Volume,
		Resume:         resume,
	})
	defer svc.Close()

	if adapter, err := mpris.New(svc); err == nil {
		defer adapter.Close()
	} else {
		log.Warnf("mpris unavailable: %v", err)
	}

	p := tea.NewProgram(ui.New(svc, cfg), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

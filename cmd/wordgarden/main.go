package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/archive"
	"codeberg.org/snonux/wordgarden/internal/audio"
	"codeberg.org/snonux/wordgarden/internal/cli"
	"codeberg.org/snonux/wordgarden/internal/controller"
	"codeberg.org/snonux/wordgarden/internal/models"
	"codeberg.org/snonux/wordgarden/internal/shell"
	"codeberg.org/snonux/wordgarden/internal/vocab"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, &app{})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app runs the subcommands against the merged configuration
type app struct{}

func (a *app) setup() (*cli.Settings, *zap.Logger, error) {
	settings := cli.LoadSettings()
	log, err := cli.NewLogger(settings.LogMode, settings.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return settings, log, nil
}

func (a *app) Home(cmd *cobra.Command) error {
	return a.interactive(cmd, controller.Home, "")
}

func (a *app) Learn(cmd *cobra.Command, theme string) error {
	return a.interactive(cmd, controller.Learn, theme)
}

func (a *app) Quiz(cmd *cobra.Command, theme string) error {
	return a.interactive(cmd, controller.Quiz, theme)
}

func (a *app) interactive(cmd *cobra.Command, mode controller.Mode, theme string) error {
	settings, log, err := a.setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	w, err := controller.Wire(ctx, settings, log)
	if err != nil {
		return err
	}
	defer w.Close()

	sh := shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), log)
	svc := w.Services
	svc.OnChange = sh.Changed

	ctrl := controller.New(svc)
	defer ctrl.Close()

	return sh.Start(ctx, ctrl, mode, theme)
}

func (a *app) Themes(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	for i, t := range vocab.Themes {
		fmt.Fprintf(out, "%d. %-8s %s %s\n", i+1, t.ID, t.Icon, t.Name)
	}
	return nil
}

func (a *app) Say(cmd *cobra.Command, text string) error {
	settings, log, err := a.setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	w, err := controller.Wire(ctx, settings, log)
	if err != nil {
		return err
	}
	defer w.Close()

	if w.Speech == nil {
		return fmt.Errorf("no speech provider available for %q", settings.SpeechProvider)
	}

	pipeline := w.NewPipeline()
	defer pipeline.Close()

	if err := pipeline.Speak(ctx, text); err != nil {
		return err
	}

	// Playback is fire and forget; keep the process alive until it ends
	if d, ok := pipeline.Device().(interface{ Wait() }); ok {
		d.Wait()
	}
	return nil
}

func (a *app) ListModels(cmd *cobra.Command) error {
	lister := models.NewLister(cli.GetGeminiKey(), cli.GetOpenAIKey())
	lister.SetOutput(cmd.OutOrStdout())
	return lister.ListAvailableModels(cmd.Context())
}

func (a *app) Cache(cmd *cobra.Command, action string) error {
	settings, log, err := a.setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	out := cmd.OutOrStdout()
	if action == "archive" {
		archived, err := archive.ArchiveFile(settings.CachePath)
		if err != nil {
			return fmt.Errorf("failed to archive speech cache: %w", err)
		}
		fmt.Fprintf(out, "Speech cache archived to: %s\n", archived)
		return nil
	}

	cache, err := audio.OpenSQLiteCache(settings.CachePath)
	if err != nil {
		return err
	}
	defer cache.Close()

	ctx := cmd.Context()
	if action == "clear" {
		if err := cache.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear speech cache: %w", err)
		}
		log.Info("speech cache cleared", zap.String("path", settings.CachePath))
	}

	count, size, err := cache.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read speech cache: %w", err)
	}
	fmt.Fprintf(out, "%s: %d entries, %.1f KiB\n", settings.CachePath, count, float64(size)/1024)
	return nil
}

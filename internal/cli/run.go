package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jaki95/playlist-downloader/config"
	"github.com/jaki95/playlist-downloader/internal/downloader"
	"github.com/jaki95/playlist-downloader/internal/logging"
	"github.com/jaki95/playlist-downloader/internal/metadata"
	"github.com/jaki95/playlist-downloader/internal/playlistfile"
	"github.com/jaki95/playlist-downloader/internal/processor"
	"github.com/jaki95/playlist-downloader/internal/songlist"
	"github.com/jaki95/playlist-downloader/internal/storage"
)

// session is the resolved configuration of one command run.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	verbosity int
	quiet     bool
}

// setup loads the configuration and applies the flags that were set
// explicitly on top of it.
func (a *App) setup(cmd *cobra.Command, o *options) (*session, error) {
	cfg, err := config.LoadWithEnv(o.configPath, o.envFile)
	if err != nil {
		return nil, withExitCode(ExitConfig, fmt.Errorf("failed to load config: %w", err))
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputFormat = o.output
	}
	if flags.Changed("ffmpeg-location") {
		cfg.FFmpegLocation = o.ffmpegLocation
	}
	if flags.Changed("config-location") {
		cfg.YtDlpConfig = o.configLocation
	}
	if flags.Changed("ytdlp-cmd") {
		cfg.YtDlpCmd = o.ytdlpCmd
	}
	if flags.Changed("playlist") {
		cfg.PlaylistFiles = o.playlistFiles
	}
	if flags.Changed("write-tags") {
		cfg.WriteTags = o.writeTags
	}
	if flags.Changed("verbose") {
		cfg.LogLevel = o.verbosity
	}

	logger := logging.New(a.Stderr, cfg.LogLevel, o.quiet)
	logger.Debug("Configuration loaded", "config", o.configPath, "ytdlp_cmd", cfg.YtDlpCmd, "verbosity", cfg.LogLevel)
	return &session{cfg: cfg, logger: logger, verbosity: cfg.LogLevel, quiet: o.quiet}, nil
}

func importOptions(cmd *cobra.Command, o *options) songlist.Options {
	opts := songlist.Options{
		ByIndex:        o.byIndex,
		IgnoreUnlisted: o.ignoreUnlisted,
		SkipDuplicates: o.skipDuplicates,
	}
	if cmd.Flags().Changed("filter-playlists") {
		opts.Playlists = songlist.SplitPlaylistFilter(o.filterPlaylists)
		if opts.Playlists == nil {
			opts.Playlists = []string{}
		}
	}
	return opts
}

// importExitCode picks the exit code of a failed import.
func importExitCode(err error, inputCode int) int {
	switch {
	case errors.Is(err, songlist.ErrInvalidPlaylistIndex):
		return ExitConfig
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	}
	return inputCode
}

func (a *App) report(s *session, result songlist.Result, mode songlist.ReportMode) {
	if s.quiet {
		return
	}
	songlist.Report(a.Stdout, result.Stats, result.Filter, mode)
}

func (a *App) runConvert(cmd *cobra.Command, o *options) error {
	if o.txt == "" || o.csv == "" {
		return withExitCode(ExitConfig, errors.New("txt or csv file is missing for converting, use --csv <file> and --txt <file>"))
	}
	s, err := a.setup(cmd, o)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	in, err := storage.For(ctx, o.txt, s.cfg.Storage.GCSCredentialsFile)
	if err != nil {
		return withExitCode(ExitTxtInput, err)
	}
	defer in.Close()

	result, err := songlist.NewTxtImporter(in, importOptions(cmd, o), s.logger).Import(ctx, o.txt)
	if err != nil {
		return withExitCode(importExitCode(err, ExitTxtInput), err)
	}
	a.report(s, result, songlist.ReportConvert)

	out, err := storage.For(ctx, o.csv, s.cfg.Storage.GCSCredentialsFile)
	if err != nil {
		return withExitCode(ExitCSV, err)
	}
	defer out.Close()

	if err := songlist.ExportCSV(out, o.csv, result.Songs, s.logger); err != nil {
		return withExitCode(ExitCSV, err)
	}
	return nil
}

func (a *App) runDownload(cmd *cobra.Command, o *options) error {
	if o.txt == "" && o.csv == "" {
		return withExitCode(ExitConfig, errors.New("no txt/csv file provided to download from, use --csv <file> or --txt <file>"))
	}
	if o.dir == "" {
		return withExitCode(ExitConfig, errors.New("no output directory specified to download to, use --dir <path>"))
	}
	if storage.IsGCSPath(o.dir) {
		return withExitCode(ExitConfig, fmt.Errorf("%w: downloads need a local directory: %s", storage.ErrInvalidPath, o.dir))
	}
	s, err := a.setup(cmd, o)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	source, inputCode := o.txt, ExitTxtInput
	if source == "" {
		source, inputCode = o.csv, ExitCSV
	} else if o.csv != "" {
		s.logger.Info("Both txt and csv files given, downloading from txt", "txt", o.txt)
	}

	store, err := storage.For(ctx, source, s.cfg.Storage.GCSCredentialsFile)
	if err != nil {
		return withExitCode(inputCode, err)
	}
	defer store.Close()

	var importer songlist.Importer
	if inputCode == ExitTxtInput {
		importer = songlist.NewTxtImporter(store, importOptions(cmd, o), s.logger)
	} else {
		importer = songlist.NewCSVImporter(store, importOptions(cmd, o), s.logger)
	}
	result, err := importer.Import(ctx, source)
	if err != nil {
		return withExitCode(importExitCode(err, inputCode), err)
	}
	a.report(s, result, songlist.ReportDownload)

	p := a.newProcessor(s, o.dir)
	summary, err := p.Run(ctx, result.Songs)
	if !s.quiet {
		fmt.Fprintf(a.Stdout, "\n%s\n", summary)
	}
	if err != nil {
		return withExitCode(ExitInterrupted, err)
	}
	if summary.Failed > 0 {
		return withExitCode(ExitDownloadFailed, fmt.Errorf("%d of %d downloads failed", summary.Failed, summary.Attempted))
	}
	return nil
}

func (a *App) newProcessor(s *session, dir string) *processor.Processor {
	dlOpts := downloader.Options{
		Command:        s.cfg.YtDlpCmd,
		FFmpegLocation: s.cfg.FFmpegLocation,
		ConfigLocation: s.cfg.YtDlpConfig,
		Verbosity:      s.verbosity,
		Quiet:          s.quiet,
	}
	if s.verbosity >= 2 && !s.quiet {
		dlOpts.Stderr = a.Stderr
	}
	dl := a.NewDownloader(dlOpts, s.logger)

	var tagger metadata.Tagger
	if s.cfg.WriteTags {
		tagger = metadata.NewID3Tagger(s.logger)
	}
	var playlists processor.PlaylistWriter
	if s.cfg.PlaylistFiles {
		playlists = playlistfile.NewWriter(storage.NewLocalFileStorage(), s.logger)
	}

	procOpts := processor.Options{
		OutputDir:     dir,
		Template:      s.cfg.OutputFormat,
		PlaylistFiles: s.cfg.PlaylistFiles,
		WriteTags:     s.cfg.WriteTags,
	}
	if !s.quiet {
		procOpts.Progress = a.Progress
	}
	return processor.New(dl, tagger, playlists, procOpts, s.logger)
}

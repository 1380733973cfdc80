// Package cli implements the playlist-downloader command line.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/k0kubun/go-ansi"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jaki95/playlist-downloader/internal/downloader"
)

// DownloaderFactory builds the downloader used by the download command.
type DownloaderFactory func(opts downloader.Options, logger *slog.Logger) downloader.Downloader

// App holds the process level dependencies of the commands.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// Progress receives the download progress bar. Nil disables it.
	Progress      io.Writer
	NewDownloader DownloaderFactory
}

// NewApp returns an App writing to the process streams and downloading with yt-dlp.
func NewApp() *App {
	return &App{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Progress: ansi.NewAnsiStdout(),
		NewDownloader: func(opts downloader.Options, logger *slog.Logger) downloader.Downloader {
			return downloader.NewYtDlp(opts, logger)
		},
	}
}

// Execute runs the command line with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// options are the values of the flags shared by all commands.
type options struct {
	txt             string
	csv             string
	dir             string
	skipDuplicates  bool
	filterPlaylists string
	byIndex         bool
	ignoreUnlisted  bool
	output          string
	playlistFiles   bool
	writeTags       bool
	ffmpegLocation  string
	configLocation  string
	ytdlpCmd        string
	verbosity       int
	quiet           bool
	configPath      string
	envFile         string

	convert  bool
	download bool
	format   bool
}

// flagAliases maps legacy flag spellings onto their current names.
var flagAliases = map[string]string{
	"directory": "dir",
	"sd":        "skip-duplicates",
	"dl":        "download",
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

func (a *App) NewRootCommand() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "playlist-downloader",
		Short: "Convert and download playlists described in txt or csv files",
		Long: "Parses a playlist file, converts it to csv or downloads every song with yt-dlp.\n\n" +
			"Requires yt-dlp (https://github.com/yt-dlp/yt-dlp) and ffmpeg (https://ffmpeg.org/) for downloading.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case o.format:
				printFormat(a.Stdout)
				return nil
			case o.convert:
				return a.runConvert(cmd, o)
			case o.download:
				return a.runDownload(cmd, o)
			}
			return withExitCode(ExitConfig, errors.New("no mode given: use the convert, download or format command, see --help"))
		},
	}
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)
	root.SetGlobalNormalizationFunc(normalizeFlagName)

	root.Flags().BoolVarP(&o.convert, "convert", "c", false, "Convert a txt file to a csv file")
	root.Flags().BoolVarP(&o.download, "download", "d", false, "Download all songs specified in a txt/csv file")
	root.Flags().BoolVarP(&o.format, "format", "f", false, "Display the format of the txt/csv files and exit")
	root.MarkFlagsMutuallyExclusive("convert", "download", "format")

	pf := root.PersistentFlags()
	pf.StringVar(&o.txt, "txt", "", "Txt file to read from")
	pf.StringVar(&o.csv, "csv", "", "Csv file to write to when converting, or to read from when downloading")
	pf.StringVar(&o.dir, "dir", "", "Directory to download the songs into")
	pf.BoolVarP(&o.skipDuplicates, "skip-duplicates", "s", false, "Skip songs with the same title and artists within a playlist")
	pf.StringVar(&o.filterPlaylists, "filter-playlists", "", "Comma separated list of playlists to keep, e.g. 'FOO,BAR'")
	pf.BoolVarP(&o.byIndex, "indices", "i", false, "Treat --filter-playlists entries as zero-based indices into the txt playlist index")
	pf.BoolVar(&o.ignoreUnlisted, "ignore-noplaylist", false, "Skip songs that are not in a playlist")
	pf.StringVarP(&o.output, "output", "o", "", "Output file name template, fields: %(title) %(artists) %(artist) %(album) %(link) %(playlist) (default \"%(artists) -- %(title)\")")
	pf.BoolVarP(&o.playlistFiles, "playlist", "p", false, "Create an .m3u8 playlist file per playlist, unlisted songs go into 'unlisted.m3u8'")
	pf.BoolVar(&o.writeTags, "write-tags", false, "Write ID3 tags into downloaded mp3 files")
	pf.StringVar(&o.ffmpegLocation, "ffmpeg-location", "", "Location of the ffmpeg binary (default \"ffmpeg\")")
	pf.StringVar(&o.configLocation, "config-location", "", "yt-dlp config path (default \"yt-dlp.conf\")")
	pf.StringVar(&o.ytdlpCmd, "ytdlp-cmd", "", "Command to run yt-dlp (default \"yt-dlp\")")
	pf.CountVarP(&o.verbosity, "verbose", "v", "Verbosity, repeat for more output (-vv)")
	pf.BoolVar(&o.quiet, "quiet", false, "Only print errors")
	pf.StringVar(&o.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&o.envFile, "env-file", ".env", "Environment file with PLAYLIST_DL_* overrides")

	root.AddCommand(
		a.newConvertCommand(o),
		a.newDownloadCommand(o),
		a.newFormatCommand(),
	)
	return root
}

func (a *App) newConvertCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: "Convert a txt file to a csv file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, o)
		},
	}
}

func (a *App) newDownloadCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "download",
		Aliases: []string{"dl"},
		Short:   "Download all songs specified in a txt/csv file",
		Long:    "Download all songs specified in a txt/csv file. When both --txt and --csv are given the txt file is used.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDownload(cmd, o)
		},
	}
}

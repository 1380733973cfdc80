// Package downloader runs yt-dlp to fetch the songs of a playlist.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/jaki95/playlist-downloader/internal/domain"
	"github.com/jaki95/playlist-downloader/internal/logging"
	"github.com/jaki95/playlist-downloader/internal/songlist"
)

var (
	ErrNoOutputPath = errors.New("yt-dlp did not report an output file")
	ErrNoLink       = errors.New("song has no link")
)

// printFinalPath makes yt-dlp print the file path once post-processing moved it.
const printFinalPath = "after_move:filepath"

// ToolError is returned when the external downloader exits unsuccessfully.
type ToolError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Cmd, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Options configure the yt-dlp invocation.
type Options struct {
	Command        string
	FFmpegLocation string
	ConfigLocation string
	Verbosity      int
	Quiet          bool
	// Timeout bounds a single download. Zero means no limit.
	Timeout time.Duration
	// Stderr receives the tool's diagnostics once a run ends. May be nil.
	Stderr io.Writer
}

// YtDlp downloads songs with the yt-dlp command line tool.
type YtDlp struct {
	opts   Options
	logger *slog.Logger
}

func NewYtDlp(opts Options, logger *slog.Logger) *YtDlp {
	return &YtDlp{opts: opts, logger: logger}
}

// command builds the yt-dlp invocation for req. Metadata is embedded from the
// song values and the final path is printed after post-processing.
func (y *YtDlp) command(req Request) *ytdlp.Command {
	cmd := ytdlp.New().
		SetExecutable(y.opts.Command).
		FFmpegLocation(y.opts.FFmpegLocation).
		EmbedMetadata().
		ParseMetadata(metadataArg(req.Song.Title, "meta_title")).
		ConfigLocations(y.opts.ConfigLocation).
		Paths(req.Dir).
		Output(outputTemplate(req.FileName)).
		NoSimulate().
		Print(printFinalPath)

	if quietRun(y.opts.Verbosity, y.opts.Quiet) {
		return cmd.Quiet()
	}
	return cmd.Verbose()
}

// runArgs are the positional arguments handed to Run. The builder keeps a
// single --parse-metadata value, so the artist and album mappings travel here.
func runArgs(song domain.Song) []string {
	return []string{
		"--parse-metadata", metadataArg(song.Artists, "meta_artist"),
		"--parse-metadata", metadataArg(song.Album, "meta_album"),
		"--", song.Link,
	}
}

// metadataArg builds a --parse-metadata FROM:TO value. A value without a space
// gets a trailing one so yt-dlp reads it as a literal instead of a field name.
func metadataArg(value, field string) string {
	value = songlist.UnescapeQuotes(value)
	if !strings.Contains(value, " ") {
		value += " "
	}
	return fmt.Sprintf("%s:%%(%s)s", value, field)
}

// outputTemplate escapes the file name for the yt-dlp template language.
func outputTemplate(fileName string) string {
	return strings.ReplaceAll(fileName, "%", "%%") + ".%(ext)s"
}

// quietRun reports whether yt-dlp should run with --quiet rather than --verbose.
func quietRun(verbosity int, quiet bool) bool {
	return quiet || verbosity <= 1
}

// Download runs yt-dlp for one song and returns the path it reported.
func (y *YtDlp) Download(ctx context.Context, req Request) (string, error) {
	if !req.Song.HasLink() {
		return "", ErrNoLink
	}
	if y.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.opts.Timeout)
		defer cancel()
	}

	args := runArgs(req.Song)
	logging.Trace(y.logger, "Running yt-dlp", "command", y.opts.Command, "link", req.Song.Link, "dir", req.Dir)

	res, err := y.command(req).Run(ctx, args...)
	if res != nil {
		logging.Trace(y.logger, "yt-dlp finished", "args", res.Args, "exit_code", res.ExitCode, "stdout", res.Stdout)
		if y.opts.Stderr != nil && res.Stderr != "" {
			fmt.Fprintln(y.opts.Stderr, res.Stderr)
		}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		toolErr := &ToolError{Cmd: y.opts.Command, ExitCode: -1, Err: err}
		if res != nil {
			toolErr.ExitCode = res.ExitCode
			toolErr.Stderr = strings.TrimSpace(res.Stderr)
		}
		return "", toolErr
	}

	path := lastLine(res.Stdout)
	if path == "" {
		return "", ErrNoOutputPath
	}
	y.logger.Debug("File stored", "path", path)
	return path, nil
}

func lastLine(out string) string {
	lines := strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

var _ Downloader = (*YtDlp)(nil)

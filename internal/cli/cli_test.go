package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/playlist-downloader/internal/downloader"
)

const sampleTxt = `INDEX PLAYLISTS
- Road Trip
END INDEX
END HEADER

loose   one   album   https://example.com/0

PLAYLIST Road Trip
drive   fast   album   https://example.com/1
nolink   here
drive   fast   again   https://example.com/2
broken   song   album   https://example.com/fail
`

type fakeDownloader struct {
	opts     downloader.Options
	requests []downloader.Request
}

func (f *fakeDownloader) Download(ctx context.Context, req downloader.Request) (string, error) {
	f.requests = append(f.requests, req)
	if req.Song.Link == "https://example.com/fail" {
		return "", errors.New("yt-dlp exited with code 1")
	}
	return filepath.Join(req.Dir, req.FileName+".mp3"), nil
}

type testApp struct {
	*App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	dl     *fakeDownloader
}

func newTestApp() *testApp {
	t := &testApp{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, dl: &fakeDownloader{}}
	t.App = &App{
		Stdout: t.stdout,
		Stderr: t.stderr,
		NewDownloader: func(opts downloader.Options, _ *slog.Logger) downloader.Downloader {
			t.dl.opts = opts
			return t.dl
		},
	}
	return t
}

func writeTxt(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "songs.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleTxt), 0o644))
	return path
}

func TestFormat(t *testing.T) {
	for _, args := range [][]string{{"format"}, {"-f"}, {"--format"}} {
		app := newTestApp()
		require.NoError(t, app.Execute(context.Background(), args))
		assert.Contains(t, app.stdout.String(), "Txt file format.")
		assert.Contains(t, app.stdout.String(), "playlist,title,artists,album,link")
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "subcommand", args: []string{"convert"}},
		{name: "legacy flag", args: []string{"-c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txt := writeTxt(t)
			out := filepath.Join(t.TempDir(), "songs.csv")
			app := newTestApp()

			args := append(tt.args, "--txt", txt, "--csv", out, "--sd")
			require.NoError(t, app.Execute(context.Background(), args))

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			expected := "playlist,title,artists,album,link\n" +
				",loose,one,album,https://example.com/0\n" +
				"Road Trip,drive,fast,album,https://example.com/1\n" +
				"Road Trip,nolink,here,,\n" +
				"Road Trip,broken,song,album,https://example.com/fail\n"
			assert.Equal(t, expected, string(data))

			assert.Contains(t, app.stdout.String(), "--skip-duplicates is set: 1/5 duplicates were skipped.")
			assert.Contains(t, app.stdout.String(), "1/5 songs were skipped overall, leaving 4 remaining.")
		})
	}
}

func TestConvertFilters(t *testing.T) {
	txt := writeTxt(t)
	out := filepath.Join(t.TempDir(), "songs.csv")
	app := newTestApp()

	args := []string{"convert", "--txt", txt, "--csv", out, "--filter-playlists", "0", "-i", "--ignore-noplaylist"}
	require.NoError(t, app.Execute(context.Background(), args))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "loose")
	assert.Contains(t, string(data), "Road Trip,drive,fast,again")
}

func TestQuietSuppressesOutput(t *testing.T) {
	txt := writeTxt(t)
	app := newTestApp()

	args := []string{"convert", "--txt", txt, "--csv", filepath.Join(t.TempDir(), "o.csv"), "--quiet"}
	require.NoError(t, app.Execute(context.Background(), args))

	assert.Empty(t, app.stdout.String())
	assert.Empty(t, app.stderr.String())
}

func TestExitCodes(t *testing.T) {
	txt := writeTxt(t)
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "no mode", args: []string{}, code: ExitConfig},
		{name: "two modes", args: []string{"-c", "-d"}, code: ExitConfig},
		{name: "convert without csv", args: []string{"convert", "--txt", txt}, code: ExitConfig},
		{name: "convert unreadable txt", args: []string{"convert", "--txt", missing + ".txt", "--csv", filepath.Join(dir, "o.csv")}, code: ExitTxtInput},
		{name: "convert unwritable csv", args: []string{"convert", "--txt", txt, "--csv", dir}, code: ExitCSV},
		{name: "invalid index", args: []string{"convert", "--txt", txt, "--csv", filepath.Join(dir, "o.csv"), "--filter-playlists", "first", "-i"}, code: ExitConfig},
		{name: "download without input", args: []string{"download", "--dir", dir}, code: ExitConfig},
		{name: "download without dir", args: []string{"download", "--txt", txt}, code: ExitConfig},
		{name: "download into bucket", args: []string{"download", "--txt", txt, "--dir", "gs://bucket/music"}, code: ExitConfig},
		{name: "download unreadable csv", args: []string{"download", "--csv", missing + ".csv", "--dir", dir}, code: ExitCSV},
		{name: "download with failures", args: []string{"download", "--txt", txt, "--dir", dir}, code: ExitDownloadFailed},
		{name: "missing config file", args: []string{"convert", "--txt", txt, "--csv", filepath.Join(dir, "o.csv"), "--config", missing + ".yaml"}, code: ExitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			err := app.Execute(context.Background(), tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.code, ExitCode(err))
		})
	}
}

func TestDownload(t *testing.T) {
	txt := writeTxt(t)
	dir := t.TempDir()
	app := newTestApp()

	args := []string{"dl", "--txt", txt, "--directory", dir, "-p", "--ytdlp-cmd", "/opt/yt-dlp", "-o", "%(title)"}
	err := app.Execute(context.Background(), args)
	assert.Equal(t, ExitDownloadFailed, ExitCode(err))

	assert.Equal(t, "/opt/yt-dlp", app.dl.opts.Command)
	assert.Equal(t, "ffmpeg", app.dl.opts.FFmpegLocation)
	require.Len(t, app.dl.requests, 4)
	assert.Equal(t, filepath.Join(dir, "Road Trip"), app.dl.requests[1].Dir)
	assert.Equal(t, "drive", app.dl.requests[1].FileName)

	assert.Contains(t, app.stdout.String(), "1/5 do not have a link specified and were skipped.")
	assert.Contains(t, app.stdout.String(), "3/4 songs were downloaded correctly.")

	m3u, err := os.ReadFile(filepath.Join(dir, "Road Trip", "Road Trip.m3u8"))
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n#EXTENC:UTF-8\n#PLAYLIST:Road Trip\ndrive.mp3\ndrive.mp3\n", string(m3u))
	assert.FileExists(t, filepath.Join(dir, "unlisted.m3u8"))
}

func TestDownloadPrefersTxt(t *testing.T) {
	txt := writeTxt(t)
	app := newTestApp()

	args := []string{"download", "--txt", txt, "--csv", filepath.Join(t.TempDir(), "missing.csv"), "--dir", t.TempDir(), "--filter-playlists", "none"}
	require.NoError(t, app.Execute(context.Background(), args))

	require.Len(t, app.dl.requests, 1)
	assert.Equal(t, "loose", app.dl.requests[0].Song.Title)
}

func TestDownloadVerbosity(t *testing.T) {
	txt := writeTxt(t)
	app := newTestApp()

	args := []string{"download", "--txt", txt, "--dir", t.TempDir(), "-vv", "--filter-playlists", "none"}
	require.NoError(t, app.Execute(context.Background(), args))

	assert.Equal(t, 2, app.dl.opts.Verbosity)
	assert.NotNil(t, app.dl.opts.Stderr)
	assert.Contains(t, app.stderr.String(), "level=DEBUG")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitConfig, ExitCode(errors.New("unknown flag")))

	inner := errors.New("inner")
	err := withExitCode(ExitCSV, inner)
	assert.Equal(t, ExitCSV, ExitCode(err))
	assert.ErrorIs(t, err, inner)
	assert.NoError(t, withExitCode(ExitCSV, nil))
}

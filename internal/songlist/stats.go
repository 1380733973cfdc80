package songlist

import (
	"fmt"
	"io"
)

// Stats counts what happened to the song entries of one parse.
type Stats struct {
	Total                int `json:"total"`
	SkippedTotal         int `json:"skipped_total"`
	SkippedTotalDownload int `json:"skipped_total_download"`
	SkippedNoPlaylist    int `json:"skipped_no_playlist"`
	SkippedNotAllowed    int `json:"skipped_not_allowed"`
	SkippedDuplicates    int `json:"skipped_duplicates"`
	SkippedSkipBlock     int `json:"skipped_skip_block"`
	NoLink               int `json:"no_link"`
}

// Remaining is the number of songs kept by the parse.
func (s Stats) Remaining() int {
	return s.Total - s.SkippedTotal
}

// RemainingDownload is the number of songs that will actually be downloaded.
func (s Stats) RemainingDownload() int {
	return s.Total - s.SkippedTotalDownload
}

// record accounts for one song entry.
func (s *Stats) record(v verdict, hasLink bool) {
	s.Total++
	if !hasLink {
		s.NoLink++
	}
	if v.skipBlock {
		s.SkippedSkipBlock++
	}
	if v.unlisted {
		s.SkippedNoPlaylist++
	}
	if v.notAllowed {
		s.SkippedNotAllowed++
	}
	if v.duplicate {
		s.SkippedDuplicates++
	}
	switch {
	case v.skip():
		s.SkippedTotal++
		s.SkippedTotalDownload++
	case !hasLink:
		s.SkippedTotalDownload++
	}
}

// ReportMode selects the wording of the stats block.
type ReportMode int

const (
	// ReportConvert describes a parse whose output is written to CSV.
	ReportConvert ReportMode = iota
	// ReportDownload describes a parse that feeds the downloader.
	ReportDownload
)

const statsRule = "-----------------"

// Report writes the human readable stats block. Filter lines are only
// printed for options that were enabled.
func Report(w io.Writer, stats Stats, cfg FilterConfig, mode ReportMode) {
	fmt.Fprintf(w, "\nSTATS:\n%s\n", statsRule)
	if cfg.IgnoreUnlisted {
		fmt.Fprintf(w, "--ignore-noplaylist is set: %d/%d songs skipped.\n", stats.SkippedNoPlaylist, stats.Total)
	}
	if cfg.AllowedPlaylists != nil {
		fmt.Fprintf(w, "--filter-playlists is set: %d/%d songs skipped.\n", stats.SkippedNotAllowed, stats.Total)
	}
	if cfg.SkipDuplicates {
		fmt.Fprintf(w, "--skip-duplicates is set: %d/%d duplicates were skipped.\n", stats.SkippedDuplicates, stats.Total)
	}
	if stats.SkippedSkipBlock > 0 {
		fmt.Fprintf(w, "One or more `SKIP' keywords were found. %d/%d were skipped.\n", stats.SkippedSkipBlock, stats.Total)
	}

	if mode == ReportDownload {
		if stats.NoLink > 0 {
			fmt.Fprintf(w, "%d/%d do not have a link specified and were skipped.\n", stats.NoLink, stats.Total)
		}
		fmt.Fprintf(w, "%d/%d songs were skipped overall, leaving %d remaining.\n",
			stats.SkippedTotalDownload, stats.Total, stats.RemainingDownload())
	} else {
		if stats.NoLink > 0 {
			fmt.Fprintf(w, "Warning: %d songs did not have a link specified, and will be skipped if trying to download.\n", stats.NoLink)
		}
		fmt.Fprintf(w, "%d/%d songs were skipped overall, leaving %d remaining.\n",
			stats.SkippedTotal, stats.Total, stats.Remaining())
	}
	fmt.Fprintf(w, "%s\n\n", statsRule)
}

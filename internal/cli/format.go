package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const formatHelp = `Txt file format.
    File starts with a header, which contains the playlist index.
    Below that are all the playlists. Each entry in a playlist needs at least 3 spaces between fields.
    All empty lines and lines starting with a '#' are ignored.
    If 'SKIP' is found on a line, all songs until an 'END SKIP' line are skipped, or all remaining in the current playlist if 'END SKIP' is not found until then.

    FILE.txt:

    INDEX PLAYLISTS
    - <playlist name>
    - <playlist name>
    ...
    - <playlist name>
    END INDEX

    END HEADER

    PLAYLIST <playlist name>
    <title>        <artists>        <album>            [<link>]
    <title>        <artists>        <album>            [<link>]
    ...

    PLAYLIST <playlist name>
    <title>        <artists>        <album>            [<link>]
    ...

Csv file format. (excel format)
    FILE.csv:

    playlist,title,artists,album,link
    <entry>
    <entry>
    ...
`

func printFormat(w io.Writer) {
	fmt.Fprint(w, formatHelp)
}

func (a *App) newFormatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Display the format of the txt/csv files",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printFormat(a.Stdout)
		},
	}
}

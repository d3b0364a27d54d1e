package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v2"

	"github.com/melodio/melodio-go/cmd/melodio/cli"
	"github.com/melodio/melodio-go/common/gerror"
	"github.com/melodio/melodio-go/common/models"
	"github.com/melodio/melodio-go/common/util"
)

// Output formats accepted by the --output flag.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// maxCellWidth caps the rendered width of a single table cell. Longer
// values are truncated with a trailing ellipsis.
const maxCellWidth = 40

// Table holds rows of already-formatted cells for table output.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// String renders the table as aligned columns. Cell widths are counted
// in runes so multibyte names line up.
func (t *Table) String() string {
	widths := make([]int, len(t.Columns))
	for i, column := range t.Columns {
		widths[i] = utf8.RuneCountInString(column)
	}
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = util.TruncateStringToMaxLength(cell, maxCellWidth)
			if n := utf8.RuneCountInString(cells[i]); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
		rows[r] = cells
	}
	var b strings.Builder
	b.WriteString(formatRow(t.Columns, widths))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(formatRow(row, widths))
	}
	return b.String()
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = pad(cell, widths[i])
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Render writes the document to stdout in the requested format. The table
// argument supplies the tabular form of the same data; document is used
// for json and yaml output.
func Render(format string, document interface{}, table *Table) error {
	switch format {
	case OutputJSON:
		data, err := json.MarshalIndent(document, "", "  ")
		if err != nil {
			return err
		}
		cli.Stdout.Print(string(data))
		return nil
	case OutputYAML:
		data, err := yaml.Marshal(document)
		if err != nil {
			return err
		}
		cli.Stdout.Print(strings.TrimRight(string(data), "\n"))
		return nil
	case OutputTable:
		cli.Stdout.Print(table.String())
		return nil
	default:
		return gerror.NewErrValidationFailed(fmt.Sprintf("error unsupported output format %q", format))
	}
}

// PlaylistsTable lists one playlist per row.
func PlaylistsTable(playlists []models.SimplifiedPlaylist) *Table {
	table := &Table{Columns: []string{"ID", "NAME", "OWNER", "TRACKS"}}
	for _, playlist := range playlists {
		owner := ""
		if playlist.Owner != nil {
			owner = playlist.Owner.DisplayName
		}
		total := ""
		if playlist.Tracks != nil {
			total = strconv.Itoa(playlist.Tracks.Total)
		}
		table.AddRow(string(playlist.ID), playlist.Name, owner, total)
	}
	return table
}

// TracksTable lists one track per row.
func TracksTable(tracks []models.Track) *Table {
	table := &Table{Columns: []string{"ID", "NAME", "ARTISTS", "LENGTH"}}
	for _, track := range tracks {
		table.AddRow(string(track.ID), track.Name, ArtistCredit(track.Artists), FormatDuration(track.DurationMS))
	}
	return table
}

// PlaylistTracksTable lists one playlist entry per row, including when it
// was added.
func PlaylistTracksTable(entries []models.PlaylistTrack) *Table {
	table := &Table{Columns: []string{"ADDED", "ID", "NAME", "ARTISTS", "LENGTH"}}
	for _, entry := range entries {
		added := ""
		if entry.AddedAt != nil {
			added = entry.AddedAt.Format("2006-01-02")
		}
		table.AddRow(added, string(entry.Track.ID), entry.Track.Name, ArtistCredit(entry.Track.Artists), FormatDuration(entry.Track.DurationMS))
	}
	return table
}

// SavedTracksTable lists one saved track per row.
func SavedTracksTable(saved []models.SavedTrack) *Table {
	table := &Table{Columns: []string{"ADDED", "ID", "NAME", "ARTISTS", "LENGTH"}}
	for _, entry := range saved {
		added := ""
		if entry.AddedAt != nil {
			added = entry.AddedAt.Format("2006-01-02")
		}
		table.AddRow(added, string(entry.Track.ID), entry.Track.Name, ArtistCredit(entry.Track.Artists), FormatDuration(entry.Track.DurationMS))
	}
	return table
}

// UsersTable lists one user per row.
func UsersTable(users []models.User) *Table {
	table := &Table{Columns: []string{"ID", "NAME", "FOLLOWERS"}}
	for _, user := range users {
		followers := ""
		if user.Followers != nil && user.Followers.Total != nil {
			followers = strconv.Itoa(*user.Followers.Total)
		}
		table.AddRow(string(user.ID), user.DisplayName, followers)
	}
	return table
}

// ArtistCredit joins artist display names in credit order, skipping
// artists with no display name.
func ArtistCredit(artists []models.User) string {
	names := make([]string, len(artists))
	for i, artist := range artists {
		names[i] = artist.DisplayName
	}
	return util.JoinNonEmpty(names, ", ")
}

// FormatDuration renders a track length in milliseconds as m:ss.
func FormatDuration(durationMS int) string {
	seconds := durationMS / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

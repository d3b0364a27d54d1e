package search

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/melodio/melodio-go/cmd/melodio/commands"
	"github.com/melodio/melodio-go/cmd/melodio/utils"
	"github.com/melodio/melodio-go/common/models"
	"github.com/melodio/melodio-go/common/models/search"
)

func init() {
	utils.AddLimitFlag(searchPlaylistsCmd.Flags(), &searchCmdConfig.limit)
	utils.AddLimitFlag(searchTracksCmd.Flags(), &searchCmdConfig.limit)

	commands.RootCmd.AddCommand(searchRootCmd)
	searchRootCmd.AddCommand(searchPlaylistsCmd)
	searchRootCmd.AddCommand(searchTracksCmd)
}

var searchCmdConfig = struct {
	limit int
}{}

var searchRootCmd = &cobra.Command{
	Use:   "search playlists|tracks",
	Short: "Search the catalog.",
	Long: `Search the catalog. Queries combine free text with field filters,
for example: melodio search tracks 'night drive artist:Motors year:>=1988'`,
}

var searchPlaylistsCmd = &cobra.Command{
	Use:           "playlists query",
	Short:         "Search for playlists matching a query.",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		apiClient, err := utils.NewAPIClient(commands.Global.Debug)
		if err != nil {
			return err
		}

		query := search.ParseQuery(strings.Join(args, " "))
		page, err := apiClient.SearchPlaylists(ctx, query, models.NewPagination(searchCmdConfig.limit))
		if err != nil {
			return err
		}
		playlists := page.Items()
		return utils.Render(commands.Global.Output, playlists, utils.PlaylistsTable(playlists))
	},
}

var searchTracksCmd = &cobra.Command{
	Use:           "tracks query",
	Short:         "Search for tracks matching a query.",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		apiClient, err := utils.NewAPIClient(commands.Global.Debug)
		if err != nil {
			return err
		}

		query := search.ParseQuery(strings.Join(args, " "))
		page, err := apiClient.SearchTracks(ctx, query, models.NewPagination(searchCmdConfig.limit))
		if err != nil {
			return err
		}
		tracks := page.Items()
		return utils.Render(commands.Global.Output, tracks, utils.TracksTable(tracks))
	},
}

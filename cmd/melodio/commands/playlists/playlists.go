package playlists

import (
	"context"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/melodio/melodio-go/client"
	"github.com/melodio/melodio-go/cmd/melodio/commands"
	"github.com/melodio/melodio-go/cmd/melodio/utils"
	"github.com/melodio/melodio-go/common/models"
)

func init() {
	playlistsListCmd.Flags().StringVar(
		&playlistsCmdConfig.user,
		"user",
		"",
		"List playlists owned by this user instead of the authorized user")
	playlistsListCmd.Flags().IntVar(
		&playlistsCmdConfig.page,
		"page",
		1,
		"The 1-based page of results to fetch")
	utils.AddPageFlags(playlistsListCmd.Flags(), &playlistsCmdConfig.limit, &playlistsCmdConfig.all)

	playlistsTracksCmd.Flags().IntVar(
		&playlistsCmdConfig.offset,
		"offset",
		0,
		"The offset of the first track to fetch")
	utils.AddPageFlags(playlistsTracksCmd.Flags(), &playlistsCmdConfig.limit, &playlistsCmdConfig.all)

	commands.RootCmd.AddCommand(playlistsRootCmd)
	playlistsRootCmd.AddCommand(playlistsListCmd)
	playlistsRootCmd.AddCommand(playlistsTracksCmd)
	playlistsRootCmd.AddCommand(playlistsShowCmd)
}

var playlistsCmdConfig = struct {
	user   string
	limit  int
	page   int
	offset int
	all    bool
}{}

var playlistsRootCmd = &cobra.Command{
	Use:   "playlists list|tracks|show",
	Short: "Browse playlists in the catalog.",
}

var playlistsListCmd = &cobra.Command{
	Use:           "list",
	Short:         "List playlists belonging to the authorized user, or to --user.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		apiClient, err := utils.NewAPIClient(commands.Global.Debug)
		if err != nil {
			return err
		}

		var playlists []models.SimplifiedPlaylist
		if playlistsCmdConfig.all {
			var paginator *client.Paginator[models.SimplifiedPlaylist]
			if playlistsCmdConfig.user != "" {
				paginator, err = apiClient.NewUserPlaylistsPaginator(
					models.ID(playlistsCmdConfig.user), models.NewPagination(playlistsCmdConfig.limit))
			} else {
				paginator, err = apiClient.NewMyPlaylistsPaginator(models.NewPagination(playlistsCmdConfig.limit))
			}
			if err != nil {
				return err
			}
			for paginator.HasNext() {
				page, err := paginator.Next(ctx)
				if err != nil {
					return err
				}
				playlists = append(playlists, page.Items()...)
			}
		} else {
			pagination := models.NewPaginationAtPage(playlistsCmdConfig.limit, playlistsCmdConfig.page)
			var page *models.Page[models.SimplifiedPlaylist]
			if playlistsCmdConfig.user != "" {
				page, err = apiClient.GetUserPlaylists(ctx, models.ID(playlistsCmdConfig.user), pagination)
			} else {
				page, err = apiClient.GetMyPlaylists(ctx, pagination)
			}
			if err != nil {
				return err
			}
			playlists = page.Items()
		}
		return utils.Render(commands.Global.Output, playlists, utils.PlaylistsTable(playlists))
	},
}

var playlistsTracksCmd = &cobra.Command{
	Use:           "tracks playlist-id",
	Short:         "List the tracks on a playlist.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		playlistID := models.ID(args[0])
		apiClient, err := utils.NewAPIClient(commands.Global.Debug)
		if err != nil {
			return err
		}

		var entries []models.PlaylistTrack
		if playlistsCmdConfig.all {
			paginator, err := apiClient.NewPlaylistTracksPaginator(playlistID, models.NewPagination(playlistsCmdConfig.limit))
			if err != nil {
				return err
			}
			for paginator.HasNext() {
				page, err := paginator.Next(ctx)
				if err != nil {
					return err
				}
				entries = append(entries, page.Items()...)
			}
		} else {
			pagination := models.NewPagination(playlistsCmdConfig.limit)
			if cmd.Flags().Changed("offset") {
				pagination = models.NewPaginationWithOffset(playlistsCmdConfig.limit, playlistsCmdConfig.offset)
			}
			page, err := apiClient.GetPlaylistTracks(ctx, playlistID, pagination)
			if err != nil {
				return err
			}
			entries = page.Items()
		}
		return utils.Render(commands.Global.Output, entries, utils.PlaylistTracksTable(entries))
	},
}

var playlistsShowCmd = &cobra.Command{
	Use:           "show playlist-id...",
	Short:         "Show the details of one or more playlists.",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		apiClient, err := utils.NewAPIClient(commands.Global.Debug)
		if err != nil {
			return err
		}

		// Fetch everything we can and report the failures together at
		// the end.
		var result *multierror.Error
		var playlists []*models.Playlist
		for _, arg := range args {
			playlist, err := apiClient.GetPlaylist(ctx, models.ID(arg))
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			playlists = append(playlists, playlist)
		}
		if len(playlists) > 0 {
			err = utils.Render(commands.Global.Output, playlists, playlistDetailsTable(playlists))
			if err != nil {
				result = multierror.Append(result, err)
			}
		}
		return result.ErrorOrNil()
	},
}

func playlistDetailsTable(playlists []*models.Playlist) *utils.Table {
	table := &utils.Table{Columns: []string{"ID", "NAME", "OWNER", "TRACKS", "FOLLOWERS", "DESCRIPTION"}}
	for _, playlist := range playlists {
		owner := ""
		if playlist.Owner != nil {
			owner = playlist.Owner.DisplayName
		}
		followers := ""
		if playlist.Followers != nil && playlist.Followers.Total != nil {
			followers = strconv.Itoa(*playlist.Followers.Total)
		}
		description := ""
		if playlist.Description != nil {
			description = *playlist.Description
		}
		total := strconv.Itoa(playlist.Tracks.Len())
		if n, ok := playlist.Tracks.Total(); ok {
			total = strconv.Itoa(n)
		}
		table.AddRow(string(playlist.ID), playlist.Name, owner, total, followers, description)
	}
	return table
}

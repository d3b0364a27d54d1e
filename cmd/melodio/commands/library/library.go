package library

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/melodio/melodio-go/cmd/melodio/commands"
	"github.com/melodio/melodio-go/cmd/melodio/utils"
	"github.com/melodio/melodio-go/common/models"
)

func init() {
	utils.AddPageFlags(libraryTracksCmd.Flags(), &libraryCmdConfig.limit, &libraryCmdConfig.all)

	libraryFollowingCmd.Flags().StringVar(
		&libraryCmdConfig.after,
		"after",
		"",
		"Resume listing from this cursor")
	utils.AddPageFlags(libraryFollowingCmd.Flags(), &libraryCmdConfig.limit, &libraryCmdConfig.all)

	commands.RootCmd.AddCommand(libraryRootCmd)
	libraryRootCmd.AddCommand(libraryTracksCmd)
	libraryRootCmd.AddCommand(libraryFollowingCmd)
}

var libraryCmdConfig = struct {
	limit int
	after string
	all   bool
}{}

var libraryRootCmd = &cobra.Command{
	Use:   "library tracks|following",
	Short: "Browse the authorized user's library.",
}

var libraryTracksCmd = &cobra.Command{
	Use:           "tracks",
	Short:         "List the tracks saved to the authorized user's library.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		apiClient, err := utils.NewAPIClient(commands.Global.Debug)
		if err != nil {
			return err
		}

		var saved []models.SavedTrack
		if libraryCmdConfig.all {
			paginator, err := apiClient.NewSavedTracksPaginator(models.NewPagination(libraryCmdConfig.limit))
			if err != nil {
				return err
			}
			for paginator.HasNext() {
				page, err := paginator.Next(ctx)
				if err != nil {
					return err
				}
				saved = append(saved, page.Items()...)
			}
		} else {
			page, err := apiClient.GetSavedTracks(ctx, models.NewPagination(libraryCmdConfig.limit))
			if err != nil {
				return err
			}
			saved = page.Items()
		}
		return utils.Render(commands.Global.Output, saved, utils.SavedTracksTable(saved))
	},
}

var libraryFollowingCmd = &cobra.Command{
	Use:           "following",
	Short:         "List the users the authorized user follows.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		apiClient, err := utils.NewAPIClient(commands.Global.Debug)
		if err != nil {
			return err
		}

		var users []models.User
		if libraryCmdConfig.all {
			paginator, err := apiClient.NewFollowedUsersPaginator(models.NewPagination(libraryCmdConfig.limit))
			if err != nil {
				return err
			}
			for paginator.HasNext() {
				page, err := paginator.Next(ctx)
				if err != nil {
					return err
				}
				users = append(users, page.Items()...)
			}
		} else {
			pagination := models.NewPagination(libraryCmdConfig.limit)
			if libraryCmdConfig.after != "" {
				pagination = models.NewPaginationWithCursor(libraryCmdConfig.limit, libraryCmdConfig.after)
			}
			page, err := apiClient.GetFollowedUsers(ctx, pagination)
			if err != nil {
				return err
			}
			users = page.Items()
		}
		return utils.Render(commands.Global.Output, users, utils.UsersTable(users))
	},
}

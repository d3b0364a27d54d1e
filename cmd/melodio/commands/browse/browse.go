package browse

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/melodio/melodio-go/cmd/melodio/cli"
	"github.com/melodio/melodio-go/cmd/melodio/commands"
	"github.com/melodio/melodio-go/cmd/melodio/utils"
	"github.com/melodio/melodio-go/common/models"
)

func init() {
	utils.AddLimitFlag(browseFeaturedCmd.Flags(), &browseCmdConfig.limit)

	commands.RootCmd.AddCommand(browseRootCmd)
	browseRootCmd.AddCommand(browseFeaturedCmd)
}

var browseCmdConfig = struct {
	limit int
}{}

var browseRootCmd = &cobra.Command{
	Use:   "browse featured",
	Short: "Browse catalog highlights.",
}

var browseFeaturedCmd = &cobra.Command{
	Use:           "featured",
	Short:         "List the playlists currently featured on the home page.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		apiClient, err := utils.NewAPIClient(commands.Global.Debug)
		if err != nil {
			return err
		}

		featured, err := apiClient.GetFeaturedPlaylists(ctx, models.NewPagination(browseCmdConfig.limit))
		if err != nil {
			return err
		}
		if commands.Global.Output == utils.OutputTable && featured.Message != "" {
			cli.Stdout.Printf("%s", featured.Message)
		}
		playlists := featured.Playlists.Items()
		return utils.Render(commands.Global.Output, featured, utils.PlaylistsTable(playlists))
	},
}

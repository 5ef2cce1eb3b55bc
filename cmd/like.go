package cmd

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like",
	Short: "like commands",
}

func addLikeCmd() *cobra.Command {
	var entryID string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "like a glossary entry",
		Example: "glossary like add -i <id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			like, err := apiClient().AddLike(cmd.Context(), entryID)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("like added with id: %s", like.ID)
		},
	}

	command.Flags().StringVarP(&entryID, "id", "i", "", "entry id (required)")

	return command
}

func removeLikeCmd() *cobra.Command {
	var entryID string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     "remove",
		Short:   "remove the most recent like from a glossary entry",
		Example: "glossary like remove -i <id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().RemoveLike(cmd.Context(), entryID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Info("like removed")
		},
	}

	command.Flags().StringVarP(&entryID, "id", "i", "", "entry id (required)")

	return command
}

func listLikesCmd() *cobra.Command {
	var entryID string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     "list",
		Short:   "list likes of a glossary entry",
		Example: "glossary like list -i <id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			likes, err := apiClient().ListLikes(cmd.Context(), entryID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Created At"})
			for _, like := range likes {
				table.Append([]string{like.ID, like.CreatedAt.Format("2006-01-02 15:04:05")})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&entryID, "id", "i", "", "entry id (required)")

	return command
}

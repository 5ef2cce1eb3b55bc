package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/emrgen/glossary/pkg/client"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createGlossaryCmd())
	rootCmd.AddCommand(getGlossaryCmd())
	rootCmd.AddCommand(listGlossaryCmd())
	rootCmd.AddCommand(searchGlossaryCmd())
	rootCmd.AddCommand(popularGlossaryCmd())
	rootCmd.AddCommand(updateGlossaryCmd())
	rootCmd.AddCommand(deleteGlossaryCmd())
	rootCmd.AddCommand(historyGlossaryCmd())

	rootCmd.AddCommand(likeCmd)
	likeCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	likeCmd.AddCommand(addLikeCmd())
	likeCmd.AddCommand(removeLikeCmd())
	likeCmd.AddCommand(listLikesCmd())
}

func createGlossaryCmd() *cobra.Command {
	var term string
	var definition string

	var required = []string{"term", "definition"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a glossary entry",
		Long:    `create a glossary entry with the given term and definition`,
		Example: "glossary create -t <term> -d <definition>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			entry, err := apiClient().CreateGlossary(cmd.Context(), client.GlossaryInput{
				Term:       term,
				Definition: definition,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("entry created with id: %s", entry.ID)
		},
	}

	command.Flags().StringVarP(&term, "term", "t", "", "term (required)")
	command.Flags().StringVarP(&definition, "definition", "d", "", "definition (required)")

	command.Flags().SortFlags = false

	return command
}

func getGlossaryCmd() *cobra.Command {
	var entryID string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a glossary entry",
		Example: "glossary get -i <id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if _, err := uuid.Parse(entryID); err != nil {
				logrus.Error("invalid entry id, expected a valid uuid")
				return
			}

			entry, err := apiClient().GetGlossary(cmd.Context(), entryID)
			if err != nil {
				logrus.Error(err)
				return
			}

			renderEntries([]*client.Glossary{entry})
		},
	}

	command.Flags().StringVarP(&entryID, "id", "i", "", "entry id (required)")

	return command
}

func listGlossaryCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "list",
		Short:   "list glossary entries grouped by first letter",
		Example: "glossary list",
		Run: func(cmd *cobra.Command, args []string) {
			groups, total, err := apiClient().ListGlossaries(cmd.Context())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Letter", "Term", "Definition", "Revision", "Likes"})
			for _, group := range groups {
				for _, entry := range group.Glossaries {
					table.Append([]string{
						group.Letter,
						entry.Term,
						truncate(entry.Definition, 60),
						strconv.Itoa(entry.Revision),
						strconv.FormatInt(entry.LikesCount, 10),
					})
				}
			}
			table.Render()

			fmt.Printf("total: %d\n", total)
		},
	}

	return command
}

func searchGlossaryCmd() *cobra.Command {
	var query string
	var limit int

	var required = []string{"query"}

	command := &cobra.Command{
		Use:     "search",
		Short:   "search glossary entries by term",
		Example: "glossary search -q <query> -l <limit>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			entries, total, err := apiClient().SearchGlossaries(cmd.Context(), query, limit)
			if err != nil {
				logrus.Error(err)
				return
			}

			renderEntries(entries)
			fmt.Printf("matches: %d\n", total)
		},
	}

	command.Flags().StringVarP(&query, "query", "q", "", "search query (required)")
	command.Flags().IntVarP(&limit, "limit", "l", 0, "max results")

	command.Flags().SortFlags = false

	return command
}

func popularGlossaryCmd() *cobra.Command {
	var limit int

	command := &cobra.Command{
		Use:     "popular",
		Short:   "list the most liked glossary entries",
		Example: "glossary popular -l <limit>",
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := apiClient().PopularGlossaries(cmd.Context(), limit)
			if err != nil {
				logrus.Error(err)
				return
			}

			renderEntries(entries)
		},
	}

	command.Flags().IntVarP(&limit, "limit", "l", 0, "max results")

	return command
}

func updateGlossaryCmd() *cobra.Command {
	var entryID string
	var term string
	var definition string
	var revision int

	var required = []string{"id", "term", "definition"}

	command := &cobra.Command{
		Use:     "update",
		Short:   "update a glossary entry",
		Example: "glossary update -i <id> -t <term> -d <definition> -r <revision>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			var expected *int
			if cmd.Flag("revision").Changed {
				expected = &revision
			}

			entry, err := apiClient().UpdateGlossary(cmd.Context(), entryID, client.GlossaryInput{
				Term:       term,
				Definition: definition,
			}, expected)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("entry updated, revision is now %d", entry.Revision)
		},
	}

	command.Flags().StringVarP(&entryID, "id", "i", "", "entry id (required)")
	command.Flags().StringVarP(&term, "term", "t", "", "term (required)")
	command.Flags().StringVarP(&definition, "definition", "d", "", "definition (required)")
	command.Flags().IntVarP(&revision, "revision", "r", 0, "expected revision")

	command.Flags().SortFlags = false

	return command
}

func deleteGlossaryCmd() *cobra.Command {
	var entryID string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a glossary entry",
		Example: "glossary delete -i <id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().DeleteGlossary(cmd.Context(), entryID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("entry deleted: %s", entryID)
		},
	}

	command.Flags().StringVarP(&entryID, "id", "i", "", "entry id (required)")

	return command
}

func historyGlossaryCmd() *cobra.Command {
	var entryID string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     "history",
		Short:   "show the change history of a glossary entry",
		Example: "glossary history -i <id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			records, err := apiClient().ListHistory(cmd.Context(), entryID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Revision", "Term", "Definition", "Who", "Created At"})
			for _, rec := range records {
				who := ""
				if rec.Who != nil {
					who = *rec.Who
				}
				table.Append([]string{
					strconv.Itoa(rec.Revision),
					rec.Term,
					truncate(rec.Definition, 60),
					who,
					rec.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&entryID, "id", "i", "", "entry id (required)")

	return command
}

func renderEntries(entries []*client.Glossary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Term", "Definition", "Revision", "Likes"})
	for _, entry := range entries {
		table.Append([]string{
			entry.ID,
			entry.Term,
			truncate(entry.Definition, 60),
			strconv.Itoa(entry.Revision),
			strconv.FormatInt(entry.LikesCount, 10),
		})
	}
	table.Render()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if cmd.Flag(required).Changed == false {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		cmd.Usage()

		return true
	}

	return false
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <file>...",
	Short: "Upload documents into a retrieval collection",
	Long: `Upload documents that bots can search, into the named collection.

Example:
  jbconsole index --collection faq docs/faq.pdf docs/pricing.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		collection, _ := cmd.Flags().GetString("collection")

		files := make([]string, 0, len(args))
		for _, f := range args {
			path, err := expandPath(f)
			if err != nil {
				return err
			}

			files = append(files, path)
		}

		result, err := a.client.IndexData(cmd.Context(), collection, files)
		if err != nil {
			return err
		}

		return printResult(cmd.OutOrStdout(), result, func() string {
			return fmt.Sprintf("Indexed %d file(s) into %q.", len(files), collection)
		})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().String("collection", "", "Collection name (required)")
	_ = indexCmd.MarkFlagRequired("collection")
}

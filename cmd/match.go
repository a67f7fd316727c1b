package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/company-match/internal/index"
	"github.com/sells-group/company-match/internal/matcher"
	"github.com/sells-group/company-match/internal/model"
)

var matchQuery model.Query

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match one company profile from the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		if matchQuery.Empty() {
			return eris.New("match: at least one of --name, --website, --phone, --facebook is required")
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		store, err := index.Open(cfg.Index.Path, cfg.Index.Name)
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := matcher.New(store).Match(cmd.Context(), matchQuery)
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no match")
			return nil
		}

		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return eris.Wrap(err, "match: encode result")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchQuery.Name, "name", "", "company name")
	matchCmd.Flags().StringVar(&matchQuery.Website, "website", "", "company website")
	matchCmd.Flags().StringVar(&matchQuery.Phone, "phone", "", "company phone")
	matchCmd.Flags().StringVar(&matchQuery.Facebook, "facebook", "", "company facebook URL")
	rootCmd.AddCommand(matchCmd)
}

package main

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospector/internal/store"
)

var searchNoSave bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one search and print the response as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("search"); err != nil {
			return err
		}

		ctx := cmd.Context()

		env, err := initApp(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		query := strings.Join(args, " ")
		resp, classified := env.Assembler.Respond(ctx, query)

		raw, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal response")
		}

		if !searchNoSave {
			err := env.Store.SaveSearch(ctx, store.Search{
				Query:        query,
				Intent:       classified.SearchIntent,
				ResponseType: resp.ResponseType(),
				Response:     raw,
			})
			if err != nil {
				return eris.Wrap(err, "save search")
			}
		}

		cmd.Println(string(raw))
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchNoSave, "no-save", false, "do not record the search in history")
	rootCmd.AddCommand(searchCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"lever/pkg/lever"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [user...]",
	Short: "dump persisted pool state and per-vault risk",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		store := provideStateStore(database)
		state, err := store.Load(ctx)
		if err != nil {
			cmd.PrintErrln(err)
			return
		}

		pretty, _ := cmd.Flags().GetBool("pretty")
		indent := ""
		if pretty {
			indent = "  "
		}

		out, _ := json.MarshalIndent(state.Pool, "", indent)
		fmt.Println(string(out))

		users := args
		if len(users) == 0 {
			for id := range state.Vaults {
				users = append(users, id)
			}
		}

		for _, user := range users {
			v, ok := state.Vaults[user]
			if !ok {
				cmd.PrintErrln("no vault for", user)
				continue
			}

			debt := lever.Debt(v.SharesBorrowed, state.Pool.ShareMultiplier)
			fmt.Printf("vault %s: idle %s/%s, fr %s, debt %s (%s shares), positions %s\n",
				user, v.AssetA, v.AssetB, v.SharesFR, debt, v.SharesBorrowed,
				cast.ToString(len(v.PositionIDs)))
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("pretty", true, "indent json output")
}

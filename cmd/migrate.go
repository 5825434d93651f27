package cmd

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "migrate database tables",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			logrus.WithError(err).Fatal("migrate failed")
		}

		logrus.Info("migrate done")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

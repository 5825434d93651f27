package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var accrueCmd = &cobra.Command{
	Use:   "accrue",
	Short: "accrue interest once and persist the snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		store := provideStateStore(database)
		feed := providePriceFeed()

		price, _ := cmd.Flags().GetString("price")
		p, err := decimal.NewFromString(price)
		if err != nil {
			logrus.WithError(err).Fatal("invalid price")
		}

		if err := feed.Post(p); err != nil {
			logrus.WithError(err).Fatal("post price failed")
		}

		engine := provideEngine(ctx, store, feed)

		delta, err := engine.Accrue(ctx)
		if err != nil {
			logrus.WithError(err).Fatal("accrue failed")
		}

		if err := store.Save(ctx, engine.Snapshot(ctx)); err != nil {
			logrus.WithError(err).Fatal("save snapshot failed")
		}

		logrus.WithField("delta", delta).Info("accrue done")
	},
}

func init() {
	rootCmd.AddCommand(accrueCmd)
	accrueCmd.Flags().String("price", "", "current pool price of A in B")
	_ = accrueCmd.MarkFlagRequired("price")
}

package commands

import (
	"github.com/battlesnakeio/pit/api"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var apiListen = ":3005"

func init() {
	serverCmd.Flags().StringVarP(&apiListen, "api-addr", "l", apiListen, "api address to listen on")
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "serves archived games over http",
	RunE: func(c *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		s := api.New(apiListen, store)
		log.WithFields(log.Fields{
			"listen": apiListen,
			"store":  storeType,
		}).Info("pit api serving")
		err = s.WaitForExit()
		if err != nil {
			log.WithError(err).
				WithField("listen", apiListen).
				Error("api server failed")
		}
		return err
	},
}

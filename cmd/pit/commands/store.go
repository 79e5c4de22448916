package commands

import (
	"io"

	"github.com/battlesnakeio/pit/controller"
	"github.com/battlesnakeio/pit/controller/filestore"
	"github.com/battlesnakeio/pit/controller/redisstore"
	"github.com/battlesnakeio/pit/controller/sqlstore"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	storeType = "file"
	storeDir  = ""
	redisURL  = "redis://localhost:6379"
	sqlURL    = "postgres://postgres@127.0.0.1:5432/postgres?sslmode=disable"
)

func addStoreFlags(c *cobra.Command) {
	c.PersistentFlags().StringVar(&storeType, "store", storeType, "game archive backend (inmem, file, redis, sql)")
	c.PersistentFlags().StringVar(&storeDir, "store-dir", storeDir, "directory of the file store (default ~/.pit/games)")
	c.PersistentFlags().StringVar(&redisURL, "redis-url", redisURL, "url of the redis store")
	c.PersistentFlags().StringVar(&sqlURL, "sql-url", sqlURL, "url of the postgres store")
}

func openStore() (controller.Store, error) {
	var (
		store controller.Store
		err   error
	)
	switch storeType {
	case "inmem":
		store = controller.InMemStore()
	case "file":
		store = filestore.NewFileStore(storeDir)
	case "redis":
		store, err = redisstore.NewRedisStore(redisURL)
	case "sql":
		store, err = sqlstore.NewSQLStore(sqlURL)
	default:
		return nil, errors.Errorf("unknown store %q", storeType)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s store", storeType)
	}
	log.WithField("store", storeType).Debug("store opened")
	return controller.InstrumentStore(store), nil
}

func closeStore(store controller.Store) {
	c, ok := store.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.WithError(err).WithField("store", storeType).Warn("unable to close store")
	}
}

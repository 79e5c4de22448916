package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/battlesnakeio/pit/api"
	"github.com/battlesnakeio/pit/controller"
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	statusCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to get the status of")
	statusCmd.Flags().StringVar(&apiAddr, "api-addr", "", "read from a pit api server instead of the store")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "gets the status of an archived game",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		var (
			gr  *api.GameResponse
			err error
		)
		if apiAddr != "" {
			gr, err = getStatus(apiAddr, gameID)
		} else {
			var store controller.Store
			store, err = openStore()
			if err != nil {
				return err
			}
			defer closeStore(store)
			gr, err = getStoredStatus(context.Background(), store, gameID)
		}
		if err != nil {
			return err
		}
		return printStatus(gr)
	},
}

func printStatus(gr *api.GameResponse) error {
	spew.Fdump(stdout, gr.Game, gr.LastFrame)
	if gr.LastFrame == nil {
		return nil
	}
	lines, err := boardLines(gr.Game, gr.LastFrame)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, strings.Join(lines, "\n"))
	return nil
}

func getStoredStatus(ctx context.Context, store controller.Store, id string) (*api.GameResponse, error) {
	game, err := store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	frames, err := store.ListGameFrames(ctx, id, 1, -1)
	if err != nil {
		return nil, err
	}
	gr := &api.GameResponse{Game: game}
	if len(frames) > 0 {
		gr.LastFrame = frames[0]
	}
	return gr, nil
}

func getStatus(addr, id string) (*api.GameResponse, error) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(fmt.Sprintf("%s/games/%s", addr, id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request failed: %s", resp.Status)
	}

	gr := &api.GameResponse{}
	err = json.Unmarshal(data, gr)
	if err != nil {
		log.WithFields(log.Fields{
			"resp": string(data),
			"id":   id,
		}).Info("unable to unmarshal status response")
		return nil, err
	}

	return gr, nil
}

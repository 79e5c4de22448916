package e2e

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"github.com/battlesnakeio/pit/api"
)

type client struct {
	apiURL string
	client *http.Client
}

func (c *client) getJSON(path string, v interface{}) error {
	resp, err := c.client.Get(c.apiURL + path)
	if err != nil {
		return err
	}
	err = json.NewDecoder(resp.Body).Decode(v)
	if cErr := resp.Body.Close(); err == nil {
		err = cErr
	}
	if err == nil && resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("%s: %s", path, resp.Status)
	}
	return err
}

func (c *client) gameStatus(gameID string) (*api.GameResponse, *api.FramesResponse, error) {
	st := &api.GameResponse{}
	frames := &api.FramesResponse{}

	if err := c.getJSON(fmt.Sprintf("/games/%s", gameID), st); err != nil {
		return nil, nil, err
	}
	if err := c.getJSON(fmt.Sprintf("/games/%s/frames?limit=1000", gameID), frames); err != nil {
		return nil, nil, err
	}
	return st, frames, nil
}

// randomMoves returns n lines of player input, mostly moves with the
// occasional stand.
func randomMoves(rng *rand.Rand, n int) string {
	commands := []string{"u", "d", "l", "r", ""}
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(commands[rng.Intn(len(commands))])
		b.WriteByte('\n')
	}
	return b.String()
}

package app

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/dronestate/internal/config"
)

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }

func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// fakeClient answers subscriptions without a broker. Methods not
// overridden here are not used by the console.
type fakeClient struct {
	mqtt.Client

	subscribeErr error

	mu           sync.Mutex
	subscribed   []string
	disconnected int
}

func (c *fakeClient) Subscribe(topic string, _ byte, _ mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribed = append(c.subscribed, topic)
	return doneToken{err: c.subscribeErr}
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected++
}

func TestRunConsoleDisconnectsWhenSubscribeFails(t *testing.T) {
	client := &fakeClient{subscribeErr: errors.New("not authorized")}

	err := runConsole(client, config.Default(), make(chan os.Signal))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorized")
	assert.Equal(t, 1, client.disconnected)
	assert.Len(t, client.subscribed, 1)
}

func TestRunConsoleDisconnectsOnStop(t *testing.T) {
	client := &fakeClient{}
	cfg := config.Default()
	cfg.ConsoleLogInterval = 10

	stop := make(chan os.Signal, 1)
	stop <- os.Interrupt

	require.NoError(t, runConsole(client, cfg, stop))
	assert.Equal(t, 1, client.disconnected)
	assert.Len(t, client.subscribed, 5)
}

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/dronestate/internal/config"
)

func TestDroneID(t *testing.T) {
	cfg := config.Default()
	cfg.DroneID = "fixed"
	assert.Equal(t, "fixed", droneID(cfg))

	cfg.DroneID = ""
	a, b := droneID(cfg), droneID(cfg)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestMockIdentity(t *testing.T) {
	id := mockIdentity()
	assert.NotEmpty(t, id.SerialNumber)
	assert.NotEmpty(t, id.Model)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	t.Setenv("OPENSTACK_CONNECT_TIMEOUT", "")
	t.Setenv("OPENSTACK_READ_TIMEOUT", "")
	t.Setenv("OPENSTACK_RETRY_MAX_ATTEMPTS", "")
	t.Setenv("OPENSTACK_RETRY_INITIAL_DELAY", "")
	t.Setenv("OPENSTACK_RETRY_MAX_DELAY", "")

	timeouts := LoadTimeouts()
	assert.Equal(t, 10*time.Second, timeouts.Connect)
	assert.Equal(t, 60*time.Second, timeouts.Read)
	assert.Equal(t, 3, timeouts.RetryMaxAttempts)
	assert.Equal(t, 2*time.Second, timeouts.RetryInitialDelay)
	assert.Equal(t, 10*time.Second, timeouts.RetryMaxDelay)
}

func TestLoadTimeouts_FromEnvironment(t *testing.T) {
	t.Setenv("OPENSTACK_CONNECT_TIMEOUT", "5s")
	t.Setenv("OPENSTACK_READ_TIMEOUT", "2m")
	t.Setenv("OPENSTACK_RETRY_MAX_ATTEMPTS", "5")

	timeouts := LoadTimeouts()
	assert.Equal(t, 5*time.Second, timeouts.Connect)
	assert.Equal(t, 2*time.Minute, timeouts.Read)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
}

func TestLoadTimeouts_InvalidValuesUseDefaults(t *testing.T) {
	t.Setenv("OPENSTACK_CONNECT_TIMEOUT", "not-a-duration")
	t.Setenv("OPENSTACK_RETRY_MAX_ATTEMPTS", "many")

	timeouts := LoadTimeouts()
	assert.Equal(t, 10*time.Second, timeouts.Connect)
	assert.Equal(t, 3, timeouts.RetryMaxAttempts)
}

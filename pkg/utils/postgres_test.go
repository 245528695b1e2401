package utils

import (
	"testing"
	"time"
)

func TestPostgresPoolConfigDefaults(t *testing.T) {
	c := PostgresPoolConfig{}.withDefaults()
	if c.MaxOpenConns <= 0 || c.MaxIdleConns <= 0 {
		t.Fatalf("expected positive pool defaults, got %+v", c)
	}
	if c.PingTimeout != 5*time.Second {
		t.Fatalf("unexpected ping timeout default: %v", c.PingTimeout)
	}
}

func TestPostgresPoolConfigKeepsExplicitValues(t *testing.T) {
	c := PostgresPoolConfig{MaxOpenConns: 3, PingTimeout: time.Second}.withDefaults()
	if c.MaxOpenConns != 3 {
		t.Fatalf("explicit MaxOpenConns overridden: %d", c.MaxOpenConns)
	}
	if c.PingTimeout != time.Second {
		t.Fatalf("explicit PingTimeout overridden: %v", c.PingTimeout)
	}
}

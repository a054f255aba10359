package aimconfig

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/aimcore/aimclock"
	"go.viam.com/aimcore/aimlog"
)

func validConfig() *Config {
	return &Config{
		TileWidth:          1,
		RejectionThreshold: 0,
		LengthBufferFactor: 0.1,
		MinAcceleration:    2.5,
		TimestepLength:     0.5,
		SpeedLimit:         15,
		SafetyBuffer:       2,
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	test.That(t, validConfig().Validate(), test.ShouldBeNil)
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tile width", func(c *Config) { c.TileWidth = 0 }},
		{"rejection threshold low", func(c *Config) { c.RejectionThreshold = -0.1 }},
		{"rejection threshold high", func(c *Config) { c.RejectionThreshold = 1.1 }},
		{"length buffer factor", func(c *Config) { c.LengthBufferFactor = -1 }},
		{"min acceleration", func(c *Config) { c.MinAcceleration = 0 }},
		{"timestep length", func(c *Config) { c.TimestepLength = 0 }},
		{"speed limit", func(c *Config) { c.SpeedLimit = 0 }},
		{"safety buffer", func(c *Config) { c.SafetyBuffer = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			test.That(t, cfg.Validate(), test.ShouldNotBeNil)
		})
	}
}

func TestNewContextThreadsClockAndLog(t *testing.T) {
	clk := aimclock.NewMock()
	log := aimlog.New("test")
	ctx, err := NewContext(validConfig(), clk, log)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ctx.Now(), test.ShouldEqual, int64(0))
	clk.Advance()
	test.That(t, ctx.Now(), test.ShouldEqual, int64(1))
}

func TestNewContextRejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.TileWidth = -1
	_, err := NewContext(cfg, aimclock.NewMock(), aimlog.New("test"))
	test.That(t, err, test.ShouldNotBeNil)
}

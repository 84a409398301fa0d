package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwner(t *testing.T) {
	assert.True(t, System.IsSystem())
	assert.False(t, System.IsProcess())
	assert.Equal(t, "system", System.String())

	p := Process(7)
	assert.True(t, p.IsProcess())
	assert.False(t, p.IsSystem())
	assert.Equal(t, 7, p.ID())
	assert.Equal(t, "P7", p.String())

	bad := Owner(-2)
	assert.False(t, bad.IsProcess())
	assert.False(t, bad.IsSystem())
	assert.Equal(t, "invalid(-2)", bad.String())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default", mutate: func(c *Config) {}},
		{name: "fine", mutate: func(c *Config) { *c = ConfigFine }},
		{name: "zero total", mutate: func(c *Config) { c.TotalMemory = 0 }, wantErr: true},
		{name: "zero min block", mutate: func(c *Config) { c.MinBlockSize = 0 }, wantErr: true},
		{name: "max below min", mutate: func(c *Config) { c.MaxBlockSize = 2 }, wantErr: true},
		{name: "negative static", mutate: func(c *Config) { c.StaticSize = -1 }, wantErr: true},
		{name: "no static", mutate: func(c *Config) { c.StaticSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_InRange(t *testing.T) {
	cfg := DefaultConfig
	assert.False(t, cfg.InRange(3))
	assert.True(t, cfg.InRange(4))
	assert.True(t, cfg.InRange(128))
	assert.False(t, cfg.InRange(129))
}

func TestBlock_End(t *testing.T) {
	assert.Equal(t, 150, Block{Address: 100, Size: 50}.End())
}

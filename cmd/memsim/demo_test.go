package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memsim/mem/alloc"
)

func TestDemo(t *testing.T) {
	resetFlags()

	output, err := captureOutput(t, func() error {
		return runDemo(alloc.DefaultConfig)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Allocated 100 KB to P1 at address 0")
	assert.Contains(t, output, "Allocated 50 KB to P2 at address 100")
	assert.Contains(t, output, "Released 100 KB from P1 (1 block(s), 0 merge(s))")
	assert.Contains(t, output, "Released 50 KB from P2 (1 block(s), 2 merge(s))")
	assert.Contains(t, output, "error: line 15: alloc: no free block large enough")
	assert.Contains(t, output, "OK: all invariants hold")
	assert.Contains(t, output, "Demo finished: 13 command(s), 1 expected error(s)")
}

func TestDemo_JSON(t *testing.T) {
	resetFlags()
	jsonOut = true

	output, err := captureOutput(t, func() error {
		return runDemo(alloc.DefaultConfig)
	})
	require.NoError(t, err)

	var got struct {
		Errors int           `json:"errors"`
		Stats  alloc.Stats   `json:"stats"`
		Blocks []alloc.Block `json:"blocks"`
	}
	decodeJSON(t, output, &got)
	assert.Equal(t, 1, got.Errors)
	assert.Equal(t, 0, got.Stats.Used)
	assert.Equal(t, []alloc.Block{{Address: 0, Size: 1024}}, got.Blocks)
}

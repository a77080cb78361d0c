package ply

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/ply/encio"
)

func TestConfig(t *testing.T) {
	var nilConfig *Config
	td.Cmp(t, nilConfig.copyAndFill(), &Config{BufferSize: encio.DefaultBufferSize})
	td.Cmp(t, (&Config{BufferSize: 1}).copyAndFill(), &Config{BufferSize: encio.MinBufferSize})
	td.Cmp(t, (&Config{BufferSize: 1 << 20}).copyAndFill(), &Config{BufferSize: 1 << 20})

	c := &Config{}
	c.copyAndFill()
	td.Cmp(t, c.BufferSize, 0)
}

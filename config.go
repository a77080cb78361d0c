package ply

import "github.com/stewi1014/ply/encio"

// Config defines configuration for Readers and Writers.
type Config struct {
	// BufferSize is the size in bytes of the window the stream is read or written through.
	// Tokens, header lines and binary values must fit in it.
	// If 0, encio.DefaultBufferSize is used, and sizes below encio.MinBufferSize are raised to it.
	BufferSize int
}

func (c *Config) copyAndFill() *Config {
	config := new(Config)
	if c != nil {
		*config = *c
	}

	if config.BufferSize <= 0 {
		config.BufferSize = encio.DefaultBufferSize
	}
	if config.BufferSize < encio.MinBufferSize {
		config.BufferSize = encio.MinBufferSize
	}

	return config
}

package netstr

const (
	// Default maximum netstring length (1MB)
	defaultMaxLength = 1024 * 1024

	// Initial payload buffer for the streaming decoder
	readChunkSize = 4096
)

// config holds decoder configuration.
type config struct {
	maxLength int
}

// Option configures a Decoder.
type Option func(*config)

// MaxLength sets the maximum allowed netstring length in bytes.
// Netstrings with length fields exceeding this value will return ErrTooLarge.
//
// A QMQP request carries the whole message in one frame, so servers
// accepting real mail usually raise this well above the default.
//
// Default: 1MB (1048576 bytes)
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

package buffer

const (
	// defaultCapacity is the default payload capacity for a new Buffer.
	defaultCapacity = 64

	// DefaultHeadroom is the space reserved in front of the payload for headers
	// prepended by lower layers (RLC, MAC subheaders).
	DefaultHeadroom = 64

	// readFromChunk is the minimum free tailroom kept while reading from an io.Reader.
	readFromChunk = 512
)

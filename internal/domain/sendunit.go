package domain

// Button is an inline URL button attached to exactly one send unit.
type Button struct {
	Label string
	URL   string
}

// SendUnit is one atomic delivery to a destination: unit 0 is the primary
// message, later units are attachment batches. Buttons appear on exactly one
// unit, preferring the primary message.
type SendUnit struct {
	Text        string
	ImageURL    string
	VideoURL    string
	Attachments []MediaItem
	Buttons     []Button
}

// Capabilities describe what a destination can receive; the renderer is
// parameterized on them instead of being copied per destination flavor.
type Capabilities struct {
	SupportsButtons     bool
	AttachmentBatchSize int
	PayloadCeiling      int64
}

// DefaultCapabilities matches a regular Telegram chat: inline keyboards,
// ten-item media groups, 50 MiB uploads.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		SupportsButtons:     true,
		AttachmentBatchSize: 10,
		PayloadCeiling:      50 * 1024 * 1024,
	}
}

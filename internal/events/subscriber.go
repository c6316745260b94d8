package events

// Raw is an event as received off the wire, before decoding.
type Raw struct {
	Topic string
	Data  []byte
}

// Subscriber is the interface for consuming events.
type Subscriber interface {
	// Subscribe delivers events matching topic on the returned channel until
	// the cancel function is called.
	Subscribe(topic string) (<-chan Raw, func(), error)
	Close() error
}

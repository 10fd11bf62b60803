package clipboard

// Monitor watches the host clipboard and reports its text. The core makes no
// assumption about poll versus push; a Monitor only guarantees that handler
// invocations arrive serialized relative to each other.
type Monitor interface {
	Start() error
	Stop() error
	OnChange(handler func(text string))
}

package device

import "context"

// NullConnector is used when no link to the fixture is available.
// It allows the service to run in limited mode: every connection attempt
// fails with ErrNoLink.
type NullConnector struct{}

// NewNullConnector creates a new NullConnector.
func NewNullConnector() *NullConnector {
	return &NullConnector{}
}

func (c *NullConnector) Connect(ctx context.Context) (Session, error) {
	return nil, ErrNoLink
}

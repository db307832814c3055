package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quantonganh/leadmagnet"
)

// SubscriberService is a mock of leadmagnet.SubscriberService
type SubscriberService struct {
	mock.Mock
}

// Add records the call and returns the configured subscriber and error
func (m *SubscriberService) Add(ctx context.Context, fullName, email string) (*leadmagnet.Subscriber, error) {
	args := m.Called(ctx, fullName, email)
	s, _ := args.Get(0).(*leadmagnet.Subscriber)
	return s, args.Error(1)
}

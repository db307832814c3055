package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quantonganh/leadmagnet"
)

// NotificationService is a mock of leadmagnet.NotificationService
type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) NotifyOwner(ctx context.Context, fullName, email string) (*leadmagnet.Delivery, error) {
	args := m.Called(ctx, fullName, email)
	d, _ := args.Get(0).(*leadmagnet.Delivery)
	return d, args.Error(1)
}

func (m *NotificationService) DeliverToUser(ctx context.Context, fullName, email, resourceURL string) (*leadmagnet.Delivery, error) {
	args := m.Called(ctx, fullName, email, resourceURL)
	d, _ := args.Get(0).(*leadmagnet.Delivery)
	return d, args.Error(1)
}

// Mailer is a mock of leadmagnet.Mailer
type Mailer struct {
	mock.Mock
}

func (m *Mailer) Send(ctx context.Context, msg *leadmagnet.Message) (*leadmagnet.Receipt, error) {
	args := m.Called(ctx, msg)
	r, _ := args.Get(0).(*leadmagnet.Receipt)
	return r, args.Error(1)
}

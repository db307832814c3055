package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quantonganh/leadmagnet"
)

// SubmissionService is a mock of leadmagnet.SubmissionService
type SubmissionService struct {
	mock.Mock
}

func (m *SubmissionService) Submit(ctx context.Context, fullName, email string) (*leadmagnet.SubmissionResult, error) {
	args := m.Called(ctx, fullName, email)
	r, _ := args.Get(0).(*leadmagnet.SubmissionResult)
	return r, args.Error(1)
}

// Database is a mock of leadmagnet.Database
type Database struct {
	mock.Mock
}

func (m *Database) Open() error {
	return m.Called().Error(0)
}

func (m *Database) Close() error {
	return m.Called().Error(0)
}

func (m *Database) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

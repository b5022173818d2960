package mocks

import (
	"context"

	"github.com/dukex/hireflow/pkg/protocol"
	"github.com/stretchr/testify/mock"
)

// MockSMSProvider is a mock implementation of protocol.SMSProvider.
type MockSMSProvider struct {
	mock.Mock
}

func (m *MockSMSProvider) SendSMS(ctx context.Context, to, message string) (string, error) {
	args := m.Called(ctx, to, message)

	return args.String(0), args.Error(1)
}

// MockCallProvider is a mock implementation of protocol.CallProvider.
type MockCallProvider struct {
	mock.Mock
}

func (m *MockCallProvider) PlaceCall(ctx context.Context, phoneNumber, script string) (string, error) {
	args := m.Called(ctx, phoneNumber, script)

	return args.String(0), args.Error(1)
}

// MockEmailProvider is a mock implementation of protocol.EmailProvider.
type MockEmailProvider struct {
	mock.Mock
}

func (m *MockEmailProvider) SendEmail(ctx context.Context, message protocol.EmailMessage) (string, error) {
	args := m.Called(ctx, message)

	return args.String(0), args.Error(1)
}

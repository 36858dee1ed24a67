package mocks

import (
	"context"

	"webboot/core/boot"

	"github.com/stretchr/testify/mock"
)

// WebServer is a mock implementation of boot.WebServer
type WebServer struct {
	mock.Mock
}

func (m *WebServer) Configure(d *boot.Deployment) error {
	args := m.Called(d)
	return args.Error(0)
}

func (m *WebServer) Start() error {
	args := m.Called()
	return args.Error(0)
}

func (m *WebServer) Stop() error {
	args := m.Called()
	return args.Error(0)
}

func (m *WebServer) Await(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *WebServer) Name() string {
	args := m.Called()
	return args.String(0)
}

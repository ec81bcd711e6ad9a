package bus

import (
	"github.com/stretchr/testify/mock"
)

// MockConn is a testify mock of Conn for exercising transport failures.
//
// Read and Write return the configured count; when the first return value
// of a Read expectation is a []byte it is copied into p and its length used
// as the count.
type MockConn struct {
	mock.Mock
}

var _ Conn = (*MockConn)(nil)

func NewMockConn() *MockConn {
	return &MockConn{}
}

func (m *MockConn) Read(p []byte) (int, error) {
	args := m.Called(p)
	if data, ok := args.Get(0).([]byte); ok {
		return copy(p, data), args.Error(1)
	}

	return args.Int(0), args.Error(1)
}

func (m *MockConn) Write(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockConn) Close() error {
	args := m.Called()
	return args.Error(0)
}

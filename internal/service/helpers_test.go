package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/database"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// memSlot is an in-memory Slot with switchable failures.
type memSlot struct {
	mu      sync.Mutex
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func newMemSlot() *memSlot {
	return &memSlot{data: make(map[string][]byte)}
}

func (m *memSlot) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, database.ErrSlotEmpty
	}
	return append([]byte(nil), data...), nil
}

func (m *memSlot) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memSlot) raw(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data[key]...)
}

func newTestStore(t *testing.T, slot Slot) *StudentService {
	t.Helper()
	return NewStudentService(context.Background(), slot, zaptest.NewLogger(t))
}

func regNos(students []model.Student) []string {
	out := make([]string, len(students))
	for i, st := range students {
		out[i] = st.RegNo
	}
	return out
}

func requireUnique(t *testing.T, students []model.Student) {
	t.Helper()
	seen := make(map[string]bool)
	for _, st := range students {
		require.False(t, seen[st.RegNo], "duplicate RegNo %s", st.RegNo)
		seen[st.RegNo] = true
	}
}

func record(regNo, name string) model.StudentRecord {
	return model.StudentRecord{Name: name, RegNo: regNo, Dept: "Physics", Year: "1", Marks: "70"}
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

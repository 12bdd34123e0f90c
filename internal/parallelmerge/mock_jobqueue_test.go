package parallelmerge

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/orizon-lang/pss/internal/jobqueue"
)

// MockJobQueue is a hand-authored stand-in for what `mockgen -source`
// would generate from jobqueue.JobQueue. Kept in a _test.go file since
// nothing outside this package's tests needs it.
type MockJobQueue struct {
	ctrl     *gomock.Controller
	recorder *MockJobQueueMockRecorder
}

type MockJobQueueMockRecorder struct {
	mock *MockJobQueue
}

func NewMockJobQueue(ctrl *gomock.Controller) *MockJobQueue {
	m := &MockJobQueue{ctrl: ctrl}
	m.recorder = &MockJobQueueMockRecorder{m}

	return m
}

func (m *MockJobQueue) EXPECT() *MockJobQueueMockRecorder { return m.recorder }

func (m *MockJobQueue) Workers() int {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "Workers")
	ret0, _ := ret[0].(int)

	return ret0
}

func (mr *MockJobQueueMockRecorder) Workers() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Workers", reflect.TypeOf((*MockJobQueue)(nil).Workers))
}

func (m *MockJobQueue) Enqueue(worker int, j jobqueue.Job) bool {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "Enqueue", worker, j)
	ret0, _ := ret[0].(bool)

	return ret0
}

func (mr *MockJobQueueMockRecorder) Enqueue(worker, j interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Enqueue", reflect.TypeOf((*MockJobQueue)(nil).Enqueue), worker, j)
}

func (m *MockJobQueue) HasIdle() bool {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "HasIdle")
	ret0, _ := ret[0].(bool)

	return ret0
}

func (mr *MockJobQueueMockRecorder) HasIdle() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HasIdle", reflect.TypeOf((*MockJobQueue)(nil).HasIdle))
}

func (m *MockJobQueue) Close() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Close")
}

func (mr *MockJobQueueMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockJobQueue)(nil).Close))
}

var _ jobqueue.JobQueue = (*MockJobQueue)(nil)

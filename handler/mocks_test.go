// ABOUTME: Hand-written gomock-style mocks for the handler layer's narrow service interfaces
// ABOUTME: Written in the mockgen output convention since no go:generate toolchain runs in this repo

package handler

import (
	"context"
	"reflect"

	"strategic-news-pipeline/service"

	"go.uber.org/mock/gomock"
)

// MockFetcher is a mock of the Fetcher interface.
type MockFetcher struct {
	ctrl     *gomock.Controller
	recorder *MockFetcherMockRecorder
}

type MockFetcherMockRecorder struct {
	mock *MockFetcher
}

func NewMockFetcher(ctrl *gomock.Controller) *MockFetcher {
	mock := &MockFetcher{ctrl: ctrl}
	mock.recorder = &MockFetcherMockRecorder{mock}
	return mock
}

func (m *MockFetcher) EXPECT() *MockFetcherMockRecorder {
	return m.recorder
}

func (m *MockFetcher) FetchN(ctx context.Context, maxFeeds int) (*service.FetchResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FetchN", ctx, maxFeeds)
	ret0, _ := ret[0].(*service.FetchResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockFetcherMockRecorder) FetchN(ctx, maxFeeds any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FetchN", reflect.TypeOf((*MockFetcher)(nil).FetchN), ctx, maxFeeds)
}

// MockGate is a mock of the Gate interface.
type MockGate struct {
	ctrl     *gomock.Controller
	recorder *MockGateMockRecorder
}

type MockGateMockRecorder struct {
	mock *MockGate
}

func NewMockGate(ctrl *gomock.Controller) *MockGate {
	mock := &MockGate{ctrl: ctrl}
	mock.recorder = &MockGateMockRecorder{mock}
	return mock
}

func (m *MockGate) EXPECT() *MockGateMockRecorder {
	return m.recorder
}

func (m *MockGate) Run(ctx context.Context, batchSize, maxBatches int) (*service.GateRunResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Run", ctx, batchSize, maxBatches)
	ret0, _ := ret[0].(*service.GateRunResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockGateMockRecorder) Run(ctx, batchSize, maxBatches any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Run", reflect.TypeOf((*MockGate)(nil).Run), ctx, batchSize, maxBatches)
}

// MockBucketer is a mock of the Bucketer interface.
type MockBucketer struct {
	ctrl     *gomock.Controller
	recorder *MockBucketerMockRecorder
}

type MockBucketerMockRecorder struct {
	mock *MockBucketer
}

func NewMockBucketer(ctrl *gomock.Controller) *MockBucketer {
	mock := &MockBucketer{ctrl: ctrl}
	mock.recorder = &MockBucketerMockRecorder{mock}
	return mock
}

func (m *MockBucketer) EXPECT() *MockBucketerMockRecorder {
	return m.recorder
}

func (m *MockBucketer) Run(ctx context.Context, hours int, dryRun bool) (*service.BucketRunResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Run", ctx, hours, dryRun)
	ret0, _ := ret[0].(*service.BucketRunResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockBucketerMockRecorder) Run(ctx, hours, dryRun any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Run", reflect.TypeOf((*MockBucketer)(nil).Run), ctx, hours, dryRun)
}

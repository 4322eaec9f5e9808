package ledger

import "context"

// MockService is a test double for Service. All function fields must be
// set before the corresponding method is called.
type MockService struct {
	LoadAccountFn       func(ctx context.Context, accountID string) (*Account, error)
	SubmitTransactionFn func(ctx context.Context, envelope string) (*SubmitResult, error)
}

func (m *MockService) LoadAccount(ctx context.Context, accountID string) (*Account, error) {
	return m.LoadAccountFn(ctx, accountID)
}

func (m *MockService) SubmitTransaction(ctx context.Context, envelope string) (*SubmitResult, error) {
	return m.SubmitTransactionFn(ctx, envelope)
}

// MockInvocationService is a test double for InvocationService.
type MockInvocationService struct {
	GetAccountFn          func(ctx context.Context, accountID string) (*Account, error)
	SimulateTransactionFn func(ctx context.Context, envelope string) (*Simulation, error)
	SendTransactionFn     func(ctx context.Context, envelope string) (*SubmitResult, error)
}

func (m *MockInvocationService) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	return m.GetAccountFn(ctx, accountID)
}

func (m *MockInvocationService) SimulateTransaction(ctx context.Context, envelope string) (*Simulation, error) {
	return m.SimulateTransactionFn(ctx, envelope)
}

func (m *MockInvocationService) SendTransaction(ctx context.Context, envelope string) (*SubmitResult, error) {
	return m.SendTransactionFn(ctx, envelope)
}

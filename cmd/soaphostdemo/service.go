package main

import (
	"fmt"

	"github.com/vikstrom/soaphost/pkg/servicemodel"
)

// CalculatorService is a small demo service exercising every argument-
// binding style the dispatcher supports: document-wrapped (Add, Divide),
// document-bare (Subtract), a one-way notification (Notify), the ambient
// request context (Echo), and a message-contract operation with a SOAP
// header (GetAccountBalance).
type CalculatorService struct{}

// NewCalculatorService constructs the demo service.
func NewCalculatorService() *CalculatorService {
	return &CalculatorService{}
}

// Add returns a + b.
func (s *CalculatorService) Add(a, b int) (int, error) {
	return a + b, nil
}

// Subtract returns a - b.
func (s *CalculatorService) Subtract(a, b int) (int, error) {
	return a - b, nil
}

// Divide returns a / b and, via the out parameter remainder, a % b.
func (s *CalculatorService) Divide(a, b int, remainder *int) (int, error) {
	if b == 0 {
		return 0, fmt.Errorf("division by zero")
	}
	*remainder = a % b
	return a / b, nil
}

// Notify is fire-and-forget: no response is sent back to the caller.
func (s *CalculatorService) Notify(message string) {
	fmt.Println("notify:", message)
}

// Echo reflects message back, annotated with the caller's address, taken
// from the ambient request context.
func (s *CalculatorService) Echo(ctx *servicemodel.RequestContext, message string) (string, error) {
	return fmt.Sprintf("%s (from %s)", message, ctx.HTTPRequest.RemoteAddr), nil
}

// AccountBalanceRequest is a message-contract parameter type: AuthToken is
// bound from a SOAP header, AccountID from the request body.
type AccountBalanceRequest struct {
	AuthToken string
	AccountID string
}

// AccountBalanceResponse is returned whole as GetAccountBalance's result.
type AccountBalanceResponse struct {
	AccountID string
	Balance   float64
}

// GetAccountBalance demonstrates message-contract binding: the header
// carries an auth token absent from the method's other (document-style)
// operations, and the body carries a single ordered part.
func (s *CalculatorService) GetAccountBalance(req *AccountBalanceRequest) (*AccountBalanceResponse, error) {
	if req.AuthToken == "" {
		return nil, fmt.Errorf("missing AuthToken header")
	}
	return &AccountBalanceResponse{AccountID: req.AccountID, Balance: 42.50}, nil
}

var calculatorContracts = []servicemodel.ContractDescriptor{
	{
		Name:      "CalculatorSoap",
		Namespace: "http://example.com/calculator",
		Operations: []servicemodel.OperationDescriptor{
			{
				Name:  "Add",
				Style: servicemodel.StyleDocWrapped,
				Parameters: []servicemodel.ParameterDescriptor{
					{Name: "a", Direction: servicemodel.DirIn},
					{Name: "b", Direction: servicemodel.DirIn},
				},
			},
			{
				Name:  "Subtract",
				Style: servicemodel.StyleDocBare,
				Parameters: []servicemodel.ParameterDescriptor{
					{Name: "a", Direction: servicemodel.DirIn},
					{Name: "b", Direction: servicemodel.DirIn},
				},
			},
			{
				Name:  "Divide",
				Style: servicemodel.StyleDocWrapped,
				Parameters: []servicemodel.ParameterDescriptor{
					{Name: "a", Direction: servicemodel.DirIn},
					{Name: "b", Direction: servicemodel.DirIn},
					{Name: "remainder", Direction: servicemodel.DirOut},
				},
			},
			{
				Name:     "Notify",
				Style:    servicemodel.StyleDocWrapped,
				IsOneWay: true,
				Parameters: []servicemodel.ParameterDescriptor{
					{Name: "message", Direction: servicemodel.DirIn},
				},
			},
			{
				Name:  "Echo",
				Style: servicemodel.StyleDocWrapped,
				Parameters: []servicemodel.ParameterDescriptor{
					{Direction: servicemodel.DirIn, IsRequestContext: true},
					{Name: "message", Direction: servicemodel.DirIn},
				},
			},
			{
				Name:  "GetAccountBalance",
				Style: servicemodel.StyleMessageContract,
				Parameters: []servicemodel.ParameterDescriptor{
					{Name: "request", Direction: servicemodel.DirIn},
				},
				MessageContract: &servicemodel.MessageContractDescriptor{
					IsWrapped: true,
					Headers: []servicemodel.MessageContractMemberDescriptor{
						{FieldName: "AuthToken", Name: "AuthToken"},
					},
					BodyParts: []servicemodel.MessageContractMemberDescriptor{
						{FieldName: "AccountID", Name: "AccountID", Order: 0},
					},
				},
			},
		},
	},
}

package sofra

import (
	"context"
	"fmt"
	"net/http"

	"sofra-client/pkg/api"
	"sofra-client/pkg/cache"
	"sofra-client/pkg/logging"
	"sofra-client/pkg/resource"
)

// PaymentService manages stored payment methods and order payments.
// Amounts are computed and charged server-side.
type PaymentService struct {
	methods  *resource.Client[PaymentMethod]
	payments *resource.Client[Payment]
}

// AddPaymentMethodRequest stores a tokenized payment instrument. The
// client never sees raw card numbers; tokenization happens upstream.
type AddPaymentMethodRequest struct {
	Token   string `json:"token" validate:"required"`
	Default bool   `json:"default"`
}

// PayRequest charges an order against a stored method.
type PayRequest struct {
	OrderID  string `json:"orderId" validate:"required"`
	MethodID string `json:"methodId" validate:"required"`
}

func newPaymentService(doer api.Doer, c *cache.Cache, logger *logging.Logger) (*PaymentService, error) {
	methods, err := resource.NewClient[PaymentMethod](resource.Config{
		API: doer, Cache: c, Name: "paymentmethod", BasePath: "/payment-methods", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	payments, err := resource.NewClient[Payment](resource.Config{
		API: doer, Cache: c, Name: "payment", BasePath: "/payments", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &PaymentService{methods: methods, payments: payments}, nil
}

// Methods returns a user's stored payment methods.
func (s *PaymentService) Methods(ctx context.Context, userID string) ([]PaymentMethod, error) {
	return s.methods.ListAt(ctx,
		fmt.Sprintf("/users/%s/payment-methods", userID),
		userSubKey(userID, "payment_methods"),
	)
}

// AddMethod stores a new payment method.
func (s *PaymentService) AddMethod(ctx context.Context, userID string, req AddPaymentMethodRequest) (*PaymentMethod, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var created PaymentMethod
	err := s.methods.Mutate(ctx, http.MethodPost,
		fmt.Sprintf("/users/%s/payment-methods", userID),
		req, &created,
		userSubKey(userID, "payment_methods"),
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RemoveMethod deletes a stored payment method.
func (s *PaymentService) RemoveMethod(ctx context.Context, userID, methodID string) error {
	return s.methods.Mutate(ctx, http.MethodDelete,
		fmt.Sprintf("/users/%s/payment-methods/%s", userID, methodID),
		nil, nil,
		userSubKey(userID, "payment_methods"),
	)
}

// Pay charges an order. The order entity is invalidated since its
// payment state changes.
func (s *PaymentService) Pay(ctx context.Context, req PayRequest) (*Payment, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var payment Payment
	err := s.payments.Mutate(ctx, http.MethodPost, "/payments", req, &payment,
		orderKey(req.OrderID),
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

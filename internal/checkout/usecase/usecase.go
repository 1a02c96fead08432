package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/checkout/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/money"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartReader is satisfied by cart.UseCase.
type CartReader interface {
	GetCart(ctx context.Context, sessionID string) model.CartState
}

type Options struct {
	Repository checkout.Repository // optional
	Locker     checkout.Locker     // optional
	Delay      time.Duration
	LockTTL    time.Duration
}

type checkoutUseCase struct {
	carts     CartReader
	publisher checkout.Publisher
	opts      Options
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewCheckoutUseCase(carts CartReader, publisher checkout.Publisher, opts Options, log logger.ZapLogger) checkout.UseCase {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Second
	}
	return &checkoutUseCase{
		carts:     carts,
		publisher: publisher,
		opts:      opts,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *checkoutUseCase) Submit(ctx context.Context, cartSession string, input *dto.SubmitInput) (*dto.SubmitResult, error) {
	customer := model.CustomerInfo{
		Email:     strings.TrimSpace(input.CustomerInfo.Email),
		FirstName: strings.TrimSpace(input.CustomerInfo.FirstName),
		LastName:  strings.TrimSpace(input.CustomerInfo.LastName),
		Phone:     strings.TrimSpace(input.CustomerInfo.Phone),
	}
	if customer.Email == "" || customer.FirstName == "" || customer.LastName == "" {
		return nil, checkout.ErrInvalidCustomer
	}

	items := input.Items
	if len(items) == 0 && cartSession != "" {
		items = uc.carts.GetCart(ctx, cartSession).Items
	}
	items = billable(items)
	if len(items) == 0 {
		return nil, checkout.ErrEmptyCart
	}

	if uc.opts.Locker != nil && cartSession != "" {
		release, err := uc.lock(ctx, cartSession)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	if err := uc.wait(ctx); err != nil {
		return nil, err
	}

	amount := decimal.Zero
	count := 0
	for _, it := range items {
		amount = amount.Add(money.Line(it.UnitPrice, it.Quantity))
		count += it.Quantity
	}

	now := uc.now()
	session := &model.CheckoutSession{
		ID:          uuid.New().String(),
		SessionID:   fmt.Sprintf("mock_session_%d", now.UnixMilli()),
		CartSession: cartSession,
		Customer:    customer,
		Items:       items,
		ItemCount:   count,
		Amount:      amount,
		CreatedAt:   now,
	}

	if uc.opts.Repository != nil {
		if err := uc.opts.Repository.Save(ctx, session); err != nil {
			return nil, errors.Wrap(err, "save checkout session")
		}
	}

	uc.logger.Info("Mock checkout session created",
		zap.String("session_id", session.SessionID),
		zap.String("amount", amount.StringFixed(2)),
		zap.Int("items", len(items)),
		zap.String("customer", customer.Email),
	)

	event := model.OrderCompletedEvent{
		EventID:   uuid.New().String(),
		EventType: model.EventTypeOrderCompleted,
		Timestamp: now,
		Payload: model.OrderCompletedPayload{
			CheckoutID:  session.ID,
			SessionID:   session.SessionID,
			CartSession: cartSession,
			ItemCount:   count,
			Amount:      amount,
		},
	}
	if err := uc.publisher.PublishOrderCompleted(context.WithoutCancel(ctx), event); err != nil {
		uc.logger.Error("failed to publish order completed", zap.String("session_id", session.SessionID), zap.Error(err))
	}

	return &dto.SubmitResult{
		Success:   true,
		SessionID: session.SessionID,
		Amount:    amount,
		ItemCount: count,
	}, nil
}

func (uc *checkoutUseCase) lock(ctx context.Context, cartSession string) (func(), error) {
	key := "lock:checkout:" + cartSession
	token := uuid.New().String()

	ok, err := uc.opts.Locker.AcquireLock(ctx, key, token, uc.opts.LockTTL)
	if err != nil {
		// Without Redis the checkout still goes through, just unguarded.
		uc.logger.Warn("checkout lock unavailable", zap.String("key", key), zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, checkout.ErrCheckoutInProgress
	}

	return func() {
		if err := uc.opts.Locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
			uc.logger.Warn("failed to release checkout lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// wait simulates payment processing.
func (uc *checkoutUseCase) wait(ctx context.Context) error {
	if uc.opts.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(uc.opts.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// billable drops lines that cannot be charged.
func billable(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 || it.UnitPrice.IsNegative() {
			continue
		}
		out = append(out, it)
	}
	return out
}

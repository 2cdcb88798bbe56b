package order

import (
	"context"
	"io"
	"log"
	"strings"

	"construapp/internal/domain"
	orderrepo "construapp/internal/repository/order"
	"github.com/google/uuid"
)

type repo interface {
	Create(ctx context.Context, in domain.Order) (*orderrepo.CreateResult, error)
	GetByID(ctx context.Context, appID, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, appID, customerID string) ([]domain.Order, error)
}

type eventPublisher interface {
	PublishOrderCreated(ctx context.Context, orderID, customerID string, totalCents int64) error
}

// Service validates and persists orders.
type Service struct {
	appID  string
	repo   repo
	pub    eventPublisher
	logger *log.Logger
}

func New(appID string, repo orderrepo.Repository, pub eventPublisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{appID: appID, repo: repo, pub: pub, logger: logger}
}

// SubmitInput is one checkout attempt. IdempotencyKey may be empty, in which
// case the attempt gets a fresh key and cannot deduplicate against retries.
type SubmitInput struct {
	SessionID      string
	Address        string
	Phone          string
	Cart           domain.Cart
	IdempotencyKey string
}

// SubmitResult reports the stored order and whether this submission was a
// duplicate of an earlier one.
type SubmitResult struct {
	Order     *domain.Order
	Duplicate bool
}

// Submit validates the delivery fields and the cart, then writes the order
// document atomically. The total and item snapshots are taken at submission
// time; the cart itself is left untouched.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if strings.TrimSpace(in.Address) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, &domain.ValidationError{Message: "please enter the delivery address and phone"}
	}
	if len(in.Cart.Lines) == 0 {
		return nil, &domain.ValidationError{Message: "cart is empty"}
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}

	items := make([]domain.OrderItem, 0, len(in.Cart.Lines))
	for _, line := range in.Cart.Lines {
		items = append(items, domain.OrderItem{
			ProductID:  line.ProductID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			PriceCents: line.UnitPriceCents,
			Unit:       line.Unit,
		})
	}

	res, err := s.repo.Create(ctx, domain.Order{
		AppID:          s.appID,
		CustomerID:     in.SessionID,
		Status:         domain.OrderStatusPending,
		TotalCents:     in.Cart.TotalCents(),
		Address:        strings.TrimSpace(in.Address),
		Phone:          strings.TrimSpace(in.Phone),
		Items:          items,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}

	if !res.AlreadyExists && s.pub != nil {
		if err := s.pub.PublishOrderCreated(ctx, res.Order.ID, res.Order.CustomerID, res.Order.TotalCents); err != nil {
			// The order is stored; the event is advisory.
			s.logger.Printf("order service: publish order created id=%s: %v", res.Order.ID, err)
		}
	}

	return &SubmitResult{Order: res.Order, Duplicate: res.AlreadyExists}, nil
}

// Get returns one order scoped to the submitting customer.
func (s *Service) Get(ctx context.Context, customerID, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, s.appID, id)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// ListForCustomer returns the customer's orders, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.repo.ListByCustomer(ctx, s.appID, customerID)
}

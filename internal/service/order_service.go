package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/Lixing-Zhang/order-intake/internal/keycrm"
	"github.com/Lixing-Zhang/order-intake/internal/models"
)

var (
	// ErrMissingRequiredData is returned when the buyer phone or the cart is missing
	ErrMissingRequiredData = errors.New("missing required data")
)

// OrderCreator creates orders in the CRM
type OrderCreator interface {
	CreateOrder(ctx context.Context, order keycrm.Order) (*keycrm.CreatedOrder, error)
}

// OrderService validates storefront orders and forwards them to the CRM
type OrderService struct {
	crm      OrderCreator
	sourceID int64
	validate *validator.Validate
}

// NewOrderService creates a new order service
func NewOrderService(crm OrderCreator, sourceID int64) *OrderService {
	return &OrderService{
		crm:      crm,
		sourceID: sourceID,
		validate: newValidator(),
	}
}

// newValidator adds the "truthy" tag: the field must hold a value the
// storefront actually filled in (see models.Value.Truthy).
func newValidator() *validator.Validate {
	v := validator.New()
	// RegisterValidation only fails for an empty tag or nil func
	_ = v.RegisterValidation("truthy", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(models.Value)
		return ok && value.Truthy()
	})
	return v
}

// Validate checks that the order has a buyer phone and a non-empty cart
func (s *OrderService) Validate(req models.OrderRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return ErrMissingRequiredData
	}
	return nil
}

// BuildOrder maps a storefront order to the KeyCRM order payload.
// Cart and buyer values are passed through unchanged.
func (s *OrderService) BuildOrder(req models.OrderRequest) keycrm.Order {
	products := make([]keycrm.Product, 0, len(req.Cart))
	for _, item := range req.Cart {
		products = append(products, keycrm.Product{
			SKU:      item.ID.Raw(),
			Price:    item.Price.Raw(),
			Quantity: keycrm.DefaultQuantity,
			Name:     item.Name.Raw(),
			Picture:  item.Image.Raw(),
			UnitType: keycrm.UnitPiece,
		})
	}

	order := keycrm.Order{
		SourceID:     s.sourceID,
		BuyerComment: keycrm.EmptyComment,
		Products:     products,
	}
	if req.UserData != nil {
		if req.UserData.Comment.Truthy() {
			order.BuyerComment = req.UserData.Comment.Raw()
		}
		order.Buyer = keycrm.Buyer{
			FullName: req.UserData.Username.Raw(),
			Phone:    req.UserData.Phone.Raw(),
		}
	}

	return order
}

// SubmitOrder validates the request and creates the order in the CRM.
// The CRM is called at most once.
func (s *OrderService) SubmitOrder(ctx context.Context, req models.OrderRequest) (*keycrm.CreatedOrder, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	return s.crm.CreateOrder(ctx, s.BuildOrder(req))
}

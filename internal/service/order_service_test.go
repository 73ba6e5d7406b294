package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/order-intake/internal/keycrm"
	"github.com/Lixing-Zhang/order-intake/internal/models"
)

// fakeCRM records every order it receives
type fakeCRM struct {
	orders  []keycrm.Order
	created *keycrm.CreatedOrder
	err     error
}

func (f *fakeCRM) CreateOrder(ctx context.Context, order keycrm.Order) (*keycrm.CreatedOrder, error) {
	f.orders = append(f.orders, order)
	return f.created, f.err
}

func validRequest() models.OrderRequest {
	return models.OrderRequest{
		UserData: &models.UserData{
			Username: models.StringValue("Jane"),
			Phone:    models.StringValue("+1000"),
			Comment:  models.StringValue("hi"),
		},
		Cart: []models.CartItem{
			{ID: models.StringValue("A1"), Price: models.Value("100"), Name: models.StringValue("Widget"), Image: models.StringValue("u")},
		},
	}
}

func orderJSON(t *testing.T, order keycrm.Order) string {
	t.Helper()
	data, err := json.Marshal(order)
	require.NoError(t, err)
	return string(data)
}

func TestOrderService_Validate(t *testing.T) {
	orderService := NewOrderService(&fakeCRM{}, 7)

	tests := []struct {
		name    string
		req     func() models.OrderRequest
		wantErr error
	}{
		{
			name:    "valid order",
			req:     validRequest,
			wantErr: nil,
		},
		{
			name: "valid order without username or comment",
			req: func() models.OrderRequest {
				r := validRequest()
				r.UserData = &models.UserData{Phone: models.StringValue("+1000")}
				return r
			},
			wantErr: nil,
		},
		{
			name: "missing user data",
			req: func() models.OrderRequest {
				r := validRequest()
				r.UserData = nil
				return r
			},
			wantErr: ErrMissingRequiredData,
		},
		{
			name: "numeric phone",
			req: func() models.OrderRequest {
				r := validRequest()
				r.UserData.Phone = models.Value("380501234567")
				return r
			},
			wantErr: nil,
		},
		{
			name: "absent phone",
			req: func() models.OrderRequest {
				r := validRequest()
				r.UserData.Phone = nil
				return r
			},
			wantErr: ErrMissingRequiredData,
		},
		{
			name: "empty phone",
			req: func() models.OrderRequest {
				r := validRequest()
				r.UserData.Phone = models.StringValue("")
				return r
			},
			wantErr: ErrMissingRequiredData,
		},
		{
			name: "null phone",
			req: func() models.OrderRequest {
				r := validRequest()
				r.UserData.Phone = models.Value("null")
				return r
			},
			wantErr: ErrMissingRequiredData,
		},
		{
			name: "missing cart",
			req: func() models.OrderRequest {
				r := validRequest()
				r.Cart = nil
				return r
			},
			wantErr: ErrMissingRequiredData,
		},
		{
			name: "empty cart",
			req: func() models.OrderRequest {
				r := validRequest()
				r.Cart = []models.CartItem{}
				return r
			},
			wantErr: ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := orderService.Validate(tt.req())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderService_BuildOrder(t *testing.T) {
	orderService := NewOrderService(&fakeCRM{}, 7)

	t.Run("maps buyer and cart", func(t *testing.T) {
		order := orderService.BuildOrder(validRequest())

		assert.JSONEq(t, `{
			"source_id": 7,
			"buyer_comment": "hi",
			"buyer": {"full_name": "Jane", "phone": "+1000"},
			"products": [{"sku": "A1", "price": 100, "quantity": 1, "name": "Widget", "picture": "u", "unit_type": "шт"}]
		}`, orderJSON(t, order))
	})

	t.Run("comment defaults to empty", func(t *testing.T) {
		for _, comment := range []models.Value{nil, models.Value("null"), models.StringValue("")} {
			req := validRequest()
			req.UserData.Comment = comment

			order := orderService.BuildOrder(req)
			assert.Equal(t, `""`, string(order.BuyerComment))
		}
	})

	t.Run("numeric ids pass through", func(t *testing.T) {
		req := validRequest()
		req.Cart = []models.CartItem{{ID: models.Value("101"), Price: models.StringValue("9.99")}}

		products, err := json.Marshal(orderService.BuildOrder(req).Products)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"sku": 101, "price": "9.99", "quantity": 1, "unit_type": "шт"}]`, string(products))
	})

	t.Run("every item gets quantity one", func(t *testing.T) {
		req := validRequest()
		req.Cart = append(req.Cart,
			models.CartItem{ID: models.StringValue("A1")},
			models.CartItem{ID: models.StringValue("B2"), Price: models.Value("12.5")},
		)

		order := orderService.BuildOrder(req)
		require.Len(t, order.Products, 3)
		for _, p := range order.Products {
			assert.Equal(t, 1, p.Quantity)
			assert.Equal(t, keycrm.UnitPiece, p.UnitType)
		}
		assert.Equal(t, `"B2"`, string(order.Products[2].SKU))
		assert.Equal(t, "12.5", string(order.Products[2].Price))
	})
}

func TestOrderService_SubmitOrder(t *testing.T) {
	t.Run("forwards valid order once", func(t *testing.T) {
		crm := &fakeCRM{created: &keycrm.CreatedOrder{ID: []byte("42")}}
		orderService := NewOrderService(crm, 7)

		created, err := orderService.SubmitOrder(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, "42", string(created.ID))
		require.Len(t, crm.orders, 1)
		assert.Equal(t, int64(7), crm.orders[0].SourceID)
	})

	t.Run("invalid order never reaches crm", func(t *testing.T) {
		crm := &fakeCRM{}
		orderService := NewOrderService(crm, 7)

		req := validRequest()
		req.Cart = nil

		_, err := orderService.SubmitOrder(context.Background(), req)
		assert.ErrorIs(t, err, ErrMissingRequiredData)
		assert.Empty(t, crm.orders)
	})

	t.Run("crm error is returned unchanged", func(t *testing.T) {
		crmErr := errors.New("connection refused")
		crm := &fakeCRM{err: crmErr}
		orderService := NewOrderService(crm, 7)

		_, err := orderService.SubmitOrder(context.Background(), validRequest())
		assert.ErrorIs(t, err, crmErr)
		assert.Len(t, crm.orders, 1)
	})
}

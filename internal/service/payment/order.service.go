package payment

import (
	"context"
	"net/http"
	"readafrik-checkout/internal/common/enum"
	"readafrik-checkout/internal/common/models"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/apperr"
	database "readafrik-checkout/internal/pkg/db"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/logger"
	"readafrik-checkout/internal/pkg/paystack"
	s3aws "readafrik-checkout/internal/pkg/storage/s3"
	orderRepo "readafrik-checkout/internal/repository/order"
	"strings"

	"github.com/samber/lo"
)

func (s *Service) ListOrders(ctx context.Context, req *ListOrdersRequest) *types.Response {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && !enum.PaymentStatusEnum(status).IsValid() {
		return helper.ParseResponse(&types.Response{Error: apperr.Validation("Invalid status filter")})
	}

	orders, err := s.rp.Order.List(ctx, orderRepo.ListFilter{
		Status:    status,
		Limit:     req.Limit,
		Direction: database.ParseDirection(strings.ToLower(req.Direction)),
	})
	if err != nil {
		return helper.ParseResponse(&types.Response{Error: apperr.Internal("Failed to list orders", err)})
	}

	out := lo.Map(orders, func(o models.Order, _ int) OrderResponse {
		return OrderResponse{Order: o, Amount: paystack.FromKobo(o.AmountKobo)}
	})

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: OrderListResponse{Orders: out, Count: len(out)},
	})
}

func (s *Service) GetOrder(ctx context.Context, reference string) *types.Response {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return helper.ParseResponse(&types.Response{Error: apperr.Validation("Payment reference is required")})
	}

	order, err := s.rp.Order.FindByReference(ctx, reference)
	if err != nil {
		return helper.ParseResponse(&types.Response{Error: err})
	}

	out := OrderResponse{Order: *order, Amount: paystack.FromKobo(order.AmountKobo)}
	if s.receipts != nil && order.NotifiedAt != nil {
		url, err := s.receipts.GetPresignedURL(ctx, s3aws.ReceiptKey(order.Reference))
		if err != nil {
			logger.Warning.Printf("failed to presign receipt for %s: %v", order.Reference, err)
		} else {
			out.ReceiptURL = url
		}
	}

	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: out})
}

func (s *Service) archiveReceipt(ctx context.Context, reference, html string) {
	if s.receipts == nil {
		return
	}
	if err := s.receipts.UploadFile(ctx, s3aws.ReceiptKey(reference), []byte(html), ""); err != nil {
		logger.Warning.Printf("failed to archive receipt for %s: %v", reference, err)
	}
}

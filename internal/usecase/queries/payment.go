package queries

import (
	"context"

	"github.com/google/uuid"

	"finca-reservations/internal/infra/db"
	"finca-reservations/internal/usecase/readmodel"
	"finca-reservations/internal/usecase/shared"
)

type PaymentView = readmodel.PaymentRM

type PaymentReads interface {
	ViewByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*readmodel.PaymentRM, error)
}

type PaymentQueries interface {
	StatusByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	uow   shared.UnitOfWork
	reads PaymentReads
}

func NewPaymentQueries(uow shared.UnitOfWork, reads PaymentReads) PaymentQueries {
	return &paymentQueriesImpl{uow: uow, reads: reads}
}

func (q *paymentQueriesImpl) StatusByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error) {
	var view *PaymentView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rm, err := q.reads.ViewByBookingID(ctx, dbtx, bookingID)
		if err != nil {
			return err
		}
		view = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

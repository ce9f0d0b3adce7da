// Package services – OrderService
//
// This file implements OrderService, the component that owns the order
// creation workflow: an idempotent, stock-aware transaction that validates a
// multi-item request, reserves inventory, computes the monetary total with
// exact decimal arithmetic, and guarantees exactly-once effect under client
// retries within a bounded time window.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// the request id and item count.
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-maintenance-backend/internal/domain"
	"github.com/tbourn/go-maintenance-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrderLine is one requested (spare part, quantity) pair. Duplicate part ids
// across lines are deliberately not merged: each line becomes its own item
// row and decrements stock independently.
type OrderLine struct {
	SparePartID uint
	Quantity    int
}

// OrderService coordinates order creation and retrieval.
type OrderService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Window bounds how long a repeated request_id is treated as a retry of
	// a prior request rather than a new one.
	Window time.Duration
}

// NewOrderService constructs an OrderService with the given idempotency window.
func NewOrderService(db *gorm.DB, window time.Duration) *OrderService {
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &OrderService{DB: db, Window: window}
}

// Create runs the order creation workflow for requestID and lines.
//
// Sequence:
//  1. Replay check: an order with the same request_id created within the
//     idempotency window is returned unchanged, with no side effects.
//  2. Existence validation: all part ids are resolved in one batch; any
//     missing id fails the whole request (*PartsNotFoundError).
//  3. Stock pre-flight: every line is checked against current stock before
//     any mutation (*InsufficientStockError on the first shortfall).
//  4. Commit phase, in a single transaction: insert the pending order,
//     snapshot each part's price as the line's unit price, insert item rows,
//     and reserve stock with an atomic compare-and-decrement per line. A
//     decrement that affects zero rows means a concurrent order won the
//     stock between pre-flight and commit; the transaction rolls back whole.
//  5. The computed total (Σ unit_price × quantity, exact decimals) is
//     persisted before the transaction commits.
//
// Two concurrent retries with the same request_id can both pass step 1; the
// unique index on request_id then fails the second insert, and Create
// resolves the race by re-reading and returning the winner.
func (s *OrderService) Create(ctx context.Context, requestID int64, lines []OrderLine) (*domain.ServiceOrder, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.Int64("order.request_id", requestID),
			attribute.Int("order.lines", len(lines)),
		),
	)
	defer span.End()

	if requestID <= 0 {
		return nil, ErrInvalidRequestID
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	// 1) Replay check against the order ledger itself.
	since := time.Now().UTC().Add(-s.Window)
	if prior, err := repo.FindOrderInWindow(ctx, s.DB, requestID, since); err == nil {
		span.SetAttributes(attribute.Bool("order.replayed", true))
		return prior, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	// 2) Resolve every referenced part in one batch.
	ids := make([]uint, 0, len(lines))
	for _, ln := range lines {
		ids = append(ids, ln.SparePartID)
	}
	parts, err := repo.FindPartsByIDs(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	var missing []uint
	seen := make(map[uint]struct{}, len(lines))
	for _, ln := range lines {
		if _, dup := seen[ln.SparePartID]; dup {
			continue
		}
		seen[ln.SparePartID] = struct{}{}
		if _, ok := parts[ln.SparePartID]; !ok {
			missing = append(missing, ln.SparePartID)
		}
	}
	if len(missing) > 0 {
		return nil, &PartsNotFoundError{IDs: missing}
	}

	// 3) Pre-flight stock pass over the full batch, before any mutation.
	// Lines referencing the same part are counted cumulatively.
	needed := make(map[uint]int, len(lines))
	for _, ln := range lines {
		needed[ln.SparePartID] += ln.Quantity
	}
	for _, ln := range lines {
		p := parts[ln.SparePartID]
		if p.Stock < needed[ln.SparePartID] {
			return nil, &InsufficientStockError{
				Name:      p.Name,
				SKU:       p.SKU,
				Available: p.Stock,
				Requested: needed[ln.SparePartID],
			}
		}
	}

	// 4+5) Commit phase: all writes in one transaction.
	var orderID uint
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := &domain.ServiceOrder{
			RequestID: requestID,
			Status:    domain.StatusPending,
			Total:     decimal.Zero,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		total := decimal.Zero
		for _, ln := range lines {
			p := parts[ln.SparePartID]
			item := &domain.ServiceOrderItem{
				OrderID:     order.ID,
				SparePartID: ln.SparePartID,
				Quantity:    ln.Quantity,
				UnitPrice:   p.Price,
			}
			if err := repo.CreateOrderItem(ctx, tx, item); err != nil {
				return err
			}

			ok, err := repo.DecrementStock(ctx, tx, ln.SparePartID, ln.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Lost the stock to a concurrent order since pre-flight.
				// Re-read so the error carries the stock that actually
				// failed the guard, not the pre-flight snapshot.
				avail := 0
				if cur, serr := repo.PartStock(ctx, tx, ln.SparePartID); serr == nil {
					avail = cur
				}
				return &InsufficientStockError{
					Name:      p.Name,
					SKU:       p.SKU,
					Available: avail,
					Requested: needed[ln.SparePartID],
				}
			}

			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
		}

		if err := repo.SetOrderTotal(ctx, tx, order.ID, total); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			// A concurrent retry committed first; serve its order.
			if winner, rerr := repo.FindOrderByRequestID(ctx, s.DB, requestID); rerr == nil {
				span.SetAttributes(attribute.Bool("order.replayed", true))
				return winner, nil
			}
		}
		return nil, err
	}

	return repo.GetOrder(ctx, s.DB, orderID)
}

// Get returns an order by id with items, parts, and categories populated.
func (s *OrderService) Get(ctx context.Context, id uint) (*domain.ServiceOrder, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("order.id", int64(id))),
	)
	defer span.End()

	o, err := repo.GetOrder(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-warehouse-inventory/internal/ledger"
	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/internal/repository"
	"go-warehouse-inventory/internal/ws"
	"go-warehouse-inventory/pkg/logger"
	"go-warehouse-inventory/pkg/metrics"
	"go-warehouse-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StockService interface {
	CreateTransaction(ctx context.Context, req *TransactionRequest, actor Actor) (*TransactionDetail, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, req *HeaderRequest, actor Actor) (*TransactionDetail, error)
	AddLine(ctx context.Context, headerID uuid.UUID, req *LineRequest, actor Actor) (*model.StockLine, error)
	UpdateLine(ctx context.Context, lineID uuid.UUID, req *LineRequest, actor Actor) (*model.StockLine, error)
	DeleteLine(ctx context.Context, lineID uuid.UUID, actor Actor) error
	CompleteTransaction(ctx context.Context, id uuid.UUID, actor Actor) (*TransactionDetail, error)
	CancelTransaction(ctx context.Context, id uuid.UUID, actor Actor) (*TransactionDetail, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID, actor Actor) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionDetail, error)
	GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]TransactionDetail, error)
	GetLine(ctx context.Context, id uuid.UUID) (*model.StockLine, error)
	GetLines(ctx context.Context, filter repository.LineFilter) ([]model.StockLine, error)
	TransactionSummary(ctx context.Context, from, to time.Time) (*TransactionSummary, error)
}

// TypeSummary aggregates the headers of one transaction type.
type TypeSummary struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"total_amount"`
}

type TransactionSummary struct {
	From              time.Time                              `json:"start_date"`
	To                time.Time                              `json:"end_date"`
	TotalTransactions int                                    `json:"total_transactions"`
	TotalAmount       decimal.Decimal                        `json:"total_amount"`
	ByType            map[ledger.TransactionType]TypeSummary `json:"by_type"`
	ByStatus          map[ledger.Status]int                  `json:"by_status"`
}

type stockService struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	reportRepo  repository.ReportRepository
	db          *gorm.DB
	wsHub       *ws.Hub
	log         *zap.Logger
	now         func() time.Time
}

func NewStockService(
	pRepo repository.ProductRepository,
	sRepo repository.StockRepository,
	rRepo repository.ReportRepository,
	db *gorm.DB,
	hub *ws.Hub,
	log *zap.Logger,
) StockService {
	return &stockService{
		productRepo: pRepo,
		stockRepo:   sRepo,
		reportRepo:  rRepo,
		db:          db,
		wsHub:       hub,
		log:         logger.OrNop(log).Named("stock"),
		now:         time.Now,
	}
}

func (s *stockService) repos(db *gorm.DB) (repository.ProductRepository, repository.StockRepository) {
	return s.productRepo.WithTx(db), s.stockRepo.WithTx(db)
}

func (s *stockService) CreateTransaction(ctx context.Context, req *TransactionRequest, actor Actor) (*TransactionDetail, error) {
	detail, err := s.createTransaction(ctx, req, actor)
	if err != nil {
		s.reject("create transaction", err)
		return nil, err
	}
	return detail, nil
}

func (s *stockService) createTransaction(ctx context.Context, req *TransactionRequest, actor Actor) (*TransactionDetail, error) {
	db := s.db.WithContext(ctx)
	products, _ := s.repos(db)

	// 1. Payload validation
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	// 2. Resolve products; one line per product
	resolved, err := s.resolveLines(products, req.Lines, true)
	if err != nil {
		return nil, err
	}

	// 3. Availability against current stock (request-level check)
	for i, line := range req.Lines {
		if err := checkLine(products, req.Type, resolved[i], line.Quantity, nil); err != nil {
			return nil, err
		}
	}

	date := s.now().UTC()
	if req.TransactionDate != nil {
		date = req.TransactionDate.UTC()
	}
	status := req.Status
	if status == "" {
		status = ledger.StatusDraft
	}

	var headerID uuid.UUID
	// 4. Header and lines commit together or not at all
	err = db.Transaction(func(tx *gorm.DB) error {
		pTx, sTx := s.repos(tx)

		// 4a. Serialise writers on the referenced products
		if _, err := pTx.LockByIDs(productIDs(resolved)); err != nil {
			return err
		}

		header := model.StockTransaction{
			TransactionDate: date,
			Type:            req.Type,
			ReferenceNumber: req.ReferenceNumber,
			VendorCustomer:  req.VendorCustomer,
			Remarks:         req.Remarks,
			Status:          status,
		}
		header.CreatedBy = actor.AuditName()
		header.UpdatedBy = actor.AuditName()
		if err := sTx.CreateHeader(&header); err != nil {
			return err
		}
		headerID = header.ID

		for i, in := range req.Lines {
			// 4b. Final guard under the lock, immediately before the insert
			if err := checkLine(pTx, req.Type, resolved[i], in.Quantity, nil); err != nil {
				return err
			}
			line := model.StockLine{StockTransactionID: header.ID}
			in.apply(&line, resolved[i].ID)
			line.CreatedBy = actor.AuditName()
			line.UpdatedBy = actor.AuditName()
			if err := sTx.CreateLine(&line); err != nil {
				return prefixFields(err, fmt.Sprintf("stock_details[%d]", i))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_, sRepo := s.repos(db)
	header, err := sRepo.FindByID(headerID)
	if err != nil {
		return nil, err
	}

	// 5. Metrics, log, broadcast
	moved := decimal.Zero
	for _, l := range header.Lines {
		moved = moved.Add(l.Quantity)
	}
	metrics.TransactionsCreated.WithLabelValues(string(header.Type)).Inc()
	metrics.QuantityMoved.WithLabelValues(string(header.Type)).Add(moved.InexactFloat64())

	s.log.Info("stock transaction created",
		zap.String("transaction_id", header.TransactionID),
		zap.String("type", string(header.Type)),
		zap.Int("lines", len(header.Lines)),
		zap.String("total_amount", header.TotalAmount.StringFixed(2)),
		zap.String("actor", actor.AuditName()))

	detail := newTransactionDetail(header)
	s.wsHub.Publish(ws.EventTransactionCreated, eventData{
		"transaction": detail,
		"user":        actor.Name,
		"message":     fmt.Sprintf("%s recorded %s %s", actor.Name, header.TypeDisplay(), header.TransactionID),
	})
	return &detail, nil
}

func (s *stockService) AddLine(ctx context.Context, headerID uuid.UUID, req *LineRequest, actor Actor) (*model.StockLine, error) {
	line, err := s.addLine(ctx, headerID, req, actor)
	if err != nil {
		s.reject("add line", err)
		return nil, err
	}
	return line, nil
}

func (s *stockService) addLine(ctx context.Context, headerID uuid.UUID, req *LineRequest, actor Actor) (*model.StockLine, error) {
	db := s.db.WithContext(ctx)
	products, stock := s.repos(db)

	// 1. Payload validation
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	// 2. Header must exist and still be editable
	header, err := stock.FindByID(headerID)
	if err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}
	if err := editable(header); err != nil {
		return nil, err
	}

	// 3. Product, and no second line for the same product and lot
	resolved, err := s.resolveLines(products, []LineRequest{*req}, false)
	if err != nil {
		return nil, err
	}
	product := resolved[0]
	if err := duplicateLine(header.Lines, product.ID, req.LotBatchNumber, uuid.Nil); err != nil {
		return nil, err
	}

	// 4. Availability against current stock
	if err := checkLine(products, header.Type, product, req.Quantity, nil); err != nil {
		return nil, err
	}

	var lineID uuid.UUID
	err = db.Transaction(func(tx *gorm.DB) error {
		pTx, sTx := s.repos(tx)
		if err := lockEditable(sTx, header.ID); err != nil {
			return err
		}
		if _, err := pTx.LockByIDs([]uuid.UUID{product.ID}); err != nil {
			return err
		}
		if err := checkLine(pTx, header.Type, product, req.Quantity, nil); err != nil {
			return err
		}
		line := model.StockLine{StockTransactionID: header.ID}
		req.apply(&line, product.ID)
		line.CreatedBy = actor.AuditName()
		line.UpdatedBy = actor.AuditName()
		if err := sTx.CreateLine(&line); err != nil {
			return err
		}
		lineID = line.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.QuantityMoved.WithLabelValues(string(header.Type)).Add(req.Quantity.InexactFloat64())
	return s.afterLineWrite(stock, lineID, header, "line_added", actor)
}

func (s *stockService) UpdateLine(ctx context.Context, lineID uuid.UUID, req *LineRequest, actor Actor) (*model.StockLine, error) {
	line, err := s.updateLine(ctx, lineID, req, actor)
	if err != nil {
		s.reject("update line", err)
		return nil, err
	}
	return line, nil
}

func (s *stockService) updateLine(ctx context.Context, lineID uuid.UUID, req *LineRequest, actor Actor) (*model.StockLine, error) {
	db := s.db.WithContext(ctx)
	products, stock := s.repos(db)

	// 1. Payload validation
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	// 2. Existing line and its header
	previous, err := stock.FindLine(lineID)
	if err != nil {
		return nil, notFound(err, ErrLineNotFound)
	}
	header, err := stock.FindByID(previous.StockTransactionID)
	if err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}
	if err := editable(header); err != nil {
		return nil, err
	}

	// 3. Target product; lines default to their current product
	in := *req
	if in.ProductID == uuid.Nil && in.ProductCode == "" {
		in.ProductID = previous.ProductID
	}
	resolved, err := s.resolveLines(products, []LineRequest{in}, false)
	if err != nil {
		return nil, err
	}
	product := resolved[0]
	if err := duplicateLine(header.Lines, product.ID, in.LotBatchNumber, previous.ID); err != nil {
		return nil, err
	}

	// 4. Availability with the line's previous quantity added back
	if err := checkLine(products, header.Type, product, in.Quantity, previous); err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		pTx, sTx := s.repos(tx)
		if err := lockEditable(sTx, header.ID); err != nil {
			return err
		}
		if _, err := pTx.LockByIDs(productIDs([]*model.Product{product, previous.Product})); err != nil {
			return err
		}
		if err := checkLine(pTx, header.Type, product, in.Quantity, previous); err != nil {
			return err
		}
		line := *previous
		line.Product = nil
		in.apply(&line, product.ID)
		line.UpdatedBy = actor.AuditName()
		return sTx.SaveLine(&line)
	})
	if err != nil {
		return nil, err
	}

	return s.afterLineWrite(stock, lineID, header, "line_updated", actor)
}

func (s *stockService) afterLineWrite(stock repository.StockRepository, lineID uuid.UUID, header *model.StockTransaction, action string, actor Actor) (*model.StockLine, error) {
	line, err := stock.FindLine(lineID)
	if err != nil {
		return nil, err
	}
	updated, err := stock.FindByID(header.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("stock line written",
		zap.String("action", action),
		zap.String("transaction_id", updated.TransactionID),
		zap.String("line_id", line.ID.String()),
		zap.String("quantity", line.Quantity.String()),
		zap.String("total_amount", updated.TotalAmount.StringFixed(2)))

	s.wsHub.Publish(ws.EventTransactionUpdated, eventData{
		"action":      action,
		"transaction": newTransactionDetail(updated),
		"line":        line,
		"user":        actor.Name,
	})
	return line, nil
}

// UpdateTransaction changes the descriptive header fields. Lines, type,
// status and total are not touched.
func (s *stockService) UpdateTransaction(ctx context.Context, id uuid.UUID, req *HeaderRequest, actor Actor) (*TransactionDetail, error) {
	db := s.db.WithContext(ctx)

	if err := validator.Validate(req); err != nil {
		s.reject("update transaction", err)
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		_, sTx := s.repos(tx)
		header, err := sTx.LockHeader(id)
		if err != nil {
			return notFound(err, ErrTransactionNotFound)
		}
		if err := editable(header); err != nil {
			return err
		}
		if err := req.apply(header); err != nil {
			return err
		}
		header.UpdatedBy = actor.AuditName()
		return sTx.UpdateHeader(header)
	})
	if err != nil {
		s.reject("update transaction", err)
		return nil, err
	}

	_, stock := s.repos(db)
	header, err := stock.FindByID(id)
	if err != nil {
		return nil, err
	}

	s.log.Info("stock transaction updated",
		zap.String("transaction_id", header.TransactionID),
		zap.String("actor", actor.AuditName()))

	detail := newTransactionDetail(header)
	s.wsHub.Publish(ws.EventTransactionUpdated, eventData{
		"action":      "header_updated",
		"transaction": detail,
		"user":        actor.Name,
	})
	return &detail, nil
}

// DeleteLine removes one line and recomputes its header total in the same
// transaction. Removing inbound quantity may not leave stock negative.
func (s *stockService) DeleteLine(ctx context.Context, lineID uuid.UUID, actor Actor) error {
	db := s.db.WithContext(ctx)

	var (
		headerID uuid.UUID
		removed  *model.StockLine
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		pTx, sTx := s.repos(tx)

		line, err := sTx.FindLine(lineID)
		if err != nil {
			return notFound(err, ErrLineNotFound)
		}
		header, err := sTx.LockHeader(line.StockTransactionID)
		if err != nil {
			return notFound(err, ErrTransactionNotFound)
		}
		if err := editable(header); err != nil {
			return err
		}

		if header.Type.Inbound() {
			if _, err := pTx.LockByIDs([]uuid.UUID{line.ProductID}); err != nil {
				return err
			}
			current, err := pTx.CurrentStock(line.ProductID)
			if err != nil {
				return err
			}
			if err := ledger.CheckRemoval(header.Type, productCode(line.Product, line.ProductID), current, line.Quantity); err != nil {
				return err
			}
		}

		if err := sTx.DeleteLine(line.ID); err != nil {
			return err
		}
		if _, err := model.RecalculateTotal(tx, header); err != nil {
			return err
		}
		headerID, removed = header.ID, line
		return nil
	})
	if err != nil {
		s.reject("delete line", err)
		return err
	}

	_, stock := s.repos(db)
	updated, err := stock.FindByID(headerID)
	if err != nil {
		return err
	}

	s.log.Info("stock line written",
		zap.String("action", "line_deleted"),
		zap.String("transaction_id", updated.TransactionID),
		zap.String("line_id", removed.ID.String()),
		zap.String("quantity", removed.Quantity.String()),
		zap.String("total_amount", updated.TotalAmount.StringFixed(2)))

	s.wsHub.Publish(ws.EventTransactionUpdated, eventData{
		"action":      "line_deleted",
		"transaction": newTransactionDetail(updated),
		"line":        removed,
		"user":        actor.Name,
	})
	return nil
}

func (s *stockService) CompleteTransaction(ctx context.Context, id uuid.UUID, actor Actor) (*TransactionDetail, error) {
	return s.transition(ctx, id, actor, ledger.Complete)
}

func (s *stockService) CancelTransaction(ctx context.Context, id uuid.UUID, actor Actor) (*TransactionDetail, error) {
	return s.transition(ctx, id, actor, ledger.Cancel)
}

// transition applies a status change. Totals and stock are untouched.
func (s *stockService) transition(ctx context.Context, id uuid.UUID, actor Actor, next func(ledger.Status) (ledger.Status, error)) (*TransactionDetail, error) {
	db := s.db.WithContext(ctx)

	var status ledger.Status
	err := db.Transaction(func(tx *gorm.DB) error {
		_, sTx := s.repos(tx)
		header, err := sTx.LockHeader(id)
		if err != nil {
			return notFound(err, ErrTransactionNotFound)
		}
		status, err = next(header.Status)
		if err != nil {
			return err
		}
		return sTx.UpdateStatus(id, status, actor.AuditName())
	})
	if err != nil {
		s.reject("status change", err)
		return nil, err
	}

	_, stock := s.repos(db)
	header, err := stock.FindByID(id)
	if err != nil {
		return nil, err
	}

	metrics.StatusChanges.WithLabelValues(string(status)).Inc()
	s.log.Info("stock transaction status changed",
		zap.String("transaction_id", header.TransactionID),
		zap.String("status", string(status)),
		zap.String("actor", actor.AuditName()))

	detail := newTransactionDetail(header)
	s.wsHub.Publish(ws.EventStatusChanged, eventData{
		"transaction": detail,
		"user":        actor.Name,
	})
	return &detail, nil
}

// DeleteTransaction removes a header and its lines. Completed transactions
// are kept, and removing inbound quantity may not leave stock negative.
func (s *stockService) DeleteTransaction(ctx context.Context, id uuid.UUID, actor Actor) error {
	db := s.db.WithContext(ctx)

	var transactionID string
	err := db.Transaction(func(tx *gorm.DB) error {
		pTx, sTx := s.repos(tx)

		// 1. Lock the header and refuse completed ones
		header, err := sTx.LockHeader(id)
		if err != nil {
			return notFound(err, ErrTransactionNotFound)
		}
		if header.Status == ledger.StatusCompleted {
			return &ledger.StateTransitionError{
				From:   header.Status,
				Action: "delete",
				Reason: "Cannot delete completed transaction",
			}
		}
		transactionID = header.TransactionID

		// 2. Quantity leaving each product
		lines, err := sTx.FindLines(repository.LineFilter{HeaderID: &id})
		if err != nil {
			return err
		}
		removed := make(map[uuid.UUID]decimal.Decimal)
		codes := make(map[uuid.UUID]string)
		var ids []uuid.UUID
		for _, l := range lines {
			if _, seen := removed[l.ProductID]; !seen {
				ids = append(ids, l.ProductID)
			}
			removed[l.ProductID] = removed[l.ProductID].Add(l.Quantity)
			codes[l.ProductID] = productCode(l.Product, l.ProductID)
		}

		// 3. Inbound removals must be covered by current stock
		if header.Type.Inbound() {
			if _, err := pTx.LockByIDs(ids); err != nil {
				return err
			}
			for _, pid := range ids {
				current, err := pTx.CurrentStock(pid)
				if err != nil {
					return err
				}
				if err := ledger.CheckRemoval(header.Type, codes[pid], current, removed[pid]); err != nil {
					return err
				}
			}
		}

		// 4. Lines, then header
		return sTx.DeleteHeader(id)
	})
	if err != nil {
		s.reject("delete transaction", err)
		return err
	}

	s.log.Info("stock transaction deleted",
		zap.String("transaction_id", transactionID),
		zap.String("actor", actor.AuditName()))
	s.wsHub.Publish(ws.EventTransactionDeleted, eventData{
		"id":             id,
		"transaction_id": transactionID,
		"user":           actor.Name,
	})
	return nil
}

func (s *stockService) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionDetail, error) {
	_, stock := s.repos(s.db.WithContext(ctx))
	header, err := stock.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}
	detail := newTransactionDetail(header)
	return &detail, nil
}

func (s *stockService) GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]TransactionDetail, error) {
	_, stock := s.repos(s.db.WithContext(ctx))
	headers, err := stock.FindAll(filter)
	if err != nil {
		return nil, err
	}
	details := make([]TransactionDetail, 0, len(headers))
	for i := range headers {
		details = append(details, newTransactionDetail(&headers[i]))
	}
	return details, nil
}

func (s *stockService) GetLine(ctx context.Context, id uuid.UUID) (*model.StockLine, error) {
	_, stock := s.repos(s.db.WithContext(ctx))
	line, err := stock.FindLine(id)
	if err != nil {
		return nil, notFound(err, ErrLineNotFound)
	}
	return line, nil
}

func (s *stockService) GetLines(ctx context.Context, filter repository.LineFilter) ([]model.StockLine, error) {
	_, stock := s.repos(s.db.WithContext(ctx))
	return stock.FindLines(filter)
}

func (s *stockService) TransactionSummary(ctx context.Context, from, to time.Time) (*TransactionSummary, error) {
	reports := s.reportRepo.WithTx(s.db.WithContext(ctx))
	headers, err := reports.TransactionTotals(repository.TransactionFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	summary := &TransactionSummary{
		From:        from,
		To:          to,
		TotalAmount: decimal.Zero,
		ByType:      make(map[ledger.TransactionType]TypeSummary),
		ByStatus:    make(map[ledger.Status]int),
	}
	for _, h := range headers {
		summary.TotalTransactions++
		summary.TotalAmount = summary.TotalAmount.Add(h.TotalAmount)
		t := summary.ByType[h.Type]
		t.Count++
		t.Amount = t.Amount.Add(h.TotalAmount)
		summary.ByType[h.Type] = t
		summary.ByStatus[h.Status]++
	}
	return summary, nil
}

// resolveLines maps each requested line to its product. Unknown or inactive
// products, past expiry dates and repeated products are reported together.
func (s *stockService) resolveLines(products repository.ProductRepository, lines []LineRequest, scoped bool) ([]*model.Product, error) {
	fieldErrs := &ledger.ValidationError{Kind: ledger.KindField}
	resolved := make([]*model.Product, len(lines))
	today := s.now()

	for i, line := range lines {
		prefix := ""
		if scoped {
			prefix = fmt.Sprintf("stock_details[%d].", i)
		}

		var (
			product *model.Product
			err     error
		)
		switch {
		case line.ProductID != uuid.Nil:
			product, err = products.FindByID(line.ProductID)
		case line.ProductCode != "":
			product, err = products.FindByCode(line.ProductCode)
		default:
			fieldErrs.Add(prefix+"product", "This field is required.")
			continue
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldErrs.Add(prefix+"product", "Product does not exist.")
			continue
		}
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			fieldErrs.Add(prefix+"product", "Product is inactive.")
			continue
		}
		if exp := line.expiry(); exp != nil && model.ExpiredOn(*exp, today) {
			fieldErrs.Add(prefix+"expiry_date", "Expiry date cannot be in the past.")
		}
		resolved[i] = product
	}
	if err := fieldErrs.OrNil(); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]int, len(resolved))
	for i, p := range resolved {
		if first, dup := seen[p.ID]; dup {
			return nil, ledger.NewCrossFieldError(
				fmt.Sprintf("stock_details[%d].product", i),
				fmt.Sprintf("Duplicate product %s (also on line %d).", p.Code, first+1),
			)
		}
		seen[p.ID] = i
	}
	return resolved, nil
}

// checkLine runs the availability rule for one line against the stock the
// repository sees. previous is the persisted line when editing.
func checkLine(products repository.ProductRepository, t ledger.TransactionType, product *model.Product, qty decimal.Decimal, previous *model.StockLine) error {
	current, err := products.CurrentStock(product.ID)
	if err != nil {
		return err
	}

	check := ledger.AvailabilityCheck{
		Type:        t,
		ProductCode: product.Code,
		Current:     current,
		Requested:   qty,
	}
	if previous != nil && previous.ProductID == product.ID {
		check.Previous = &previous.Quantity
	}
	if err := ledger.CheckAvailability(check); err != nil {
		return err
	}

	// Moving a line to another product takes its quantity off the old one.
	if previous != nil && previous.ProductID != product.ID {
		oldStock, err := products.CurrentStock(previous.ProductID)
		if err != nil {
			return err
		}
		return ledger.CheckRemoval(t, productCode(previous.Product, previous.ProductID), oldStock, previous.Quantity)
	}
	return nil
}

// lockEditable takes the header row lock and re-checks editability on the
// locked row, so a status change committed after the first read wins.
func lockEditable(stock repository.StockRepository, id uuid.UUID) error {
	header, err := stock.LockHeader(id)
	if err != nil {
		return notFound(err, ErrTransactionNotFound)
	}
	return editable(header)
}

func editable(header *model.StockTransaction) error {
	if header.Status == ledger.StatusCompleted {
		return &ledger.StateTransitionError{
			From:   header.Status,
			Action: "edit",
			Reason: "Cannot modify completed transaction",
		}
	}
	return nil
}

func duplicateLine(lines []model.StockLine, productID uuid.UUID, lot string, self uuid.UUID) error {
	for _, l := range lines {
		if l.ID != self && l.ProductID == productID && l.LotBatchNumber == lot {
			return ledger.NewCrossFieldError("lot_batch_number", ErrDuplicateLine.Error())
		}
	}
	return nil
}

// productCode names a product in errors, falling back to its id when the
// product was not loaded.
func productCode(p *model.Product, id uuid.UUID) string {
	if p != nil && p.Code != "" {
		return p.Code
	}
	return id.String()
}

func productIDs(products []*model.Product) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(products))
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		if p == nil || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		ids = append(ids, p.ID)
	}
	return ids
}

// prefixFields scopes the field names of a line validation error to the
// line's position in the request.
func prefixFields(err error, prefix string) error {
	var verr *ledger.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	scoped := &ledger.ValidationError{Kind: verr.Kind}
	for _, f := range verr.Fields {
		scoped.Add(prefix+"."+f.Field, f.Message)
	}
	return scoped
}

func (s *stockService) reject(op string, err error) {
	recordRejection(err)

	var stock *ledger.InsufficientStockError
	if errors.As(err, &stock) {
		s.log.Warn("insufficient stock",
			zap.String("op", op),
			zap.String("product_code", stock.Product),
			zap.String("available", stock.Available.String()),
			zap.String("requested", stock.Requested.String()))
		return
	}
	s.log.Debug("write rejected", zap.String("op", op), zap.Error(err))
}

package services

import (
	"context"
	"fmt"

	"qrcatalog/internal/artifacts"
	"qrcatalog/internal/domain"
	applog "qrcatalog/internal/log"
	"qrcatalog/internal/repos"
)

// CreationState is one step of a product creation attempt. Every attempt starts
// at StateStart and stops at exactly one terminal state.
type CreationState int

const (
	StateStart CreationState = iota
	StateConnected
	StateIDReserved
	StateInTransaction
	StateInserted
	StateArtifactWritten

	// terminal
	StateCommitted
	StateConnectionFailed
	StateReserveFailed
	StateTransactionStartFailed
	StateInsertFailed
	StateArtifactFailed
	StateCommitFailed
)

var stateNames = map[CreationState]string{
	StateStart:                  "start",
	StateConnected:              "connected",
	StateIDReserved:             "id_reserved",
	StateInTransaction:          "in_transaction",
	StateInserted:               "inserted",
	StateArtifactWritten:        "artifact_written",
	StateCommitted:              "committed",
	StateConnectionFailed:       "connection_failed",
	StateReserveFailed:          "reserve_failed",
	StateTransactionStartFailed: "transaction_start_failed",
	StateInsertFailed:           "insert_failed",
	StateArtifactFailed:         "artifact_failed",
	StateCommitFailed:           "commit_failed",
}

func (s CreationState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s CreationState) Terminal() bool { return s >= StateCommitted }

type Reason string

const (
	ReasonStoreUnavailable       Reason = "store-unavailable"
	ReasonTransactionStartFailed Reason = "transaction-start-failed"
	ReasonInsertFailed           Reason = "insert-failed"
	ReasonArtifactWriteFailed    Reason = "artifact-write-failed"
	ReasonCommitFailed           Reason = "commit-failed"
)

// CreationError is the only error ProductCreator.Create returns.
// ProductID is set once an id has been reserved for the attempt.
type CreationError struct {
	State     CreationState
	Reason    Reason
	ProductID int64
	Err       error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create product: %s: %v", e.Reason, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// ArtifactStore is the part of artifacts.FileStore the coordinator drives.
type ArtifactStore interface {
	Write(ctx context.Context, productID int64, data []byte) error
	Delete(productID int64) error
}

// ProductCreator inserts a product and writes its QR artifact as one unit:
// the artifact exists iff the product row is committed.
type ProductCreator struct {
	Pool      repos.ConnPool
	Artifacts ArtifactStore
	// Encode turns the QR target URL into image bytes.
	Encode  func(url string) ([]byte, error)
	BaseURL string
}

func NewProductCreator(pool repos.ConnPool, store ArtifactStore, baseURL string, qrSize int) *ProductCreator {
	return &ProductCreator{
		Pool:      pool,
		Artifacts: store,
		BaseURL:   baseURL,
		Encode: func(url string) ([]byte, error) {
			return artifacts.EncodeQRPayload(url, qrSize)
		},
	}
}

// Create runs one creation attempt to a terminal state and returns the new
// product id. Failures are always *CreationError.
func (p *ProductCreator) Create(ctx context.Context, fields domain.ProductFields) (int64, error) {
	a := &attempt{p: p, fields: fields, state: StateStart}
	defer a.release()

	for !a.state.Terminal() {
		a.step(ctx)
	}
	if a.failure != nil {
		return 0, a.failure
	}
	return a.productID, nil
}

type attempt struct {
	p         *ProductCreator
	fields    domain.ProductFields
	state     CreationState
	conn      repos.Conn
	productID int64
	failure   *CreationError
}

func (a *attempt) step(ctx context.Context) {
	switch a.state {
	case StateStart:
		conn, err := a.p.Pool.Acquire(ctx)
		if err != nil {
			a.fail(StateConnectionFailed, ReasonStoreUnavailable, err)
			return
		}
		a.conn = conn
		a.state = StateConnected

	case StateConnected:
		// Drawn outside the transaction so a rolled-back attempt never frees its id.
		id, err := a.conn.ReserveID(ctx, repos.ProductSequence)
		if err != nil {
			a.fail(StateReserveFailed, ReasonInsertFailed, err)
			return
		}
		a.productID = id
		a.state = StateIDReserved

	case StateIDReserved:
		// The transaction outlives request cancellation; only the insert and the
		// artifact write observe ctx, and both roll back on failure.
		if err := a.conn.Begin(context.WithoutCancel(ctx)); err != nil {
			a.fail(StateTransactionStartFailed, ReasonTransactionStartFailed, err)
			return
		}
		a.state = StateInTransaction

	case StateInTransaction:
		id, err := a.conn.InsertReturningID(ctx, repos.InsertProductSQL, repos.InsertProductArgs(a.productID, a.fields)...)
		if err != nil {
			a.rollback()
			a.fail(StateInsertFailed, ReasonInsertFailed, err)
			return
		}
		if id != a.productID {
			a.rollback()
			a.fail(StateInsertFailed, ReasonInsertFailed, fmt.Errorf("store assigned id %d, reserved %d", id, a.productID))
			return
		}
		a.state = StateInserted

	case StateInserted:
		if err := a.writeArtifact(ctx); err != nil {
			a.rollback()
			a.fail(StateArtifactFailed, ReasonArtifactWriteFailed, err)
			return
		}
		a.state = StateArtifactWritten

	case StateArtifactWritten:
		if err := a.conn.Commit(); err != nil {
			// The row is gone; its artifact must go too.
			if derr := a.p.Artifacts.Delete(a.productID); derr != nil {
				applog.Error(nil, "product.create.artifact_cleanup.fail", derr, a.logFields())
			}
			a.rollback()
			a.fail(StateCommitFailed, ReasonCommitFailed, err)
			return
		}
		a.state = StateCommitted

	default:
		panic("services: step from state " + a.state.String())
	}
}

func (a *attempt) writeArtifact(ctx context.Context) error {
	data, err := a.p.Encode(artifacts.TargetURL(a.p.BaseURL, a.productID))
	if err != nil {
		return fmt.Errorf("encoding qr payload: %w", err)
	}
	return a.p.Artifacts.Write(ctx, a.productID, data)
}

func (a *attempt) fail(state CreationState, reason Reason, err error) {
	a.state = state
	a.failure = &CreationError{State: state, Reason: reason, ProductID: a.productID, Err: err}
}

// rollback is best-effort; the first failure stays the reported one.
func (a *attempt) rollback() {
	if err := a.conn.Rollback(); err != nil {
		applog.Error(nil, "product.create.rollback.fail", err, a.logFields())
	}
}

func (a *attempt) release() {
	if a.conn == nil {
		return
	}
	if err := a.conn.Release(); err != nil {
		applog.Error(nil, "product.create.release.fail", err, a.logFields())
	}
	a.conn = nil
}

func (a *attempt) logFields() map[string]any {
	f := map[string]any{"state": a.state.String()}
	if a.productID != 0 {
		f["product_id"] = a.productID
	}
	return f
}

package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPayload = errors.New("integration: invalid export payload")
	ErrExportFailed   = errors.New("integration: remote export failed")
)

// ConnectorPriceExport is the connector tag jobs produced by reverse price sync carry
const ConnectorPriceExport = "price_export"

// ExportAction tells the remote writer whether to create or update a record
type ExportAction string

const (
	ExportActionCreate ExportAction = "CREATE"
	ExportActionUpdate ExportAction = "UPDATE"
)

// String returns the string representation of ExportAction
func (a ExportAction) String() string {
	return string(a)
}

// EntityKind labels which price variant a payload came from
type EntityKind string

const (
	EntityKindProductPrice EntityKind = "ProductPrice"
	EntityKindChannelPrice EntityKind = "ChannelPrice"
)

// PriceExportPayload is the job body handed to a scheduler.
// It is a conceptual contract; the remote wire format is the transport's business.
type PriceExportPayload struct {
	EntityKind EntityKind      `json:"entity_kind" validate:"required,oneof=ProductPrice ChannelPrice"`
	Action     ExportAction    `json:"action" validate:"required,oneof=CREATE UPDATE"`
	SKUFilter  string          `json:"sku_filter" validate:"required"`
	Value      decimal.Decimal `json:"value"`
	Currency   string          `json:"currency" validate:"required,len=3"`
	// ProductID lets the export writer record the remote id after a create
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

var payloadValidator = validator.New()

// Validate checks the payload before it leaves the process
func (p PriceExportPayload) Validate() error {
	if err := payloadValidator.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// ExportJob is a payload bound to its destination channel
type ExportJob struct {
	ID        uuid.UUID          `json:"id"`
	ChannelID uuid.UUID          `json:"channel_id"`
	Connector string             `json:"connector"`
	Payload   PriceExportPayload `json:"payload"`
}

// NewExportJob creates an export job with a fresh id
func NewExportJob(channelID uuid.UUID, connector string, payload PriceExportPayload) ExportJob {
	return ExportJob{
		ID:        uuid.New(),
		ChannelID: channelID,
		Connector: connector,
		Payload:   payload,
	}
}

// JobScheduler submits export jobs to the backend that executes them.
// Submission is fire-and-forget: a nil error only acknowledges acceptance.
type JobScheduler interface {
	Schedule(ctx context.Context, channelID uuid.UUID, connector string, payload PriceExportPayload) error
}

// ExportResult is what the remote system answered to an export
type ExportResult struct {
	// ExternalID is the remote record id, set on create
	ExternalID string
}

// PriceExporter performs the remote create/update call for a job
type PriceExporter interface {
	Export(ctx context.Context, job ExportJob) (ExportResult, error)
}

// ExportJobHandler executes a dispatched job. Scheduler backends hand jobs to it.
type ExportJobHandler interface {
	Handle(ctx context.Context, job ExportJob) error
}

// ExportJobHandlerFunc adapts a function to ExportJobHandler
type ExportJobHandlerFunc func(ctx context.Context, job ExportJob) error

// Handle implements ExportJobHandler
func (f ExportJobHandlerFunc) Handle(ctx context.Context, job ExportJob) error {
	return f(ctx, job)
}

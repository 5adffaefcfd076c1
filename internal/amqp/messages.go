package amqp

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"ledger/internal/core"
)

// Dataset names carried in RecordMessage.Dataset.
const (
	DatasetReceipts     = "receipts"
	DatasetExpenditures = "expenditures"
)

// ReceiptPayload is the wire form of a receipt.
type ReceiptPayload struct {
	Date          string `json:"date"`
	SanctionOrder string `json:"sanction_order"`
	Category      string `json:"category"`
	AmountCents   int64  `json:"amount_cents"`
	Attachment    string `json:"attachment,omitempty"`
}

// ExpenditurePayload is the wire form of an expenditure.
type ExpenditurePayload struct {
	Date         string `json:"date"`
	PaymentOrder string `json:"payment_order"`
	Category     string `json:"category"`
	SubCategory  string `json:"sub_category"`
	Department   string `json:"department"`
	AmountCents  int64  `json:"amount_cents"`
	Attachment   string `json:"attachment,omitempty"`
}

// RecordMessage asks a worker to store one register entry. Exactly one of
// Receipt and Expenditure is set, matching Dataset.
type RecordMessage struct {
	Dataset     string              `json:"dataset"`
	Receipt     *ReceiptPayload     `json:"receipt,omitempty"`
	Expenditure *ExpenditurePayload `json:"expenditure,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

var ErrMalformedMessage = errors.New("malformed record message")

//go:embed record.schema.json
var recordSchemaJSON []byte

var recordSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recordSchemaJSON))
})

// validateRecordJSON checks data against the record message schema.
func validateRecordJSON(data []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return fmt.Errorf("compile record schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.Field()+": "+desc.Description())
		}
		return fmt.Errorf("%w: %s", ErrMalformedMessage, strings.Join(problems, "; "))
	}
	return nil
}

// NewReceiptMessage wraps a receipt for publishing.
func NewReceiptMessage(r core.Receipt) *RecordMessage {
	return &RecordMessage{
		Dataset: DatasetReceipts,
		Receipt: &ReceiptPayload{
			Date:          r.Date.String(),
			SanctionOrder: r.SanctionOrder,
			Category:      r.Category,
			AmountCents:   r.Amount.Cents,
			Attachment:    r.Attachment,
		},
		Timestamp: time.Now(),
	}
}

// NewExpenditureMessage wraps an expenditure for publishing.
func NewExpenditureMessage(e core.Expenditure) *RecordMessage {
	return &RecordMessage{
		Dataset: DatasetExpenditures,
		Expenditure: &ExpenditurePayload{
			Date:         e.Date.String(),
			PaymentOrder: e.PaymentOrder,
			Category:     e.Category,
			SubCategory:  e.SubCategory,
			Department:   e.Department,
			AmountCents:  e.Amount.Cents,
			Attachment:   e.Attachment,
		},
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordMessageFromJSON validates data against the record schema, decodes it
// and checks that the payload matches the dataset.
func RecordMessageFromJSON(data []byte) (*RecordMessage, error) {
	if err := validateRecordJSON(data); err != nil {
		return nil, err
	}
	var msg RecordMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	switch {
	case msg.Dataset == DatasetReceipts && msg.Receipt != nil && msg.Expenditure == nil:
	case msg.Dataset == DatasetExpenditures && msg.Expenditure != nil && msg.Receipt == nil:
	default:
		return nil, fmt.Errorf("%w: dataset %q does not match payload", ErrMalformedMessage, msg.Dataset)
	}
	return &msg, nil
}

// ReceiptRecord converts the payload back into a receipt.
func (m *RecordMessage) ReceiptRecord() (core.Receipt, error) {
	if m.Receipt == nil {
		return core.Receipt{}, fmt.Errorf("%w: no receipt payload", ErrMalformedMessage)
	}
	date, err := core.ParseDate(m.Receipt.Date)
	if err != nil {
		return core.Receipt{}, fmt.Errorf("%w: date %q", ErrMalformedMessage, m.Receipt.Date)
	}
	return core.Receipt{
		Date:          date,
		SanctionOrder: m.Receipt.SanctionOrder,
		Category:      m.Receipt.Category,
		Amount:        core.Money{Cents: m.Receipt.AmountCents},
		Attachment:    m.Receipt.Attachment,
	}, nil
}

// ExpenditureRecord converts the payload back into an expenditure.
func (m *RecordMessage) ExpenditureRecord() (core.Expenditure, error) {
	if m.Expenditure == nil {
		return core.Expenditure{}, fmt.Errorf("%w: no expenditure payload", ErrMalformedMessage)
	}
	date, err := core.ParseDate(m.Expenditure.Date)
	if err != nil {
		return core.Expenditure{}, fmt.Errorf("%w: date %q", ErrMalformedMessage, m.Expenditure.Date)
	}
	return core.Expenditure{
		Date:         date,
		PaymentOrder: m.Expenditure.PaymentOrder,
		Category:     m.Expenditure.Category,
		SubCategory:  m.Expenditure.SubCategory,
		Department:   m.Expenditure.Department,
		Amount:       core.Money{Cents: m.Expenditure.AmountCents},
		Attachment:   m.Expenditure.Attachment,
	}, nil
}

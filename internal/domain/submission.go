package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Kind identifies which form a submission came from. It selects the schema,
// the collection and the notification template.
type Kind string

const (
	KindContact  Kind = "contact"
	KindBookCall Kind = "book-call"
	KindOrder    Kind = "order"
)

// Kinds lists every submission kind in a stable order.
var Kinds = []Kind{KindContact, KindBookCall, KindOrder}

// ParseKind converts a path segment into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown submission kind %q", s)
}

// Collection is the MongoDB collection holding records of this kind.
func (k Kind) Collection() string {
	switch k {
	case KindContact:
		return "contacts"
	case KindBookCall:
		return "bookcalls"
	case KindOrder:
		return "orders"
	}
	return ""
}

// Record is implemented by every persisted submission.
type Record interface {
	SubmissionKind() Kind
	RecordID() string
	SubmittedAt() time.Time
	// ExportRow returns the record's values in the order of ExportColumns(kind).
	ExportRow() []any
}

// ContactRecord is a persisted contact form submission.
type ContactRecord struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Company   string    `json:"company,omitempty" bson:"company,omitempty"`
	Message   string    `json:"message" bson:"message"`
	Source    string    `json:"source" bson:"source"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// BookCallRecord is a persisted call booking request.
type BookCallRecord struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Email         string    `json:"email" bson:"email"`
	Company       string    `json:"company,omitempty" bson:"company,omitempty"`
	PreferredDate string    `json:"preferredDate,omitempty" bson:"preferredDate,omitempty"`
	PreferredTime string    `json:"preferredTime,omitempty" bson:"preferredTime,omitempty"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Source        string    `json:"source" bson:"source"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// OrderRecord is a persisted lead-list order.
type OrderRecord struct {
	ID           string    `json:"id" bson:"_id"`
	Industry     string    `json:"industry" bson:"industry"`
	Geography    []string  `json:"geography" bson:"geography"`
	CompanySizes []string  `json:"companySizes" bson:"companySizes"`
	Roles        []string  `json:"roles" bson:"roles"`
	TechFilters  []string  `json:"techFilters" bson:"techFilters"`
	Volume       int       `json:"volume" bson:"volume"`
	Deadline     string    `json:"deadline,omitempty" bson:"deadline,omitempty"`
	ContactName  string    `json:"contactName" bson:"contactName"`
	ContactEmail string    `json:"contactEmail" bson:"contactEmail"`
	Company      string    `json:"company,omitempty" bson:"company,omitempty"`
	Consent      bool      `json:"consent" bson:"consent"`
	Source       string    `json:"source" bson:"source"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

func (r *ContactRecord) SubmissionKind() Kind    { return KindContact }
func (r *ContactRecord) RecordID() string        { return r.ID }
func (r *ContactRecord) SubmittedAt() time.Time  { return r.CreatedAt }
func (r *BookCallRecord) SubmissionKind() Kind   { return KindBookCall }
func (r *BookCallRecord) RecordID() string       { return r.ID }
func (r *BookCallRecord) SubmittedAt() time.Time { return r.CreatedAt }
func (r *OrderRecord) SubmissionKind() Kind      { return KindOrder }
func (r *OrderRecord) RecordID() string          { return r.ID }
func (r *OrderRecord) SubmittedAt() time.Time    { return r.CreatedAt }

// ExportColumns returns spreadsheet headers for a kind.
func ExportColumns(k Kind) []string {
	switch k {
	case KindContact:
		return []string{"ID", "CREATED AT", "NAME", "EMAIL", "COMPANY", "MESSAGE"}
	case KindBookCall:
		return []string{"ID", "CREATED AT", "NAME", "EMAIL", "COMPANY", "PREFERRED DATE", "PREFERRED TIME", "NOTES"}
	case KindOrder:
		return []string{"ID", "CREATED AT", "CONTACT NAME", "CONTACT EMAIL", "COMPANY", "INDUSTRY",
			"GEOGRAPHY", "COMPANY SIZES", "ROLES", "TECH FILTERS", "VOLUME", "DEADLINE", "CONSENT"}
	}
	return nil
}

func (r *ContactRecord) ExportRow() []any {
	return []any{r.ID, r.CreatedAt, r.Name, r.Email, r.Company, r.Message}
}

func (r *BookCallRecord) ExportRow() []any {
	return []any{r.ID, r.CreatedAt, r.Name, r.Email, r.Company, r.PreferredDate, r.PreferredTime, r.Notes}
}

func (r *OrderRecord) ExportRow() []any {
	return []any{r.ID, r.CreatedAt, r.ContactName, r.ContactEmail, r.Company, r.Industry,
		strings.Join(r.Geography, ", "), strings.Join(r.CompanySizes, ", "), strings.Join(r.Roles, ", "), strings.Join(r.TechFilters, ", "),
		r.Volume, r.Deadline, r.Consent}
}

// Page is one slice of a listing, newest first.
type Page struct {
	Records []Record `json:"records"`
	Total   int64    `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// SubmissionRepository appends submissions and reads them back. There is no
// update or delete path: records are immutable once created.
type SubmissionRepository interface {
	CreateContact(ctx context.Context, rec *ContactRecord) error
	CreateBookCall(ctx context.Context, rec *BookCallRecord) error
	CreateOrder(ctx context.Context, rec *OrderRecord) error
	// Get returns ErrNotFound when no record of kind has the id.
	Get(ctx context.Context, kind Kind, id string) (Record, error)
	List(ctx context.Context, kind Kind, limit, offset int) ([]Record, int64, error)
	Ping(ctx context.Context) error
}

// Notifier delivers an internal summary of an accepted submission.
// Implementations return ErrNotificationDisabled when delivery is not configured.
type Notifier interface {
	NotifyContact(ctx context.Context, rec ContactRecord) error
	NotifyBookCall(ctx context.Context, rec BookCallRecord) error
	NotifyOrder(ctx context.Context, rec OrderRecord) error
}

// IntakeUsecase runs the validate -> honeypot -> persist -> notify pipeline
// for raw JSON bodies.
type IntakeUsecase interface {
	SubmitContact(ctx context.Context, body []byte) (*ContactRecord, error)
	SubmitBookCall(ctx context.Context, body []byte) (*BookCallRecord, error)
	SubmitOrder(ctx context.Context, body []byte) (*OrderRecord, error)
	// Drain blocks until in-flight notifications finish or ctx is done.
	Drain(ctx context.Context) error
}

// AdminUsecase is the read-only operator surface over stored submissions.
type AdminUsecase interface {
	List(ctx context.Context, kind Kind, limit, offset int) (*Page, error)
	Get(ctx context.Context, kind Kind, id string) (Record, error)
	Export(ctx context.Context, kind Kind) ([]byte, error)
}

package domain

// Inbound payloads. Pointer fields distinguish "missing" from "empty" so the
// validator can report Required separately from length rules. Website is the
// honeypot: it is accepted in transit and never copied into a record.

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    *string `json:"name" validate:"required,min=2"`
	Email   *string `json:"email" validate:"required,email,tld_email"`
	Company *string `json:"company"`
	Message *string `json:"message" validate:"required,min=10"`
	Website *string `json:"website"`
}

// BookCallRequest represents a request to schedule a discovery call
type BookCallRequest struct {
	Name          *string `json:"name" validate:"required,min=2"`
	Email         *string `json:"email" validate:"required,email,tld_email"`
	Company       *string `json:"company"`
	PreferredDate *string `json:"preferredDate"`
	PreferredTime *string `json:"preferredTime"`
	Notes         *string `json:"notes"`
	Website       *string `json:"website"`
}

// OrderRequest represents a lead-list order from the order wizard
type OrderRequest struct {
	Industry     *string  `json:"industry" validate:"required,min=1"`
	Geography    []string `json:"geography" validate:"required"`
	CompanySizes []string `json:"companySizes" validate:"required"`
	Roles        []string `json:"roles" validate:"required"`
	TechFilters  []string `json:"techFilters" validate:"required"`
	Volume       *int     `json:"volume" validate:"required,min=1"`
	Deadline     *string  `json:"deadline"`
	ContactName  *string  `json:"contactName" validate:"required,min=1"`
	ContactEmail *string  `json:"contactEmail" validate:"required,email,tld_email"`
	Company      *string  `json:"company"`
	Consent      *bool    `json:"consent" validate:"required,accepted"`
	Website      *string  `json:"website"`
}

// ToRecord copies a validated request into a record. ID and CreatedAt are
// stamped by the caller at write time.
func (r *ContactRequest) ToRecord() *ContactRecord {
	return &ContactRecord{
		Name:    deref(r.Name),
		Email:   deref(r.Email),
		Company: deref(r.Company),
		Message: deref(r.Message),
		Source:  string(KindContact),
	}
}

func (r *BookCallRequest) ToRecord() *BookCallRecord {
	return &BookCallRecord{
		Name:          deref(r.Name),
		Email:         deref(r.Email),
		Company:       deref(r.Company),
		PreferredDate: deref(r.PreferredDate),
		PreferredTime: deref(r.PreferredTime),
		Notes:         deref(r.Notes),
		Source:        string(KindBookCall),
	}
}

func (r *OrderRequest) ToRecord() *OrderRecord {
	rec := &OrderRecord{
		Industry:     deref(r.Industry),
		Geography:    nonNil(r.Geography),
		CompanySizes: nonNil(r.CompanySizes),
		Roles:        nonNil(r.Roles),
		TechFilters:  nonNil(r.TechFilters),
		Deadline:     deref(r.Deadline),
		ContactName:  deref(r.ContactName),
		ContactEmail: deref(r.ContactEmail),
		Company:      deref(r.Company),
		Source:       string(KindOrder),
	}
	if r.Volume != nil {
		rec.Volume = *r.Volume
	}
	if r.Consent != nil {
		rec.Consent = *r.Consent
	}
	return rec
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

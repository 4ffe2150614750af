// Package pass implements the visitor pass lifecycle: submission, the
// pending -> approved/rejected state machine, pass download and retention
// cleanup. Side effects (rendering, mail) are ordered strictly after the
// persisted status mutation and are never rolled back.
package pass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"visitor-pass/models/visitor"
	"visitor-pass/services/visitorstore"
	visitorTypes "visitor-pass/types/visitor"

	"github.com/jinzhu/now"
)

// DefaultRetentionDays is how long records are kept when no override is
// configured.
const DefaultRetentionDays = 45

// ErrNotApproved is returned when a pass document is requested for a record
// that is not in the approved state.
var ErrNotApproved = errors.New("pass not approved")

// Mailer is the notification collaborator. The SMTP implementation lives in
// services/mailer; tests substitute a fake.
type Mailer interface {
	SendApprovalRequest(v *visitor.Visitor, approveURL, rejectURL string) error
	SendPassIssued(v *visitor.Visitor, pdf []byte) error
	SendRejection(v *visitor.Visitor) error
}

// Renderer produces the pass document, either buffered or streamed.
type Renderer interface {
	Render(v *visitor.Visitor) ([]byte, error)
	RenderTo(v *visitor.Visitor, w io.Writer) error
}

// Config holds the externally-configured inputs of the workflow.
type Config struct {
	// BaseURL is prefixed to the approval/rejection links embedded in mail.
	BaseURL string
	// RetentionDays overrides DefaultRetentionDays when positive.
	RetentionDays int
}

// Service orchestrates the visitor pass lifecycle.
type Service struct {
	store    visitorstore.Store
	mailer   Mailer
	renderer Renderer
	cfg      Config
}

// New creates a pass lifecycle service
func New(store visitorstore.Store, mailer Mailer, renderer Renderer, cfg Config) *Service {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	return &Service{store: store, mailer: mailer, renderer: renderer, cfg: cfg}
}

// TransitionResult reports the outcome of an approve/reject call.
type TransitionResult struct {
	Visitor *visitor.Visitor
	// Changed is false when the record was already terminal and the call
	// was an idempotent no-op.
	Changed bool
}

// Submit persists a new pending request and mails the host the approval and
// rejection links. A mail failure surfaces as an error, but the record stays
// persisted.
func (s *Service) Submit(ctx context.Context, req visitorTypes.PassRequest) (*visitor.Visitor, error) {
	v := &visitor.Visitor{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		VisitDate:    req.VisitDate,
		VisitTime:    strPtr(req.VisitTime),
		EndTime:      strPtr(req.EndTime),
		Host:         req.Host,
		HostEmail:    req.HostEmail,
		Purpose:      req.Purpose,
		PhotoData:    strPtr(req.PhotoData),
		PersonType:   strPtr(req.PersonType),
		VisitArea:    strPtr(req.VisitArea),
		PPE:          strPtr(req.PPE),
		GovtIDType:   strPtr(req.GovtIDType),
		GovtIDNumber: strPtr(req.GovtIDNumber),
		LaptopNo:     strPtr(req.LaptopNo),
		VehicleNo:    strPtr(req.VehicleNo),
	}

	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}

	approveURL := fmt.Sprintf("%s/api/approve/%s", s.cfg.BaseURL, v.UID)
	rejectURL := fmt.Sprintf("%s/api/reject/%s", s.cfg.BaseURL, v.UID)
	if err := s.mailer.SendApprovalRequest(v, approveURL, rejectURL); err != nil {
		return nil, err
	}
	return v, nil
}

// Approve moves a pending record to approved, then renders the pass and
// mails it to visitor and host. Terminal records are left untouched and
// reported back unchanged. The conditional store update guarantees that of
// two concurrent calls only one runs the side-effect sequence.
func (s *Service) Approve(ctx context.Context, uid string) (*TransitionResult, error) {
	v, err := s.store.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if v.Status.IsTerminal() {
		return &TransitionResult{Visitor: v}, nil
	}

	ok, err := s.store.SetStatusIfPending(ctx, uid, visitor.StatusApproved)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race; report whichever terminal state won.
		v, err = s.store.GetByUID(ctx, uid)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{Visitor: v}, nil
	}
	v.Status = visitor.StatusApproved

	// Status is durable from here on. A render or mail failure leaves the
	// record approved with no delivered document; operators re-trigger via
	// the download endpoint.
	pdf, err := s.renderer.Render(v)
	if err != nil {
		return nil, err
	}
	if err := s.mailer.SendPassIssued(v, pdf); err != nil {
		return nil, err
	}
	return &TransitionResult{Visitor: v, Changed: true}, nil
}

// Reject moves a pending record to rejected and mails the visitor a notice.
// An approved record blocks rejection; an already-rejected one is a no-op.
func (s *Service) Reject(ctx context.Context, uid string) (*TransitionResult, error) {
	v, err := s.store.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if v.Status.IsTerminal() {
		return &TransitionResult{Visitor: v}, nil
	}

	ok, err := s.store.SetStatusIfPending(ctx, uid, visitor.StatusRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		v, err = s.store.GetByUID(ctx, uid)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{Visitor: v}, nil
	}
	v.Status = visitor.StatusRejected

	if err := s.mailer.SendRejection(v); err != nil {
		return nil, err
	}
	return &TransitionResult{Visitor: v, Changed: true}, nil
}

// DownloadPass streams the pass document for an approved record to w.
// Non-approved records are indistinguishable from missing ones. Repeatable,
// no side effects.
func (s *Service) DownloadPass(ctx context.Context, uid string, w io.Writer) (*visitor.Visitor, error) {
	v, err := s.store.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !v.Status.CanBeDownloaded() {
		return nil, ErrNotApproved
	}
	if err := s.renderer.RenderTo(v, w); err != nil {
		return nil, err
	}
	return v, nil
}

// ListAll returns every record, newest first.
func (s *Service) ListAll(ctx context.Context) ([]visitor.Visitor, error) {
	return s.store.ListAll(ctx)
}

// ListApproved returns approved records for the guard-facing view.
func (s *Service) ListApproved(ctx context.Context) ([]visitor.Visitor, error) {
	return s.store.ListByStatus(ctx, visitor.StatusApproved)
}

// Cleanup purges records older than the retention window and returns the
// number removed. The cutoff is aligned to the start of day so a whole
// calendar day expires at once.
func (s *Service) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = s.cfg.RetentionDays
	}
	cutoff := now.With(time.Now().AddDate(0, 0, -retentionDays)).BeginningOfDay()
	return s.store.DeleteOlderThan(ctx, cutoff)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Package submission moves the open report through create, update and delete
// against the CMVR service, and fetches its rendered documents.
package submission

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/export"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/normalize"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/payload"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/remote"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
)

type Kind string

const (
	// KindSequencing rejects an action the report's state does not allow.
	// Nothing was sent.
	KindSequencing Kind = "sequencing"
	KindRemote     Kind = "remote"
	KindBusy       Kind = "busy"
)

// Error carries a message fit for the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func sequencing(message string) *Error {
	return &Error{Kind: KindSequencing, Message: message}
}

// remoteFailure prefers the server's own message over fallback.
func remoteFailure(fallback string, err error) *Error {
	message := fallback
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		message = apiErr.Message
	}
	return &Error{Kind: KindRemote, Message: message, Err: err}
}

const (
	msgNoReport         = "Start or open a report first."
	msgAlreadySubmitted = "This report has already been submitted. Update it instead."
	msgNotSubmitted     = "Submit the report before updating or deleting it."
	msgDocsNeedSubmit   = "Submit the report before generating documents."
	msgBusy             = "Another submission action is still running."
)

// State is derived from the open report's metadata.
type State string

const (
	StateUnsubmitted State = "unsubmitted"
	StateSubmitted   State = "submitted"
)

// API is the part of the CMVR service the workflow talks to.
type API interface {
	Create(ctx context.Context, dto remote.CreateCMVRDto, fileName string) (remote.Record, error)
	Get(ctx context.Context, id string) (remote.Record, error)
	List(ctx context.Context) ([]remote.Record, error)
	ListByUser(ctx context.Context, userID string) ([]remote.Record, error)
	Update(ctx context.Context, id string, dto remote.CreateCMVRDto) (remote.Record, error)
	Delete(ctx context.Context, id string) error
	DocxURL(id string) string
	GeneralInfoPDF(ctx context.Context, id string) ([]byte, string, error)
}

// Drafts is the local draft namespace.
type Drafts interface {
	Key(fileName string) string
	DeleteDraft(ctx context.Context, key string) bool
}

// Outcome reports a successful create or update.
type Outcome struct {
	Record       remote.Record          `json:"record"`
	Diagnostics  []normalize.Diagnostic `json:"diagnostics"`
	DraftDeleted bool                   `json:"draftDeleted"`
}

// Document is a downloaded rendering, with where a copy was kept if an
// archive is configured.
type Document struct {
	export.Result
	ArchivedAt string
}

type Workflow struct {
	reports *report.Store
	drafts  Drafts
	api     API
	opener  export.Opener
	archive export.Archive

	busy atomic.Bool
}

// NewWorkflow wires the workflow. archive may be nil.
func NewWorkflow(reports *report.Store, drafts Drafts, api API, opener export.Opener, archive export.Archive) *Workflow {
	return &Workflow{reports: reports, drafts: drafts, api: api, opener: opener, archive: archive}
}

func (w *Workflow) State() (State, string, bool) {
	snapshot, ok := w.reports.Snapshot()
	if !ok {
		return StateUnsubmitted, "", false
	}
	if snapshot.Submitted() {
		return StateSubmitted, snapshot.SubmissionID, true
	}
	return StateUnsubmitted, "", true
}

func (w *Workflow) acquire() error {
	if !w.busy.CompareAndSwap(false, true) {
		return &Error{Kind: KindBusy, Message: msgBusy}
	}
	return nil
}

func (w *Workflow) release() {
	w.busy.Store(false)
}

// Submit creates the report remotely, records its id and removes the local
// draft it came from.
func (w *Workflow) Submit(ctx context.Context, userID string) (Outcome, error) {
	if err := w.acquire(); err != nil {
		return Outcome{}, err
	}
	defer w.release()

	snapshot, generation, ok := w.reports.Current()
	if !ok {
		return Outcome{}, sequencing(msgNoReport)
	}
	if snapshot.Submitted() {
		return Outcome{}, sequencing(msgAlreadySubmitted)
	}

	built, err := payload.Build(&snapshot, payload.Extra{UserID: userID, FileName: snapshot.FileName})
	if err != nil {
		return Outcome{}, sequencing(msgNoReport)
	}

	record, err := w.api.Create(ctx, built.Payload, snapshot.FileName)
	if err != nil {
		return Outcome{}, remoteFailure("Failed to submit report. Please try again.", err)
	}
	if strings.TrimSpace(record.ID) == "" {
		return Outcome{}, &Error{Kind: KindRemote, Message: "Failed to submit report. Please try again.",
			Err: errors.New("created record has no id")}
	}

	patch := report.MetadataPatch{SubmissionID: &record.ID}
	if record.ProjectID != "" {
		patch.ProjectID = &record.ProjectID
	}
	if record.ProjectName != "" {
		patch.ProjectName = &record.ProjectName
	}
	if err := w.reports.UpdateMetadataFor(generation, patch); err != nil {
		// the submitted report was closed while the request ran
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("component", "submission").
			Str("submission_id", record.ID).
			Msg("submission id not recorded on the open report")
	}

	deleted := w.drafts.DeleteDraft(ctx, w.drafts.Key(snapshot.FileName))
	zerolog.Ctx(ctx).Info().
		Str("component", "submission").
		Str("submission_id", record.ID).
		Bool("draft_deleted", deleted).
		Msg("report submitted")

	return Outcome{Record: record, Diagnostics: built.Diagnostics, DraftDeleted: deleted}, nil
}

// Update sends the current report over the submitted record and clears any
// draft saved since.
func (w *Workflow) Update(ctx context.Context, userID string) (Outcome, error) {
	if err := w.acquire(); err != nil {
		return Outcome{}, err
	}
	defer w.release()

	snapshot, ok := w.reports.Snapshot()
	if !ok {
		return Outcome{}, sequencing(msgNoReport)
	}
	if !snapshot.Submitted() {
		return Outcome{}, sequencing(msgNotSubmitted)
	}

	built, err := payload.Build(&snapshot, payload.Extra{UserID: userID, FileName: snapshot.FileName})
	if err != nil {
		return Outcome{}, sequencing(msgNoReport)
	}

	record, err := w.api.Update(ctx, snapshot.SubmissionID, built.Payload)
	if err != nil {
		return Outcome{}, remoteFailure("Failed to update report. Please try again.", err)
	}
	if record.ID == "" {
		record.ID = snapshot.SubmissionID
	}

	deleted := w.drafts.DeleteDraft(ctx, w.drafts.Key(snapshot.FileName))
	zerolog.Ctx(ctx).Info().
		Str("component", "submission").
		Str("submission_id", record.ID).
		Msg("report updated")

	return Outcome{Record: record, Diagnostics: built.Diagnostics, DraftDeleted: deleted}, nil
}

// Delete removes the submitted record; the open report becomes unsubmitted.
func (w *Workflow) Delete(ctx context.Context) error {
	if err := w.acquire(); err != nil {
		return err
	}
	defer w.release()

	snapshot, generation, ok := w.reports.Current()
	if !ok {
		return sequencing(msgNoReport)
	}
	if !snapshot.Submitted() {
		return sequencing(msgNotSubmitted)
	}
	id := snapshot.SubmissionID
	if err := w.api.Delete(ctx, id); err != nil {
		return remoteFailure("Failed to delete report. Please try again.", err)
	}

	cleared := ""
	if err := w.reports.UpdateMetadataFor(generation, report.MetadataPatch{SubmissionID: &cleared}); err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("component", "submission").
			Str("submission_id", id).
			Msg("submission id not cleared on the open report")
	}
	zerolog.Ctx(ctx).Info().Str("component", "submission").Str("submission_id", id).Msg("report deleted")
	return nil
}

// OpenDocx hands the rendered document's link to the platform opener.
func (w *Workflow) OpenDocx(ctx context.Context) (string, error) {
	if err := w.acquire(); err != nil {
		return "", err
	}
	defer w.release()

	id, err := w.submittedID(msgDocsNeedSubmit)
	if err != nil {
		return "", err
	}
	url := w.api.DocxURL(id)
	if err := w.opener.Open(ctx, url); err != nil {
		return url, &Error{Kind: KindRemote, Message: "Failed to open the document. Please try again.", Err: err}
	}
	return url, nil
}

// GeneralInfoPDF downloads the general information page and archives a copy
// when an archive is configured. Archive failures are logged only.
func (w *Workflow) GeneralInfoPDF(ctx context.Context) (Document, error) {
	if err := w.acquire(); err != nil {
		return Document{}, err
	}
	defer w.release()

	id, err := w.submittedID(msgDocsNeedSubmit)
	if err != nil {
		return Document{}, err
	}

	data, name, err := w.api.GeneralInfoPDF(ctx, id)
	if err != nil {
		return Document{}, remoteFailure("Failed to generate PDF. Please try again.", err)
	}
	if len(data) == 0 {
		return Document{}, &Error{Kind: KindRemote, Message: "Failed to generate PDF. Please try again.",
			Err: export.ErrEmptyDocument}
	}

	doc := Document{Result: export.Result{
		Data:     data,
		Filename: export.Filename(name, export.FormatPDF),
		MimeType: export.FormatPDF.MimeType(),
	}}
	if w.archive != nil {
		location, err := w.archive.Put(ctx, "cmvr-"+id, doc.Result)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("component", "submission").Msg("archive general info pdf")
		} else {
			doc.ArchivedAt = location
		}
	}
	return doc, nil
}

// LoadSubmission replaces the open report with a previously submitted one.
func (w *Workflow) LoadSubmission(ctx context.Context, id string) (report.Snapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return report.Snapshot{}, sequencing("Choose a submitted report to open.")
	}
	record, err := w.api.Get(ctx, id)
	if err != nil {
		return report.Snapshot{}, remoteFailure("Failed to load report. Please try again.", err)
	}

	snapshot, err := decodeRecord(record.Raw)
	if err != nil {
		return report.Snapshot{}, &Error{Kind: KindRemote, Message: "The stored report could not be read.", Err: err}
	}
	snapshot.SubmissionID = id
	if record.FileName != "" {
		snapshot.FileName = record.FileName
	}
	if record.ProjectID != "" {
		snapshot.ProjectID = record.ProjectID
	}
	if record.ProjectName != "" {
		snapshot.ProjectName = record.ProjectName
	}

	w.reports.LoadReport(snapshot)
	loaded, _ := w.reports.Snapshot()
	return loaded, nil
}

// payloadKeys only appear in the submission body the service stores, never
// in a saved screen snapshot.
var payloadKeys = []string{
	"companyName", "proponent", "mmt", "ecc", "isagMpp", "epep",
	"rehabilitationCashFund", "monitoringTrustFund", "finalMineRehabAndDecommissioningFund",
}

// decodeRecord reads a stored record body. Records hold the submitted
// payload, which is mapped back onto sections; bodies that still carry the
// screen layout (a generalInfo section) decode as a snapshot directly.
func decodeRecord(raw json.RawMessage) (report.Snapshot, error) {
	var snapshot report.Snapshot
	if len(raw) == 0 {
		return snapshot, nil
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return snapshot, err
	}
	_, screenShaped := keys["generalInfo"]
	payloadShaped := slices.ContainsFunc(payloadKeys, func(k string) bool {
		_, ok := keys[k]
		return ok
	})
	if screenShaped || !payloadShaped {
		err := json.Unmarshal(raw, &snapshot)
		return snapshot, err
	}

	var dto remote.CreateCMVRDto
	if err := json.Unmarshal(raw, &dto); err != nil {
		return snapshot, err
	}
	snapshot.Sections = normalize.FromRecord(dto)
	snapshot.FileName = strings.TrimSpace(dto.FileName)
	snapshot.ProjectID = strings.TrimSpace(dto.ProjectID)
	return snapshot, nil
}

// ListSubmissions lists the user's records, or every record when userID is
// blank.
func (w *Workflow) ListSubmissions(ctx context.Context, userID string) ([]remote.Record, error) {
	var (
		records []remote.Record
		err     error
	)
	if strings.TrimSpace(userID) == "" {
		records, err = w.api.List(ctx)
	} else {
		records, err = w.api.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, remoteFailure("Failed to load submitted reports. Please try again.", err)
	}
	return records, nil
}

func (w *Workflow) submittedID(message string) (string, error) {
	snapshot, ok := w.reports.Snapshot()
	if !ok {
		return "", sequencing(msgNoReport)
	}
	if !snapshot.Submitted() {
		return "", sequencing(message)
	}
	return snapshot.SubmissionID, nil
}

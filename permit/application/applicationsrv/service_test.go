package applicationsrv

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabalen/permitdocs/pkg/errx"
	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/permit/application"
	"github.com/kabalen/permitdocs/permit/document"
)

// --- fakes ---

type memAppRepo struct {
	mu   sync.Mutex
	apps map[kernel.ApplicationID]*application.PermitApplication
}

func newMemAppRepo() *memAppRepo {
	return &memAppRepo{apps: make(map[kernel.ApplicationID]*application.PermitApplication)}
}

func (r *memAppRepo) Create(ctx context.Context, app *application.PermitApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *memAppRepo) Update(ctx context.Context, app *application.PermitApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; !ok {
		return errors.New("not found")
	}
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *memAppRepo) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.PermitApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *app
	return &cp, nil
}

func (r *memAppRepo) GetByReferenceNo(ctx context.Context, ref kernel.ReferenceNo) (*application.PermitApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.ReferenceNo == ref {
			cp := *app
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memAppRepo) List(ctx context.Context, req application.ListApplicationsRequest) (*kernel.Paginated[application.PermitApplication], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := &kernel.Paginated[application.PermitApplication]{
		Page:     req.Pagination.Page,
		PageSize: req.Pagination.PageSize,
	}
	for _, app := range r.apps {
		out.Items = append(out.Items, *app)
	}
	out.Total = int64(len(out.Items))
	return out, nil
}

type memRecordRepo struct {
	mu      sync.Mutex
	records []*document.Record
}

func (r *memRecordRepo) Create(ctx context.Context, record *document.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memRecordRepo) Update(ctx context.Context, record *document.Record) error { return nil }

func (r *memRecordRepo) GetByID(ctx context.Context, id kernel.VerificationID) (*document.Record, error) {
	return nil, errors.New("not found")
}

func (r *memRecordRepo) ListByApplicationID(ctx context.Context, appID kernel.ApplicationID) ([]*document.Record, error) {
	return nil, nil
}

func (r *memRecordRepo) GetLatest(ctx context.Context, appID kernel.ApplicationID, category document.Category) (*document.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].ApplicationID == appID && r.records[i].Category == category {
			return r.records[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memRecordRepo) ClearFilePath(ctx context.Context, id kernel.VerificationID) error {
	return nil
}

func (r *memRecordRepo) addRecord(appID kernel.ApplicationID, category document.Category, status document.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, &document.Record{
		ID:            kernel.NewVerificationID(uuid.NewString()),
		ApplicationID: appID,
		Category:      category,
		Status:        status,
		CreatedAt:     time.Now(),
	})
}

// --- helpers ---

func newTestService() (*Service, *memAppRepo, *memRecordRepo) {
	apps := newMemAppRepo()
	records := &memRecordRepo{}
	return NewService(apps, records), apps, records
}

func createDraft(t *testing.T, svc *Service, appType application.Type) *application.PermitApplication {
	t.Helper()
	app, err := svc.CreateApplication(context.Background(), application.CreateApplicationRequest{
		Type:           appType,
		OwnerFirstName: "Juan",
		OwnerLastName:  "Dela Cruz",
		BusinessName:   "Kape ni Juan Coffee Shop",
		TIN:            "123-456-789",
	})
	require.NoError(t, err)
	return app
}

func asErrx(t *testing.T, err error) *errx.Error {
	t.Helper()
	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	return xerr
}

// --- tests ---

func TestCreateApplicationOpensDraft(t *testing.T) {
	svc, repo, _ := newTestService()

	app := createDraft(t, svc, application.TypeNew)

	assert.Equal(t, application.StatusDraft, app.Status)
	assert.True(t, strings.HasPrefix(app.ReferenceNo.String(), "BP-"))
	assert.False(t, app.ID.IsEmpty())

	stored, err := repo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ReferenceNo, stored.ReferenceNo)
}

func TestCreateApplicationRejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateApplication(context.Background(), application.CreateApplicationRequest{
		Type:           "franchise",
		OwnerFirstName: "Juan",
		OwnerLastName:  "Dela Cruz",
		BusinessName:   "Kape ni Juan",
	})

	xerr := asErrx(t, err)
	assert.Equal(t, application.CodeInvalidType, xerr.Code)
}

func TestCreateApplicationRejectsMalformedTIN(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateApplication(context.Background(), application.CreateApplicationRequest{
		Type:           application.TypeNew,
		OwnerFirstName: "Juan",
		OwnerLastName:  "Dela Cruz",
		BusinessName:   "Kape ni Juan",
		TIN:            "12-34",
	})

	xerr := asErrx(t, err)
	assert.Equal(t, application.CodeInvalidTIN, xerr.Code)
}

func TestUpdateApplicationDraftOnly(t *testing.T) {
	svc, repo, _ := newTestService()
	app := createDraft(t, svc, application.TypeNew)

	newName := "Kape ni Juan Roastery"
	updated, err := svc.UpdateApplication(context.Background(), app.ID, application.UpdateApplicationRequest{
		BusinessName: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.BusinessName)
	assert.Equal(t, "Juan", updated.OwnerFirstName)

	// lock the application and try again
	updated.Status = application.StatusSubmitted
	require.NoError(t, repo.Update(context.Background(), updated))

	_, err = svc.UpdateApplication(context.Background(), app.ID, application.UpdateApplicationRequest{
		BusinessName: &newName,
	})
	xerr := asErrx(t, err)
	assert.Equal(t, application.CodeNotEditable, xerr.Code)
}

func TestChecklistTracksRequiredSlots(t *testing.T) {
	svc, _, records := newTestService()
	app := createDraft(t, svc, application.TypeNew)

	checklist, err := svc.GetChecklist(context.Background(), app.ID)
	require.NoError(t, err)
	require.Len(t, checklist.Items, 4)
	assert.False(t, checklist.Complete)
	for _, item := range checklist.Items {
		assert.Equal(t, document.StatusIdle, item.Status)
		assert.False(t, item.Verified)
	}

	records.addRecord(app.ID, document.CategoryBarangayClearance, document.StatusVerified)
	records.addRecord(app.ID, document.CategoryLeaseOrTitle, document.StatusVerified)
	records.addRecord(app.ID, document.CategoryDTIRegistration, document.StatusVerified)
	records.addRecord(app.ID, document.CategoryOwnerValidID, document.StatusRejected)

	checklist, err = svc.GetChecklist(context.Background(), app.ID)
	require.NoError(t, err)
	assert.False(t, checklist.Complete)

	verified := 0
	for _, item := range checklist.Items {
		if item.Verified {
			verified++
		} else {
			assert.Equal(t, document.CategoryOwnerValidID, item.Category)
			assert.Equal(t, document.StatusRejected, item.Status)
		}
	}
	assert.Equal(t, 3, verified)
}

func TestChecklistReplacedByReupload(t *testing.T) {
	svc, _, records := newTestService()
	app := createDraft(t, svc, application.TypeAmendment)

	records.addRecord(app.ID, document.CategoryPreviousPermitCopy, document.StatusRejected)
	records.addRecord(app.ID, document.CategoryPreviousPermitCopy, document.StatusVerified)
	records.addRecord(app.ID, document.CategoryOwnerValidID, document.StatusVerified)

	checklist, err := svc.GetChecklist(context.Background(), app.ID)
	require.NoError(t, err)
	assert.True(t, checklist.Complete)
}

func TestSubmitRequiresCompleteChecklist(t *testing.T) {
	svc, _, records := newTestService()
	app := createDraft(t, svc, application.TypeAmendment)

	_, err := svc.SubmitApplication(context.Background(), app.ID)
	xerr := asErrx(t, err)
	assert.Equal(t, application.CodeChecklistIncomplete, xerr.Code)

	missing, ok := xerr.Details["missing"].([]string)
	require.True(t, ok)
	assert.Contains(t, missing, document.CategoryPreviousPermitCopy.Label())
	assert.Contains(t, missing, document.CategoryOwnerValidID.Label())

	records.addRecord(app.ID, document.CategoryPreviousPermitCopy, document.StatusVerified)
	records.addRecord(app.ID, document.CategoryOwnerValidID, document.StatusVerified)

	submitted, err := svc.SubmitApplication(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusSubmitted, submitted.Status)

	// a submitted application cannot be submitted twice
	_, err = svc.SubmitApplication(context.Background(), app.ID)
	xerr = asErrx(t, err)
	assert.Equal(t, application.CodeAlreadySubmitted, xerr.Code)
}

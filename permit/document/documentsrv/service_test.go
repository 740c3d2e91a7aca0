package documentsrv

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabalen/permitdocs/internal/ocr"
	"github.com/kabalen/permitdocs/pkg/errx"
	"github.com/kabalen/permitdocs/pkg/fsx"
	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/permit/document"
)

const barangayClearanceText = `
Republic of the Philippines
Province of Laguna
BARANGAY CLEARANCE

This is to certify that JUAN DELA CRUZ, of legal age, is a bona fide
resident of this barangay and is applying for a business permit for
KAPE NI JUAN COFFEE SHOP.

Issued upon request.

PUNONG BARANGAY
`

const driversLicenseText = `
Republic of the Philippines
DEPARTMENT OF TRANSPORTATION
LAND TRANSPORTATION OFFICE
DRIVER'S LICENSE

Last Name: DELA CRUZ  First Name: JUAN
Nationality: PHL  Date of Birth: 1990-01-15
License No. N01-23-456789
Expiration Date 2028-01-15
Signature
`

// --- fakes ---

type memRepo struct {
	mu      sync.Mutex
	records []*document.Record
	cleared []kernel.VerificationID
}

func (r *memRepo) Create(ctx context.Context, record *document.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memRepo) Update(ctx context.Context, record *document.Record) error { return nil }

func (r *memRepo) GetByID(ctx context.Context, id kernel.VerificationID) (*document.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memRepo) ListByApplicationID(ctx context.Context, appID kernel.ApplicationID) ([]*document.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*document.Record
	for _, rec := range r.records {
		if rec.ApplicationID == appID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRepo) GetLatest(ctx context.Context, appID kernel.ApplicationID, category document.Category) (*document.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].ApplicationID == appID && r.records[i].Category == category {
			return r.records[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memRepo) ClearFilePath(ctx context.Context, id kernel.VerificationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared = append(r.cleared, id)
	return nil
}

type fakeRasterizer struct {
	isPDF     bool
	textLayer string
	pages     [][]byte
	rasterErr error
}

func (f *fakeRasterizer) IsPDF(data []byte) bool { return f.isPDF }

func (f *fakeRasterizer) TextLayer(data []byte) (string, bool) {
	return f.textLayer, f.textLayer != ""
}

func (f *fakeRasterizer) Rasterize(data []byte) ([][]byte, error) {
	if f.rasterErr != nil {
		return nil, f.rasterErr
	}
	return f.pages, nil
}

type fakeWorker struct {
	mu         sync.Mutex
	text       string
	recognized int
	terminated int
	err        error
}

func (w *fakeWorker) Recognize(ctx context.Context, imageData []byte, onProgress ocr.ProgressFunc) (string, error) {
	w.mu.Lock()
	w.recognized++
	w.mu.Unlock()
	if w.err != nil {
		return "", w.err
	}
	if onProgress != nil {
		onProgress(0)
		onProgress(100)
	}
	return w.text, nil
}

func (w *fakeWorker) Terminate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.terminated++
	return nil
}

type fakeFactory struct {
	mu      sync.Mutex
	worker  *fakeWorker
	created int
}

func (f *fakeFactory) NewWorker(ctx context.Context) (ocr.Worker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	return f.worker, nil
}

func newTestService(t *testing.T, factory ocr.Factory, raster document.Rasterizer) (*Service, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	var fileStore fsx.FileSystem // sync path never touches the file store
	return NewService(repo, nil, nil, fileStore, factory, raster), repo
}

// --- tests ---

func TestVerifyDocument_BarangayClearanceAccepted(t *testing.T) {
	worker := &fakeWorker{text: barangayClearanceText}
	factory := &fakeFactory{worker: worker}
	raster := &fakeRasterizer{isPDF: true, pages: [][]byte{[]byte("page-1")}}
	svc, repo := newTestService(t, factory, raster)

	appID := kernel.NewApplicationID("app-1")
	resp, err := svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: appID,
		Category:      document.CategoryBarangayClearance,
		FileName:      "clearance.pdf",
		FileType:      "pdf",
		FileData:      []byte("%PDF-fake"),
		Expected: document.ExpectedFields{
			OwnerFirstName: "Juan",
			OwnerLastName:  "Dela Cruz",
			BusinessName:   "Kape ni Juan Coffee Shop",
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsVerified)
	assert.Empty(t, resp.InvalidReasons)
	assert.True(t, resp.Results.DocumentType.Detected)
	assert.True(t, resp.Results.OwnerName.AnyMatch)

	require.Len(t, repo.records, 1)
	assert.Equal(t, document.StatusVerified, repo.records[0].Status)

	assert.Equal(t, 1, factory.created)
	assert.Equal(t, 1, worker.terminated)

	state := svc.State(appID, document.CategoryBarangayClearance)
	assert.Equal(t, document.StatusVerified, state.Status)
	assert.Equal(t, 100, state.Progress)
}

func TestVerifyDocument_WrongIDTypeItemizedRejection(t *testing.T) {
	worker := &fakeWorker{text: driversLicenseText}
	factory := &fakeFactory{worker: worker}
	raster := &fakeRasterizer{isPDF: false}
	svc, repo := newTestService(t, factory, raster)

	resp, err := svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: kernel.NewApplicationID("app-2"),
		Category:      document.CategoryOwnerValidID,
		FileName:      "id.jpg",
		FileType:      "jpg",
		FileData:      []byte("jpeg-bytes"),
		Expected: document.ExpectedFields{
			OwnerFirstName: "Juan",
			OwnerLastName:  "Dela Cruz",
			IDType:         "Passport",
			IDNumber:       "N01-23-456789",
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.IsVerified)

	// The rejection itemizes every field so the applicant can fix the
	// exact one that failed
	require.Len(t, resp.InvalidReasons, 3)
	assert.Equal(t, "✓ Owner name found on the ID", resp.InvalidReasons[0])
	assert.Equal(t, "✓ ID number matches the declared number", resp.InvalidReasons[1])
	assert.Contains(t, resp.InvalidReasons[2], "❌ ID type mismatch")
	assert.Contains(t, resp.InvalidReasons[2], "Driver's License")
	assert.Contains(t, resp.InvalidReasons[2], "Passport")

	require.NotNil(t, resp.Results.IDType)
	assert.Equal(t, "Driver's License", resp.Results.IDType.Detected)
	assert.False(t, resp.Results.IDType.Matched)

	require.Len(t, repo.records, 1)
	assert.Equal(t, document.StatusRejected, repo.records[0].Status)
	assert.Equal(t, 1, worker.terminated)
}

func TestVerifyDocument_WrongDocumentTypeReason(t *testing.T) {
	worker := &fakeWorker{text: driversLicenseText}
	factory := &fakeFactory{worker: worker}
	raster := &fakeRasterizer{isPDF: false}
	svc, _ := newTestService(t, factory, raster)

	resp, err := svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: kernel.NewApplicationID("app-3"),
		Category:      document.CategoryDTIRegistration,
		FileName:      "id.jpg",
		FileType:      "jpg",
		FileData:      []byte("jpeg-bytes"),
		Expected: document.ExpectedFields{
			OwnerFirstName: "Juan",
			OwnerLastName:  "Dela Cruz",
			BusinessName:   "Kape ni Juan",
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.IsVerified)
	require.Len(t, resp.InvalidReasons, 1)
	assert.Equal(t, "Wrong document type uploaded. Expected: DTI Business Name Registration.", resp.InvalidReasons[0])
}

func TestVerifyDocument_NoFileCreatesNoWorker(t *testing.T) {
	factory := &fakeFactory{worker: &fakeWorker{}}
	svc, repo := newTestService(t, factory, &fakeRasterizer{})

	_, err := svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: kernel.NewApplicationID("app-4"),
		Category:      document.CategoryBarangayClearance,
		FileName:      "clearance.pdf",
		FileType:      "pdf",
	})
	require.Error(t, err)

	var xerr *errx.Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, "Please upload the document first", xerr.Message)

	assert.Equal(t, 0, factory.created)
	assert.Empty(t, repo.records)
}

func TestVerifyDocument_OCRRunsPerRenderedPage(t *testing.T) {
	worker := &fakeWorker{text: barangayClearanceText}
	factory := &fakeFactory{worker: worker}
	// Rasterizer output is already page-capped; three pages mean three
	// recognition calls on the single worker
	raster := &fakeRasterizer{isPDF: true, pages: [][]byte{
		[]byte("page-1"), []byte("page-2"), []byte("page-3"),
	}}
	svc, _ := newTestService(t, factory, raster)

	resp, err := svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: kernel.NewApplicationID("app-5"),
		Category:      document.CategoryBarangayClearance,
		FileName:      "clearance.pdf",
		FileType:      "pdf",
		FileData:      []byte("%PDF-fake"),
		Expected: document.ExpectedFields{
			OwnerFirstName: "Juan",
			OwnerLastName:  "Dela Cruz",
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsVerified)
	assert.Equal(t, 3, worker.recognized)
	assert.Equal(t, 1, worker.terminated)
}

func TestVerifyDocument_TextLayerSkipsOCR(t *testing.T) {
	worker := &fakeWorker{text: "never used"}
	factory := &fakeFactory{worker: worker}
	raster := &fakeRasterizer{isPDF: true, textLayer: barangayClearanceText}
	svc, _ := newTestService(t, factory, raster)

	resp, err := svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: kernel.NewApplicationID("app-6"),
		Category:      document.CategoryBarangayClearance,
		FileName:      "clearance.pdf",
		FileType:      "pdf",
		FileData:      []byte("%PDF-fake"),
		Expected: document.ExpectedFields{
			OwnerFirstName: "Juan",
			OwnerLastName:  "Dela Cruz",
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsVerified)
	assert.Equal(t, 0, worker.recognized)
	// The worker was still created up front and must be torn down
	assert.Equal(t, 1, worker.terminated)
}

func TestVerifyDocument_RasterFailureEndsErrored(t *testing.T) {
	worker := &fakeWorker{}
	factory := &fakeFactory{worker: worker}
	raster := &fakeRasterizer{isPDF: true, rasterErr: errors.New("broken xref table")}
	svc, repo := newTestService(t, factory, raster)

	appID := kernel.NewApplicationID("app-7")
	resp, err := svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: appID,
		Category:      document.CategoryBarangayClearance,
		FileName:      "clearance.pdf",
		FileType:      "pdf",
		FileData:      []byte("%PDF-corrupt"),
	})
	require.NoError(t, err)
	assert.False(t, resp.IsVerified)
	assert.Contains(t, resp.InvalidReasons, "The document may be unreadable or unclear.")

	require.Len(t, repo.records, 1)
	assert.Equal(t, document.StatusErrored, repo.records[0].Status)

	// Worker existed before rasterization failed and is still torn down
	assert.Equal(t, 1, worker.terminated)

	state := svc.State(appID, document.CategoryBarangayClearance)
	assert.Equal(t, document.StatusErrored, state.Status)
	assert.Equal(t, 100, state.Progress)
}

func TestVerifyDocument_InFlightGuard(t *testing.T) {
	worker := &fakeWorker{text: barangayClearanceText}
	factory := &fakeFactory{worker: worker}
	svc, _ := newTestService(t, factory, &fakeRasterizer{isPDF: false})

	appID := kernel.NewApplicationID("app-8")
	key := slotKey(appID, document.CategoryBarangayClearance)
	require.True(t, svc.states.tryStartVerifying(key))

	_, err := svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: appID,
		Category:      document.CategoryBarangayClearance,
		FileName:      "clearance.jpg",
		FileType:      "jpg",
		FileData:      []byte("jpeg-bytes"),
	})
	require.Error(t, err)

	var xerr *errx.Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, document.CodeVerificationInFlight, xerr.Code)
	assert.Equal(t, 0, factory.created)

	// A different category of the same application is not blocked
	_, err = svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: appID,
		Category:      document.CategoryRenewalPermitCopy,
		FileName:      "permit.jpg",
		FileType:      "jpg",
		FileData:      []byte("jpeg-bytes"),
		Expected:      document.ExpectedFields{BusinessName: "Kape ni Juan"},
	})
	require.NoError(t, err)
}

func TestVerifyDocument_ProgressMonotonicTerminal(t *testing.T) {
	worker := &fakeWorker{text: barangayClearanceText}
	factory := &fakeFactory{worker: worker}
	raster := &fakeRasterizer{isPDF: true, pages: [][]byte{
		[]byte("page-1"), []byte("page-2"),
	}}
	svc := NewService(&memRepo{}, nil, nil, nil, factory, raster)

	var seen []int
	_, err := svc.runPipeline(context.Background(),
		document.CategoryBarangayClearance,
		document.ExpectedFields{OwnerFirstName: "Juan", OwnerLastName: "Dela Cruz"},
		[]byte("%PDF-fake"),
		func(p int) { seen = append(seen, p) })
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1], "progress went backwards at index %d: %v", i, seen)
	}
	assert.Equal(t, 100, seen[len(seen)-1])
}

func TestVerifyDocument_UnknownCategory(t *testing.T) {
	factory := &fakeFactory{worker: &fakeWorker{}}
	svc, _ := newTestService(t, factory, &fakeRasterizer{})

	_, err := svc.VerifyDocument(context.Background(), document.VerifyDocumentRequest{
		ApplicationID: kernel.NewApplicationID("app-9"),
		Category:      document.Category("tax_return"),
		FileName:      "doc.pdf",
		FileType:      "pdf",
		FileData:      []byte("%PDF-fake"),
	})
	require.Error(t, err)
	assert.Equal(t, 0, factory.created)
}

package docclass

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barangayText = `
Republic of the Philippines
BARANGAY CLEARANCE
This is to certify that JUAN DELA CRUZ, of legal age, is a resident
of this barangay and has no derogatory record on file.
Issued upon request for business permit purposes.
PUNONG BARANGAY
`

const driversLicenseText = `
REPUBLIC OF THE PHILIPPINES
DEPARTMENT OF TRANSPORTATION
LAND TRANSPORTATION OFFICE
DRIVER'S LICENSE
Last Name: DELA CRUZ First Name: JUAN
License No: N01-23-456789
NON-PROFESSIONAL
`

func TestDetectDocumentTypeBarangay(t *testing.T) {
	got := DetectDocumentType(barangayText, CategoryBarangayClearance)
	assert.True(t, got.Matched)
	assert.GreaterOrEqual(t, got.MatchCount, 2)
	assert.Greater(t, got.Confidence, 0.0)
	assert.LessOrEqual(t, got.Confidence, 1.0)
}

func TestDetectDocumentTypeNoHits(t *testing.T) {
	got := DetectDocumentType("completely unrelated grocery list", CategoryBIRCertificate)
	assert.False(t, got.Matched)
	assert.Equal(t, 0, got.MatchCount)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestDetectDocumentTypeUnknownCategory(t *testing.T) {
	got := DetectDocumentType(barangayText, "no_such_category")
	assert.False(t, got.Matched)
}

func TestDetectIDTypeDriversLicense(t *testing.T) {
	got := DetectIDType(driversLicenseText)
	require.NotNil(t, got)
	assert.Equal(t, "Driver's License", got.Type)
	assert.GreaterOrEqual(t, got.MatchCount, 3)
}

func TestDetectIDTypeNone(t *testing.T) {
	assert.Nil(t, DetectIDType("this text mentions no identification document at all"))
}

func TestDetectIDTypeRanksByHitCount(t *testing.T) {
	// Mentions both SSS (1 hit) and the driver's license vocabulary (2 hits)
	text := "sss member, land transportation office driver's license"
	got := DetectIDType(text)
	require.NotNil(t, got)
	assert.Equal(t, "Driver's License", got.Type)
}

func TestCompatibleIDTypes(t *testing.T) {
	assert.True(t, CompatibleIDTypes("Driver License", "Driver's License"))
	assert.True(t, CompatibleIDTypes("UMID", "Unified Multi-Purpose ID"))
	assert.True(t, CompatibleIDTypes("Passport", "Passport"))
	assert.True(t, CompatibleIDTypes("philsys", "Philippine National ID"))

	assert.False(t, CompatibleIDTypes("Passport", "Driver's License"))
	assert.False(t, CompatibleIDTypes("", "Driver's License"))
}

func TestCategoryHelpers(t *testing.T) {
	assert.True(t, KnownCategory(CategoryFSIC))
	assert.False(t, KnownCategory("bogus"))
	assert.True(t, IsIDCategory(CategoryOwnerValidID))
	assert.True(t, IsIDCategory(CategoryOwnerScannedID))
	assert.False(t, IsIDCategory(CategoryBarangayClearance))
	assert.Equal(t, "Barangay Clearance", Label(CategoryBarangayClearance))
	assert.Equal(t, "bogus", Label("bogus"))
	assert.Len(t, Categories(), 10)
	assert.GreaterOrEqual(t, len(IDTypes()), 25)
}

func TestCategoriesStableOrder(t *testing.T) {
	first := Categories()
	assert.True(t, sort.StringsAreSorted(first))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Categories())
	}
}

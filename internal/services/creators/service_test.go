package creators

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	pgrepo "github.com/kana-2024/influmojo-backend/internal/repo/postgres"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestUpdateBasicInfo(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.UpdateBasicInfo(context.Background(), 1, BasicInfoInput{
		Gender:    "Female",
		Birthdate: time.Date(2000, 3, 15, 0, 0, 0, 0, time.UTC),
		State:     "Karnataka",
		City:      "Bengaluru",
		Pincode:   "560001",
		Bio:       "Travel and food content.",
	})
	if err != nil {
		t.Fatalf("update basic info: %v", err)
	}
	if rec.Gender != "female" {
		t.Fatalf("gender not normalized: %q", rec.Gender)
	}
	if rec.City != "Bengaluru" {
		t.Fatalf("unexpected city: %q", rec.City)
	}
}

func TestUpdateBasicInfoRejectsMinors(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateBasicInfo(context.Background(), 1, BasicInfoInput{
		Gender:    "male",
		Birthdate: testNow.AddDate(-17, 0, 0),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("under-18 birthdate must fail, got %v", err)
	}

	// Exactly 18 today is acceptable.
	if _, err := svc.UpdateBasicInfo(context.Background(), 1, BasicInfoInput{
		Gender:    "male",
		Birthdate: testNow.AddDate(-18, 0, 0),
	}); err != nil {
		t.Fatalf("exactly 18 must pass, got %v", err)
	}
}

func TestUpdateBasicInfoRejectsLongBio(t *testing.T) {
	svc, _ := newTestService()

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.UpdateBasicInfo(context.Background(), 1, BasicInfoInput{
		Gender:    "other",
		Birthdate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Bio:       string(long),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("501-char bio must fail, got %v", err)
	}
}

func TestUpdatePreferencesNormalizes(t *testing.T) {
	svc, store := newTestService()

	rec, err := svc.UpdatePreferences(context.Background(), 1,
		[]string{"Fashion", "fashion", " TRAVEL ", "tech"},
		[]string{"English", "HINDI", "english"},
	)
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}

	wantCategories := []string{"fashion", "travel", "tech"}
	if !reflect.DeepEqual(rec.Categories, wantCategories) {
		t.Fatalf("categories = %v, want %v", rec.Categories, wantCategories)
	}
	wantLanguages := []string{"english", "hindi"}
	if !reflect.DeepEqual(store.profiles[1].Languages, wantLanguages) {
		t.Fatalf("languages = %v, want %v", store.profiles[1].Languages, wantLanguages)
	}
}

func TestUpdatePreferencesRejectsUnknownCategory(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.UpdatePreferences(context.Background(), 1, []string{"astrology"}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown category must fail, got %v", err)
	}
	if _, err := svc.UpdatePreferences(context.Background(), 1, nil, []string{"hindi"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty category list must fail, got %v", err)
	}
}

func TestCreatePackage(t *testing.T) {
	svc, store := newTestService()
	store.seedProfile(1)

	rec, err := svc.CreatePackage(context.Background(), 1, PackageInput{
		Platform:  "Instagram",
		Title:     "3 reels",
		Quantity:  3,
		Revisions: 1,
		Price:     499.99,
	})
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	if rec.Currency != "INR" {
		t.Fatalf("currency must always be INR, got %q", rec.Currency)
	}
	if rec.Platform != "instagram" {
		t.Fatalf("platform not normalized: %q", rec.Platform)
	}
}

func TestCreatePackageValidation(t *testing.T) {
	svc, store := newTestService()
	store.seedProfile(1)

	base := PackageInput{Platform: "instagram", Title: "1 reel", Quantity: 1, Price: 100}

	cases := map[string]PackageInput{}

	zeroQuantity := base
	zeroQuantity.Quantity = 0
	cases["zero quantity"] = zeroQuantity

	negativeRevisions := base
	negativeRevisions.Revisions = -1
	cases["negative revisions"] = negativeRevisions

	freePackage := base
	freePackage.Price = 0
	cases["zero price"] = freePackage

	noTitle := base
	noTitle.Title = "  "
	cases["blank title"] = noTitle

	badPlatform := base
	badPlatform.Platform = "myspace"
	cases["unknown platform"] = badPlatform

	for name, in := range cases {
		if _, err := svc.CreatePackage(context.Background(), 1, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: want ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestCreatePackageWithoutProfile(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreatePackage(context.Background(), 7, PackageInput{
		Platform: "instagram", Title: "1 reel", Quantity: 1, Price: 100,
	})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("missing profile must map to ErrProfileNotFound, got %v", err)
	}
}

func TestCreatePortfolioItem(t *testing.T) {
	svc, store := newTestService()
	store.seedProfile(1)

	rec, err := svc.CreatePortfolioItem(context.Background(), 1, PortfolioInput{
		Title:    "Summer lookbook",
		Kind:     "image",
		MediaURL: "https://cdn.example.com/lookbook.jpg",
	})
	if err != nil {
		t.Fatalf("create portfolio item: %v", err)
	}
	if rec.ID == 0 {
		t.Fatalf("no id assigned")
	}

	_, err = svc.CreatePortfolioItem(context.Background(), 1, PortfolioInput{Title: "x", Kind: "hologram", MediaURL: "u"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown kind must fail, got %v", err)
	}

	_, err = svc.CreatePortfolioItem(context.Background(), 1, PortfolioInput{Title: "x", Kind: "image"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("item without media must fail, got %v", err)
	}
}

func TestSubmitKYC(t *testing.T) {
	svc, store := newTestService()
	store.seedProfile(1)

	rec, err := svc.SubmitKYC(context.Background(), 1, KYCInput{
		DocumentType:   "PAN",
		DocumentNumber: "ABCDE1234F",
	})
	if err != nil {
		t.Fatalf("submit kyc: %v", err)
	}
	if rec.Status != "pending" {
		t.Fatalf("submitted kyc must be pending, got %q", rec.Status)
	}

	// A second submit while the first is pending is rejected.
	if _, err := svc.SubmitKYC(context.Background(), 1, KYCInput{
		DocumentType:   "pan",
		DocumentNumber: "ABCDE1234F",
	}); !errors.Is(err, ErrKYCPending) {
		t.Fatalf("pending re-submit must fail, got %v", err)
	}

	// After a rejection the creator may try again.
	store.setKYCStatus(1, "rejected")
	if _, err := svc.SubmitKYC(context.Background(), 1, KYCInput{
		DocumentType:   "aadhaar",
		DocumentNumber: "123412341234",
	}); err != nil {
		t.Fatalf("re-submit after rejection: %v", err)
	}
}

func TestSubmitKYCValidation(t *testing.T) {
	svc, store := newTestService()
	store.seedProfile(1)

	if _, err := svc.SubmitKYC(context.Background(), 1, KYCInput{DocumentType: "voter-id", DocumentNumber: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown document type must fail, got %v", err)
	}
	if _, err := svc.SubmitKYC(context.Background(), 1, KYCInput{DocumentType: "pan"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing document number must fail, got %v", err)
	}
}

func TestKYCStatusDefaultsToNone(t *testing.T) {
	svc, store := newTestService()
	store.seedProfile(1)

	status, err := svc.KYCStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("kyc status: %v", err)
	}
	if status != "none" {
		t.Fatalf("status = %q, want none", status)
	}
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	svc := NewService(store, store, fakePortfolioStore{store}, store)
	svc.now = func() time.Time { return testNow }
	return svc, store
}

type fakeStore struct {
	profiles      map[int64]*pgrepo.CreatorProfileRecord
	packages      []pgrepo.PackageRecord
	portfolio     []pgrepo.PortfolioRecord
	kycByProfile  map[int64]*pgrepo.KYCRecord
	nextProfileID int64
	nextRowID     int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:     map[int64]*pgrepo.CreatorProfileRecord{},
		kycByProfile: map[int64]*pgrepo.KYCRecord{},
	}
}

func (f *fakeStore) seedProfile(userID int64) {
	f.nextProfileID++
	f.profiles[userID] = &pgrepo.CreatorProfileRecord{ID: f.nextProfileID, UserID: userID}
}

func (f *fakeStore) setKYCStatus(userID int64, status string) {
	profile := f.profiles[userID]
	if rec, ok := f.kycByProfile[profile.ID]; ok {
		rec.Status = status
	}
}

func (f *fakeStore) ensureProfile(userID int64) *pgrepo.CreatorProfileRecord {
	if rec, ok := f.profiles[userID]; ok {
		return rec
	}
	f.seedProfile(userID)
	return f.profiles[userID]
}

func (f *fakeStore) UpsertBasicInfo(_ context.Context, userID int64, gender string, birthdate time.Time, state, city, pincode, bio string) error {
	rec := f.ensureProfile(userID)
	rec.Gender = gender
	rec.Birthdate = &birthdate
	rec.State = state
	rec.City = city
	rec.Pincode = pincode
	rec.Bio = bio
	return nil
}

func (f *fakeStore) UpsertPreferences(_ context.Context, userID int64, categories, languages []string) error {
	rec := f.ensureProfile(userID)
	rec.Categories = categories
	rec.Languages = languages
	return nil
}

func (f *fakeStore) GetByUserID(_ context.Context, userID int64) (pgrepo.CreatorProfileRecord, error) {
	if rec, ok := f.profiles[userID]; ok {
		return *rec, nil
	}
	return pgrepo.CreatorProfileRecord{}, pgrepo.ErrCreatorProfileNotFound
}

func (f *fakeStore) Create(_ context.Context, rec pgrepo.PackageRecord) (pgrepo.PackageRecord, error) {
	f.nextRowID++
	rec.ID = f.nextRowID
	f.packages = append(f.packages, rec)
	return rec, nil
}

func (f *fakeStore) ListByProfile(_ context.Context, profileID int64) ([]pgrepo.PackageRecord, error) {
	var result []pgrepo.PackageRecord
	for _, rec := range f.packages {
		if rec.CreatorProfileID == profileID {
			result = append(result, rec)
		}
	}
	return result, nil
}

// fakePortfolioStore exists because the portfolio Create signature collides
// with the package one on a single fake type.
type fakePortfolioStore struct {
	store *fakeStore
}

func (p fakePortfolioStore) Create(_ context.Context, rec pgrepo.PortfolioRecord) (pgrepo.PortfolioRecord, error) {
	p.store.nextRowID++
	rec.ID = p.store.nextRowID
	p.store.portfolio = append(p.store.portfolio, rec)
	return rec, nil
}

func (p fakePortfolioStore) ListByProfile(_ context.Context, profileID int64) ([]pgrepo.PortfolioRecord, error) {
	var result []pgrepo.PortfolioRecord
	for _, rec := range p.store.portfolio {
		if rec.CreatorProfileID == profileID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeStore) GetByProfileID(_ context.Context, profileID int64) (pgrepo.KYCRecord, error) {
	if rec, ok := f.kycByProfile[profileID]; ok {
		return *rec, nil
	}
	return pgrepo.KYCRecord{}, pgrepo.ErrKYCNotFound
}

func (f *fakeStore) Submit(_ context.Context, rec pgrepo.KYCRecord) (pgrepo.KYCRecord, error) {
	if existing, ok := f.kycByProfile[rec.CreatorProfileID]; ok {
		rec.ID = existing.ID
	} else {
		f.nextRowID++
		rec.ID = f.nextRowID
	}
	rec.Status = "pending"
	rec.SubmittedAt = testNow
	f.kycByProfile[rec.CreatorProfileID] = &rec
	return rec, nil
}

var _ ProfileStore = (*fakeStore)(nil)
var _ PackageStore = (*fakeStore)(nil)
var _ KYCStore = (*fakeStore)(nil)
var _ PortfolioStore = fakePortfolioStore{}

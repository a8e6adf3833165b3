// fakes_test.go — in-memory заглушки репозиториев и архива для unit-тестов.
package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/zhilfond/housing-registry/internal/couchdb"
	"github.com/zhilfond/housing-registry/internal/domain/model"
	"github.com/zhilfond/housing-registry/internal/repository"
)

// testLogger — логгер, пишущий в никуда.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTenantRepo — заглушка TenantRepository поверх map.
type fakeTenantRepo struct {
	tenants   map[int64]*model.Tenant
	addresses map[int64]*model.TenantWithAddress
	nextID    int64
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		tenants:   make(map[int64]*model.Tenant),
		addresses: make(map[int64]*model.TenantWithAddress),
		nextID:    1,
	}
}

func (f *fakeTenantRepo) Create(_ context.Context, tenant *model.Tenant) error {
	tenant.ID = f.nextID
	f.nextID++
	clone := *tenant
	f.tenants[tenant.ID] = &clone
	return nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id int64) (*model.Tenant, error) {
	tenant, ok := f.tenants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *tenant
	return &clone, nil
}

func (f *fakeTenantRepo) GetWithAddress(_ context.Context, id int64) (*model.TenantWithAddress, error) {
	twa, ok := f.addresses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *twa
	return &clone, nil
}

func (f *fakeTenantRepo) ListAll(_ context.Context) ([]model.TenantWithAddress, error) {
	var out []model.TenantWithAddress
	for _, twa := range f.addresses {
		out = append(out, *twa)
	}
	return out, nil
}

func (f *fakeTenantRepo) FindByName(_ context.Context, firstName, lastName string) (*model.Tenant, error) {
	for _, tenant := range f.tenants {
		if tenant.FirstName == firstName && tenant.LastName == lastName {
			clone := *tenant
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTenantRepo) Update(_ context.Context, tenant *model.Tenant) error {
	if _, ok := f.tenants[tenant.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *tenant
	f.tenants[tenant.ID] = &clone
	return nil
}

func (f *fakeTenantRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.tenants[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tenants, id)
	delete(f.addresses, id)
	return nil
}

// fakeUserRepo — заглушка UserRepository поверх map.
type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.Username]; ok {
		return repository.ErrConflict
	}
	user.ID = f.nextID
	f.nextID++
	clone := *user
	f.users[user.Username] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) ExistsForTenant(_ context.Context, tenantID int64) (bool, error) {
	for _, user := range f.users {
		if user.TenantID != nil && *user.TenantID == tenantID {
			return true, nil
		}
	}
	return false, nil
}

// fakeArchive — заглушка CertificateArchive.
type fakeArchive struct {
	docs        map[string]*couchdb.Document
	attachments map[string][]byte
	saveErr     error
	saved       int
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{
		docs:        make(map[string]*couchdb.Document),
		attachments: make(map[string][]byte),
	}
}

func (f *fakeArchive) SaveCertificate(_ context.Context, tenantID int64, pdf []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved++
	docID := "doc-1"
	f.docs[docID] = &couchdb.Document{
		ID:       docID,
		TenantID: tenantID,
		Type:     "certificate",
		Attachments: map[string]couchdb.AttachmentStub{
			"certificate_1.pdf": {ContentType: "application/pdf", Length: int64(len(pdf))},
		},
	}
	f.attachments[docID] = pdf
	return docID, nil
}

func (f *fakeArchive) ListCertificates(_ context.Context) ([]couchdb.Document, error) {
	var out []couchdb.Document
	for _, doc := range f.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (f *fakeArchive) GetCertificate(_ context.Context, docID string) (*couchdb.Document, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, couchdb.ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (f *fakeArchive) GetAttachment(_ context.Context, docID, _ string) ([]byte, string, error) {
	content, ok := f.attachments[docID]
	if !ok {
		return nil, "", couchdb.ErrNotFound
	}
	return content, "application/pdf", nil
}
